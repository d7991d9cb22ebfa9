package query

import "time"

// Plan describes how the Executor should run the operation.
type Plan struct {
	Mode    Action
	Query   string
	Args    []any
	Timeout time.Duration // zero means no deadline beyond the caller's context
}
