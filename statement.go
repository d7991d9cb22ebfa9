package query

// Action represents the kind of statement a Planner is asked to build.
type Action int

const (
	// ActionSelect reads the rows of a window.
	ActionSelect Action = iota
	// ActionCount counts every row matched by the predicate, ignoring ordering and window.
	ActionCount
)

func (a Action) String() string {
	switch a {
	case ActionSelect:
		return "select"
	case ActionCount:
		return "count"
	default:
		return "unknown"
	}
}

// Statement is a compiled query together with the cursor state of one read.
// Planners read these fields to build Plans.
type Statement struct {
	Action     Action
	Table      string
	Columns    []string // empty selects every column
	Conditions []Condition
	OrderBy    []Order
	Limit      int // zero is unbounded
	Offset     int
	Lock       LockMode
	Hints      map[string]any
}
