package query

// Planner converts statements into engine instructions. It owns the meaning
// of lock modes and hints.
type Planner interface {
	Plan(stmt Statement) (Plan, error)
}
