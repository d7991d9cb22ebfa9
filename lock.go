package query

// LockMode is the row locking strategy requested for a query. The handle only
// stores and forwards it; planners decide what each mode means for their engine.
type LockMode int

const (
	LockNone LockMode = iota
	LockRead
	LockWrite
	LockOptimistic
	LockOptimisticForceIncrement
	LockPessimisticRead
	LockPessimisticWrite
	LockPessimisticForceIncrement
)

var lockModeNames = [...]string{
	LockNone:                      "NONE",
	LockRead:                      "READ",
	LockWrite:                     "WRITE",
	LockOptimistic:                "OPTIMISTIC",
	LockOptimisticForceIncrement:  "OPTIMISTIC_FORCE_INCREMENT",
	LockPessimisticRead:           "PESSIMISTIC_READ",
	LockPessimisticWrite:          "PESSIMISTIC_WRITE",
	LockPessimisticForceIncrement: "PESSIMISTIC_FORCE_INCREMENT",
}

func (m LockMode) String() string {
	if m < 0 || int(m) >= len(lockModeNames) {
		return "UNKNOWN"
	}
	return lockModeNames[m]
}

// ParseLockMode returns the LockMode named s, as printed by String.
func ParseLockMode(s string) (LockMode, bool) {
	for i, name := range lockModeNames {
		if name == s {
			return LockMode(i), true
		}
	}
	return LockNone, false
}
