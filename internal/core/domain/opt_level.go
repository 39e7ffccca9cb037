package domain

// OptLevel is one of the two optimization levels the matrix exercises.
type OptLevel uint8

const (
	// O0 disables optimization.
	O0 OptLevel = iota
	// O2 is the standard optimization level.
	O2
)

// OptLevels returns every supported level in build order.
func OptLevels() []OptLevel {
	return []OptLevel{O0, O2}
}

// Flag renders the level as a compiler flag, e.g. "-O2".
func (l OptLevel) Flag() string {
	return "-" + l.String()
}

// String returns the level name used in artifact names.
func (l OptLevel) String() string {
	switch l {
	case O0:
		return "O0"
	case O2:
		return "O2"
	default:
		return "unknown"
	}
}
