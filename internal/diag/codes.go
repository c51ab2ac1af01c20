package diag

import "fmt"

// Code represents a reconstruction outcome code (SMP-series).
type Code int

const (
	codeInvalid Code = iota

	SMP000PathFound
	SMP010NoPath
	SMP020ViolationInfeasible
	SMP030Aborted
	SMP040InvariantBroken
	SMP050MalformedTransition
)

// String returns the canonical code and short name.
// Example: "SMP000: PathFound"
func (c Code) String() string {
	switch c {
	case SMP000PathFound:
		return "SMP000: PathFound"
	case SMP010NoPath:
		return "SMP010: NoPath"
	case SMP020ViolationInfeasible:
		return "SMP020: ViolationInfeasible"
	case SMP030Aborted:
		return "SMP030: Aborted"
	case SMP040InvariantBroken:
		return "SMP040: InvariantBroken"
	case SMP050MalformedTransition:
		return "SMP050: MalformedTransition"
	default:
		return fmt.Sprintf("code-unknown(%d)", c)
	}
}

// Description returns the human-readable explanation of the code.
func (c Code) Description() string {
	switch c {
	case SMP000PathFound:
		return "A shortest path from an entry to the violation was found."
	case SMP010NoPath:
		return "No entry reaches the violation, the diagnosis is suppressed."
	case SMP020ViolationInfeasible:
		return "Facts contradict at the violation itself, the diagnosis is suppressed."
	case SMP030Aborted:
		return "Reconstruction ran out of its budget or was cancelled."
	case SMP040InvariantBroken:
		return "The violation node is missing from its own error graph."
	case SMP050MalformedTransition:
		return "A transition record targets a point that is not a successor of its source."
	default:
		return fmt.Sprintf("unknown-code(%d)", c)
	}
}

// Suppressing returns true for codes whose diagnosis must not be shown.
func (c Code) Suppressing() bool {
	return c == SMP010NoPath || c == SMP020ViolationInfeasible
}
