package backend

import (
	"github.com/greylang/greyc/internal/engine"
	"github.com/greylang/greyc/internal/ir"
)

// KernelProcessLimit is the execution engine's fixed process-table size.
// It binds regardless of any bound the IR declares.
const KernelProcessLimit = engine.MaxPoolProcesses

// ValidateProgram checks a program and its resolved runtime process
// count against static and kernel-imposed bounds. Pure predicate: the
// first violation is returned as a *Error with KindValidation, nil when
// everything is admissible.
func ValidateProgram(p *ir.Program, runtimeProcessCount int) error {
	for _, proc := range p.Processes {
		if !proc.Coord.Valid() {
			return NewValidationError(p.Name,
				"process %q has invalid coordinate %s", proc.Name, proc.Coord)
		}
	}

	if len(p.Processes) > p.Resources.MaxProcesses {
		return NewValidationError(p.Name,
			"too many processes: %d > %d", len(p.Processes), p.Resources.MaxProcesses)
	}

	if runtimeProcessCount > p.Resources.MaxProcesses {
		return NewValidationError(p.Name,
			"runtime process count %d exceeds max_processes %d",
			runtimeProcessCount, p.Resources.MaxProcesses)
	}

	if runtimeProcessCount > KernelProcessLimit {
		return NewValidationError(p.Name,
			"runtime process count %d exceeds kernel hard limit %d",
			runtimeProcessCount, KernelProcessLimit)
	}

	return nil
}

// ValidateOrdering rejects orderings the deterministic pipeline cannot
// reproduce across engines.
func ValidateOrdering(program string, ordering EventOrdering) error {
	switch ordering {
	case OrderingDeterministic, "":
		return nil
	case OrderingFifo:
		return NewValidationError(program,
			"event ordering %q is not supported on the deterministic path", ordering)
	default:
		return NewValidationError(program, "unknown event ordering %q", ordering)
	}
}
