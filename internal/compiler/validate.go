package compiler

import (
	"fmt"
	"strings"

	"github.com/greylang/greyc/internal/ir"
)

// Validate checks a loaded program against the IR schema rules.
// Returns all violations found (does not fail fast).
//
// This is frontend-level validation: structural and naming rules the
// program must satisfy regardless of backend configuration. Resource
// admission against runtime process counts happens later, in the backend.
func Validate(p *ir.Program) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "program name is required and must be non-empty",
			Code:    ErrProgramNameEmpty,
		})
	}

	for _, bound := range []struct {
		name  string
		value int
	}{
		{"max_processes", p.Resources.MaxProcesses},
		{"max_events_per_tick", p.Resources.MaxEventsPerTick},
		{"max_coordinate_value", p.Resources.MaxCoordinateValue},
	} {
		if bound.value < 0 {
			errs = append(errs, ValidationError{
				Field:   "resources." + bound.name,
				Message: fmt.Sprintf("must be non-negative, got %d", bound.value),
				Code:    ErrNegativeResource,
			})
		}
	}

	maxCoord := ir.CoordAxisMax
	if p.Resources.MaxCoordinateValue >= 0 && p.Resources.MaxCoordinateValue < maxCoord {
		maxCoord = p.Resources.MaxCoordinateValue
	}

	events := make(map[string]bool, len(p.Events))
	for _, ev := range p.Events {
		if events[ev.Name] {
			errs = append(errs, ValidationError{
				Field:   "event." + ev.Name,
				Message: "duplicate event name",
				Code:    ErrDuplicateName,
			})
		}
		events[ev.Name] = true
	}

	seen := make(map[string]bool, len(p.Processes))
	for _, proc := range p.Processes {
		if seen[proc.Name] {
			errs = append(errs, ValidationError{
				Field:   "process." + proc.Name,
				Message: "duplicate process name",
				Code:    ErrDuplicateName,
			})
		}
		seen[proc.Name] = true

		if !coordWithin(proc.Coord, maxCoord) {
			errs = append(errs, ValidationError{
				Field:   "process." + proc.Name + ".coord",
				Message: fmt.Sprintf("coordinate %s outside [0, %d] on some axis", proc.Coord, maxCoord),
				Code:    ErrInvalidCoordinate,
			})
		}

		for _, tr := range proc.Transitions {
			if !events[tr.EventType] {
				errs = append(errs, ValidationError{
					Field:   "process." + proc.Name + ".on." + tr.EventType,
					Message: "transition references undeclared event",
					Code:    ErrUnknownEventType,
				})
			}
			for _, upd := range tr.Updates {
				if _, ok := proc.Fields[upd.Field]; !ok {
					errs = append(errs, ValidationError{
						Field:   "process." + proc.Name + ".on." + tr.EventType + "." + upd.Field,
						Message: "update targets undeclared field",
						Code:    ErrUnknownUpdateField,
					})
				}
			}
		}
	}

	return errs
}

func coordWithin(c ir.Coord, max int) bool {
	return c.X >= 0 && c.X <= max &&
		c.Y >= 0 && c.Y <= max &&
		c.Z >= 0 && c.Z <= max
}
