package ir

import (
	"slices"
)

// Program is the validated IR tree produced by the frontend.
// It is read-only to the backend: every component that needs a variant of
// the program copies what it needs and leaves the tree untouched.
type Program struct {
	Name      string
	Processes []Process
	Events    []Event
	Constants map[string]Value
	Resources ResourceBounds
}

// Process is a named computational unit with a declared placement.
type Process struct {
	Name         string
	Coord        Coord
	Fields       map[string]FieldType
	InitialState State
	Transitions  []Transition
}

// Event is a named event definition with typed fields.
type Event struct {
	Name   string
	Fields map[string]FieldType
}

// State holds the initial field values of a process.
type State struct {
	Values map[string]Value
}

// Transition describes how a process reacts to one event type.
type Transition struct {
	EventType string
	Updates   []FieldUpdate
}

// FieldUpdate assigns an expression to a process field when a transition
// fires. Expressions stay textual in the IR; the backend never evaluates
// them, it only carries them into generated artifacts.
type FieldUpdate struct {
	Field string
	Expr  string
}

// ResourceBounds is the static resource ceiling a program declares.
// MaxProcesses must be non-negative; the frontend enforces that before a
// Program reaches the backend.
type ResourceBounds struct {
	MaxProcesses       int
	MaxEventsPerTick   int
	MaxCoordinateValue int
}

// DefaultResourceBounds returns the bounds assumed when a program declares
// none. They match the execution engine's comfortable operating envelope,
// not its hard ceilings.
func DefaultResourceBounds() ResourceBounds {
	return ResourceBounds{
		MaxProcesses:       1024,
		MaxEventsPerTick:   10000,
		MaxCoordinateValue: CoordAxisMax,
	}
}

// IntConstant looks up a named constant and returns its integer value.
// Returns ok=false when the constant is absent or not an integer.
func (p *Program) IntConstant(name string) (int64, bool) {
	v, ok := p.Constants[name]
	if !ok {
		return 0, false
	}
	i, ok := v.(IntValue)
	if !ok {
		return 0, false
	}
	return int64(i), true
}

// ProcessNames returns the declared process names in declaration order.
func (p *Program) ProcessNames() []string {
	names := make([]string, len(p.Processes))
	for i, proc := range p.Processes {
		names[i] = proc.Name
	}
	return names
}

// SortedConstantNames returns constant names in lexicographic order.
// Constants live in a map; any consumer that iterates them for output
// must use this order for reproducibility.
func (p *Program) SortedConstantNames() []string {
	names := make([]string, 0, len(p.Constants))
	for name := range p.Constants {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
