package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/greylang/greyc/internal/ir"
)

// Load reads a CUE demo file and builds an ir.Program from its top-level
// `program` struct. The returned program is owned by the caller; Load keeps
// no state between calls.
func Load(path string) (*ir.Program, error) {
	value, err := buildValue(path)
	if err != nil {
		return nil, err
	}
	return Compile(value)
}

// LoadCollectAll reads a CUE demo file and returns the parsed program
// together with every validation error, instead of stopping at the
// first. Structural errors that prevent parsing are still fatal.
func LoadCollectAll(path string) (*ir.Program, []ValidationError, error) {
	value, err := buildValue(path)
	if err != nil {
		return nil, nil, err
	}

	program, err := parse(value)
	if err != nil {
		return nil, nil, err
	}
	return program, Validate(program), nil
}

func buildValue(path string) (cue.Value, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return cue.Value{}, fmt.Errorf("demo file not found: %s", path)
	}
	if err != nil {
		return cue.Value{}, fmt.Errorf("accessing demo file: %w", err)
	}
	if info.IsDir() {
		return cue.Value{}, fmt.Errorf("demo path is a directory: %s", path)
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: filepath.Dir(path)}
	instances := load.Instances([]string{filepath.Base(path)}, cfg)
	if len(instances) == 0 {
		return cue.Value{}, fmt.Errorf("no CUE instances loaded from %s", path)
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, fmt.Errorf("loading CUE file %s: %w", path, inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("building CUE value: %w", err)
	}
	return value, nil
}

// Compile turns a built CUE value holding a `program` struct into an
// ir.Program. Exposed separately from Load so tests can compile inline
// CUE sources.
func Compile(value cue.Value) (*ir.Program, error) {
	program, err := parse(value)
	if err != nil {
		return nil, err
	}

	if errs := Validate(program); len(errs) > 0 {
		return nil, fmt.Errorf("program %q failed validation: %w", program.Name, errs[0])
	}
	return program, nil
}

// parse builds the program structurally, without schema validation.
func parse(value cue.Value) (*ir.Program, error) {
	progVal := value.LookupPath(cue.ParsePath("program"))
	if !progVal.Exists() {
		return nil, &CompileError{
			Field:   "program",
			Message: "top-level program struct is required",
			Pos:     value.Pos(),
		}
	}

	program := &ir.Program{
		Constants: make(map[string]ir.Value),
		Resources: ir.DefaultResourceBounds(),
	}

	name, err := requiredString(progVal, "name")
	if err != nil {
		return nil, err
	}
	program.Name = name

	if err := parseResources(progVal, &program.Resources); err != nil {
		return nil, err
	}
	if err := parseConstants(progVal, program); err != nil {
		return nil, err
	}
	if err := parseEvents(progVal, program); err != nil {
		return nil, err
	}
	if err := parseProcesses(progVal, program); err != nil {
		return nil, err
	}
	return program, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", &CompileError{Field: field, Message: err.Error(), Pos: fv.Pos()}
	}
	return s, nil
}

func parseResources(v cue.Value, bounds *ir.ResourceBounds) error {
	rv := v.LookupPath(cue.ParsePath("resources"))
	if !rv.Exists() {
		return nil // defaults stand
	}

	fields := []struct {
		name string
		dst  *int
	}{
		{"max_processes", &bounds.MaxProcesses},
		{"max_events_per_tick", &bounds.MaxEventsPerTick},
		{"max_coordinate_value", &bounds.MaxCoordinateValue},
	}
	for _, f := range fields {
		fv := rv.LookupPath(cue.ParsePath(f.name))
		if !fv.Exists() {
			continue
		}
		n, err := fv.Int64()
		if err != nil {
			return &CompileError{Field: "resources." + f.name, Message: err.Error(), Pos: fv.Pos()}
		}
		*f.dst = int(n)
	}
	return nil
}

func parseConstants(v cue.Value, program *ir.Program) error {
	cv := v.LookupPath(cue.ParsePath("constants"))
	if !cv.Exists() {
		return nil
	}
	iter, err := cv.Fields()
	if err != nil {
		return &CompileError{Field: "constants", Message: err.Error(), Pos: cv.Pos()}
	}
	for iter.Next() {
		name := iter.Selector().Unquoted()
		val, err := parseValue(iter.Value())
		if err != nil {
			return &CompileError{Field: "constants." + name, Message: err.Error(), Pos: iter.Value().Pos()}
		}
		program.Constants[name] = val
	}
	return nil
}

// parseValue converts a CUE scalar or coord struct into an ir.Value.
// CUE floats are rejected: the IR is integer-only.
func parseValue(v cue.Value) (ir.Value, error) {
	switch v.Kind() {
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, err
		}
		return ir.IntValue(n), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return ir.StringValue(s), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, err
		}
		return ir.BoolValue(b), nil
	case cue.StructKind:
		c, err := parseCoord(v)
		if err != nil {
			return nil, err
		}
		return ir.CoordValue(c), nil
	case cue.FloatKind, cue.NumberKind:
		return nil, fmt.Errorf("float constants are forbidden (integer-only IR)")
	default:
		return nil, fmt.Errorf("unsupported constant kind %v", v.Kind())
	}
}

func parseCoord(v cue.Value) (ir.Coord, error) {
	var c ir.Coord
	axes := []struct {
		name string
		dst  *int
	}{
		{"x", &c.X},
		{"y", &c.Y},
		{"z", &c.Z},
	}
	for _, axis := range axes {
		av := v.LookupPath(cue.ParsePath(axis.name))
		if !av.Exists() {
			return c, fmt.Errorf("coord is missing axis %q", axis.name)
		}
		n, err := av.Int64()
		if err != nil {
			return c, fmt.Errorf("coord axis %s: %w", axis.name, err)
		}
		*axis.dst = int(n)
	}
	return c, nil
}

func parseEvents(v cue.Value, program *ir.Program) error {
	ev := v.LookupPath(cue.ParsePath("event"))
	if !ev.Exists() {
		return nil
	}
	iter, err := ev.Fields()
	if err != nil {
		return &CompileError{Field: "event", Message: err.Error(), Pos: ev.Pos()}
	}
	for iter.Next() {
		name := iter.Selector().Unquoted()
		fields, err := parseFieldTypes(iter.Value())
		if err != nil {
			return &CompileError{Field: "event." + name, Message: err.Error(), Pos: iter.Value().Pos()}
		}
		program.Events = append(program.Events, ir.Event{Name: name, Fields: fields})
	}
	return nil
}

// parseProcesses reads processes in declaration order. CUE field iteration
// preserves source order, which downstream placement depends on.
func parseProcesses(v cue.Value, program *ir.Program) error {
	pv := v.LookupPath(cue.ParsePath("process"))
	if !pv.Exists() {
		return nil
	}
	iter, err := pv.Fields()
	if err != nil {
		return &CompileError{Field: "process", Message: err.Error(), Pos: pv.Pos()}
	}
	for iter.Next() {
		name := iter.Selector().Unquoted()
		proc, err := parseProcess(name, iter.Value())
		if err != nil {
			return err
		}
		program.Processes = append(program.Processes, proc)
	}
	return nil
}

func parseProcess(name string, v cue.Value) (ir.Process, error) {
	proc := ir.Process{
		Name:         name,
		Fields:       make(map[string]ir.FieldType),
		InitialState: ir.State{Values: make(map[string]ir.Value)},
	}

	coordVal := v.LookupPath(cue.ParsePath("coord"))
	if coordVal.Exists() {
		c, err := parseCoord(coordVal)
		if err != nil {
			return proc, &CompileError{Field: "process." + name + ".coord", Message: err.Error(), Pos: coordVal.Pos()}
		}
		proc.Coord = c
	}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if fieldsVal.Exists() {
		fields, err := parseFieldTypes(fieldsVal)
		if err != nil {
			return proc, &CompileError{Field: "process." + name + ".fields", Message: err.Error(), Pos: fieldsVal.Pos()}
		}
		proc.Fields = fields
	}

	initVal := v.LookupPath(cue.ParsePath("init"))
	if initVal.Exists() {
		iter, err := initVal.Fields()
		if err != nil {
			return proc, &CompileError{Field: "process." + name + ".init", Message: err.Error(), Pos: initVal.Pos()}
		}
		for iter.Next() {
			field := iter.Selector().Unquoted()
			val, err := parseValue(iter.Value())
			if err != nil {
				return proc, &CompileError{Field: "process." + name + ".init." + field, Message: err.Error(), Pos: iter.Value().Pos()}
			}
			proc.InitialState.Values[field] = val
		}
	}

	// Fields without an explicit initial value default to the type's zero.
	for field, t := range proc.Fields {
		if _, ok := proc.InitialState.Values[field]; !ok {
			proc.InitialState.Values[field] = ir.ZeroValue(t)
		}
	}

	onVal := v.LookupPath(cue.ParsePath("on"))
	if onVal.Exists() {
		iter, err := onVal.Fields()
		if err != nil {
			return proc, &CompileError{Field: "process." + name + ".on", Message: err.Error(), Pos: onVal.Pos()}
		}
		for iter.Next() {
			eventType := iter.Selector().Unquoted()
			updates, err := parseUpdates(iter.Value())
			if err != nil {
				return proc, &CompileError{Field: "process." + name + ".on." + eventType, Message: err.Error(), Pos: iter.Value().Pos()}
			}
			proc.Transitions = append(proc.Transitions, ir.Transition{
				EventType: eventType,
				Updates:   updates,
			})
		}
	}

	return proc, nil
}

func parseFieldTypes(v cue.Value) (map[string]ir.FieldType, error) {
	fields := make(map[string]ir.FieldType)
	fv := v.LookupPath(cue.ParsePath("fields"))
	if !fv.Exists() {
		fv = v
	}
	iter, err := fv.Fields()
	if err != nil {
		return nil, err
	}
	for iter.Next() {
		name := iter.Selector().Unquoted()
		// Skip nested structure fields when iterating a whole process/event
		if iter.Value().Kind() != cue.StringKind {
			continue
		}
		typeName, err := iter.Value().String()
		if err != nil {
			return nil, err
		}
		t, err := ir.ParseFieldType(typeName)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		fields[name] = t
	}
	return fields, nil
}

func parseUpdates(v cue.Value) ([]ir.FieldUpdate, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, err
	}
	var updates []ir.FieldUpdate
	for iter.Next() {
		expr, err := iter.Value().String()
		if err != nil {
			return nil, fmt.Errorf("update for %s: %w", iter.Selector().Unquoted(), err)
		}
		updates = append(updates, ir.FieldUpdate{
			Field: iter.Selector().Unquoted(),
			Expr:  expr,
		})
	}
	return updates, nil
}
