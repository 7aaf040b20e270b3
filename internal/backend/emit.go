package backend

import (
	"fmt"
	"sort"

	"github.com/greylang/greyc/internal/ir"
)

// SortedEntries flattens a placement map into entries ordered by name.
// Lexicographic order makes the emitted text byte-for-byte reproducible
// regardless of map iteration order.
func SortedEntries(coords map[string]ir.Coord) []Placement {
	entries := make([]Placement, 0, len(coords))
	for name, c := range coords {
		entries = append(entries, Placement{Name: name, Coord: c})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Emit renders the two artifacts for a program: the executable glue and
// the companion validator. Keys are relative file paths.
func Emit(p *ir.Program, target EmitTarget, coords map[string]ir.Coord, runtimeCount, maxEvents int) (map[string]string, error) {
	if len(coords) == 0 && (runtimeCount > 0 || len(p.Processes) > 0) {
		return nil, NewCodegenError(p.Name,
			"placement is empty but %d processes are expected", runtimeCount)
	}

	entries := SortedEntries(coords)

	files := map[string]string{
		fmt.Sprintf("%s_betti.%s", p.Name, target.Ext()):      target.Executable(p.Name, entries, maxEvents),
		fmt.Sprintf("%s_validation.%s", p.Name, target.Ext()): target.Validator(p.Name, runtimeCount, len(p.Events)),
	}
	return files, nil
}
