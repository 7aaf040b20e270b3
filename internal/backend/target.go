package backend

import (
	"fmt"
	"strings"
)

// EmitTarget renders the deterministic placement and run-loop glue in a
// concrete host-language syntax. The placement and injection algorithms
// stay in the backend; targets only translate them to text.
type EmitTarget interface {
	// Name identifies the target ("rust", "go").
	Name() string

	// Ext is the artifact file extension without the dot.
	Ext() string

	// Executable renders the run-loop glue: coordinate table, spawn
	// calls, a seed-event injection call, and a run-and-collect method
	// returning events_in_run, events_processed, current_time, and
	// process_count. Entries arrive sorted by name.
	Executable(programName string, entries []Placement, maxEvents int) string

	// Validator renders the companion assertion artifact embedding the
	// expected process and event counts.
	Validator(programName string, expectedProcesses, expectedEvents int) string
}

// RustTarget emits artifacts in the syntax of the original Betti RDL
// runtime crate.
type RustTarget struct{}

func (RustTarget) Name() string { return "rust" }
func (RustTarget) Ext() string  { return "rs" }

func (RustTarget) Executable(programName string, entries []Placement, maxEvents int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "//! Auto-generated Betti RDL executable for %s\n", programName)
	b.WriteString("//! Generated by greyc. Do not edit.\n\n")
	b.WriteString("use betti_rdl::Kernel;\n")
	b.WriteString("use std::collections::HashMap;\n\n")

	fmt.Fprintf(&b, "pub struct %sExecutable {\n", programName)
	b.WriteString("    kernel: Kernel,\n")
	b.WriteString("    process_coords: HashMap<String, (i32, i32, i32)>,\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "impl %sExecutable {\n", programName)
	b.WriteString("    pub fn new() -> Self {\n")
	b.WriteString("        let mut executable = Self {\n")
	b.WriteString("            kernel: Kernel::new(),\n")
	b.WriteString("            process_coords: HashMap::new(),\n")
	b.WriteString("        };\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b,
			"        executable.process_coords.insert(\"%s\".to_string(), (%d, %d, %d));\n",
			e.Name, e.Coord.X, e.Coord.Y, e.Coord.Z)
	}
	b.WriteString("        executable\n")
	b.WriteString("    }\n\n")

	b.WriteString("    pub fn spawn_processes(&mut self) -> Result<(), Box<dyn std::error::Error>> {\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "        self.kernel.spawn_process(%d, %d, %d); // %s\n",
			e.Coord.X, e.Coord.Y, e.Coord.Z, e.Name)
	}
	b.WriteString("        Ok(())\n")
	b.WriteString("    }\n\n")

	b.WriteString("    pub fn inject_events(&mut self) -> Result<(), Box<dyn std::error::Error>> {\n")
	if len(entries) > 0 {
		fmt.Fprintf(&b, "        if let Some((x, y, z)) = self.process_coords.get(\"%s\") {\n", entries[0].Name)
		b.WriteString("            self.kernel.inject_event(*x, *y, *z, 1);\n")
		b.WriteString("        }\n")
	}
	b.WriteString("        Ok(())\n")
	b.WriteString("    }\n\n")

	b.WriteString("    pub fn run(&mut self, max_events: i32) -> Result<HashMap<String, u64>, Box<dyn std::error::Error>> {\n")
	b.WriteString("        let events_in_run = self.kernel.run(max_events);\n\n")
	b.WriteString("        let mut results = HashMap::new();\n")
	b.WriteString("        results.insert(\"events_in_run\".to_string(), events_in_run as u64);\n")
	b.WriteString("        results.insert(\"events_processed\".to_string(), self.kernel.events_processed());\n")
	b.WriteString("        results.insert(\"current_time\".to_string(), self.kernel.current_time());\n")
	b.WriteString("        results.insert(\"process_count\".to_string(), self.kernel.process_count() as u64);\n")
	b.WriteString("        Ok(results)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n\n")

	b.WriteString("#[cfg(test)]\n")
	b.WriteString("mod tests {\n")
	b.WriteString("    use super::*;\n\n")
	b.WriteString("    #[test]\n")
	fmt.Fprintf(&b, "    fn test_%s_execution() {\n", programName)
	fmt.Fprintf(&b, "        let mut executable = %sExecutable::new();\n", programName)
	b.WriteString("        executable.spawn_processes().unwrap();\n")
	b.WriteString("        executable.inject_events().unwrap();\n\n")
	fmt.Fprintf(&b, "        let results = executable.run(%d).unwrap();\n\n", maxEvents)
	b.WriteString("        assert!(results.contains_key(\"events_processed\"));\n")
	fmt.Fprintf(&b, "        assert_eq!(results[\"process_count\"], %d as u64);\n", len(entries))
	b.WriteString("    }\n")
	b.WriteString("}\n")

	return b.String()
}

func (RustTarget) Validator(programName string, expectedProcesses, expectedEvents int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "//! Validation code for %s Betti RDL program\n", programName)
	b.WriteString("//! Asserts expected counts against reference implementations.\n\n")

	fmt.Fprintf(&b, "pub struct %sValidator {\n", programName)
	b.WriteString("    expected_processes: usize,\n")
	b.WriteString("    expected_events: usize,\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "impl %sValidator {\n", programName)
	b.WriteString("    pub fn new() -> Self {\n")
	b.WriteString("        Self {\n")
	fmt.Fprintf(&b, "            expected_processes: %d,\n", expectedProcesses)
	fmt.Fprintf(&b, "            expected_events: %d,\n", expectedEvents)
	b.WriteString("        }\n")
	b.WriteString("    }\n\n")

	b.WriteString("    pub fn validate_execution(&self, telemetry: &crate::ExecutionTelemetry) -> Result<(), String> {\n")
	b.WriteString("        if telemetry.events_processed == 0 {\n")
	b.WriteString("            return Err(\"No events were processed\".to_string());\n")
	b.WriteString("        }\n\n")
	b.WriteString("        if telemetry.process_states.len() != self.expected_processes {\n")
	b.WriteString("            return Err(format!(\n")
	b.WriteString("                \"Expected {} processes, got {}\",\n")
	b.WriteString("                self.expected_processes,\n")
	b.WriteString("                telemetry.process_states.len()\n")
	b.WriteString("            ));\n")
	b.WriteString("        }\n\n")
	b.WriteString("        Ok(())\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	return b.String()
}

// GoTarget emits the same glue as a Go main-package source file.
type GoTarget struct{}

func (GoTarget) Name() string { return "go" }
func (GoTarget) Ext() string  { return "go" }

func (GoTarget) Executable(programName string, entries []Placement, maxEvents int) string {
	typeName := exportName(programName) + "Executable"

	var b strings.Builder

	fmt.Fprintf(&b, "// Code generated by greyc for %s. DO NOT EDIT.\n\n", programName)
	b.WriteString("package main\n\n")
	b.WriteString("import betti \"github.com/greylang/betti-rdl-go\"\n\n")

	fmt.Fprintf(&b, "type %s struct {\n", typeName)
	b.WriteString("\tkernel        *betti.Kernel\n")
	b.WriteString("\tprocessCoords map[string][3]int\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func New%s() *%s {\n", typeName, typeName)
	fmt.Fprintf(&b, "\te := &%s{\n", typeName)
	b.WriteString("\t\tkernel:        betti.NewKernel(),\n")
	b.WriteString("\t\tprocessCoords: map[string][3]int{\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "\t\t\t%q: {%d, %d, %d},\n", e.Name, e.Coord.X, e.Coord.Y, e.Coord.Z)
	}
	b.WriteString("\t\t},\n")
	b.WriteString("\t}\n")
	b.WriteString("\treturn e\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func (e *%s) SpawnProcesses() {\n", typeName)
	for _, e := range entries {
		fmt.Fprintf(&b, "\te.kernel.SpawnProcess(%d, %d, %d) // %s\n",
			e.Coord.X, e.Coord.Y, e.Coord.Z, e.Name)
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func (e *%s) InjectEvents() {\n", typeName)
	if len(entries) > 0 {
		fmt.Fprintf(&b, "\tif c, ok := e.processCoords[%q]; ok {\n", entries[0].Name)
		b.WriteString("\t\te.kernel.InjectEvent(c[0], c[1], c[2], 1)\n")
		b.WriteString("\t}\n")
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func (e *%s) Run(maxEvents int) map[string]uint64 {\n", typeName)
	b.WriteString("\teventsInRun := e.kernel.Run(maxEvents)\n\n")
	b.WriteString("\treturn map[string]uint64{\n")
	b.WriteString("\t\t\"events_in_run\":    uint64(eventsInRun),\n")
	b.WriteString("\t\t\"events_processed\": e.kernel.EventsProcessed(),\n")
	b.WriteString("\t\t\"current_time\":     e.kernel.CurrentTime(),\n")
	b.WriteString("\t\t\"process_count\":    uint64(e.kernel.ProcessCount()),\n")
	b.WriteString("\t}\n")
	b.WriteString("}\n\n")

	b.WriteString("func main() {\n")
	fmt.Fprintf(&b, "\te := New%s()\n", typeName)
	b.WriteString("\te.SpawnProcesses()\n")
	b.WriteString("\te.InjectEvents()\n")
	fmt.Fprintf(&b, "\t_ = e.Run(%d)\n", maxEvents)
	b.WriteString("}\n")

	return b.String()
}

func (GoTarget) Validator(programName string, expectedProcesses, expectedEvents int) string {
	typeName := exportName(programName) + "Validator"

	var b strings.Builder

	fmt.Fprintf(&b, "// Code generated by greyc for %s. DO NOT EDIT.\n\n", programName)
	b.WriteString("package main\n\n")
	b.WriteString("import \"fmt\"\n\n")

	fmt.Fprintf(&b, "type %s struct {\n", typeName)
	b.WriteString("\texpectedProcesses int\n")
	b.WriteString("\texpectedEvents    int\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func New%s() *%s {\n", typeName, typeName)
	fmt.Fprintf(&b, "\treturn &%s{expectedProcesses: %d, expectedEvents: %d}\n",
		typeName, expectedProcesses, expectedEvents)
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func (v *%s) ValidateExecution(eventsProcessed uint64, processStates map[int]int32) error {\n", typeName)
	b.WriteString("\tif eventsProcessed == 0 {\n")
	b.WriteString("\t\treturn fmt.Errorf(\"no events were processed\")\n")
	b.WriteString("\t}\n")
	b.WriteString("\tif len(processStates) != v.expectedProcesses {\n")
	b.WriteString("\t\treturn fmt.Errorf(\"expected %d processes, got %d\", v.expectedProcesses, len(processStates))\n")
	b.WriteString("\t}\n")
	b.WriteString("\treturn nil\n")
	b.WriteString("}\n")

	return b.String()
}

// exportName turns a program name like "sir_demo" into an exported Go
// identifier like "SirDemo".
func exportName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' || r == '-' {
			upper = true
			continue
		}
		if upper {
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "Program"
	}
	return b.String()
}
