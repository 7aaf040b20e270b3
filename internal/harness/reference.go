package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// referenceTarget is the CMake target and binary name of the C++
// reference implementation.
const referenceTarget = "grey_sir_reference"

// BuildReference configures and builds the reference binary from
// kernelDir into buildDir, returning the built executable's path. Both
// cmake invocations inherit stdout and stderr so build diagnostics are
// visible; any build failure is fatal to the harness.
func BuildReference(kernelDir, buildDir string) (string, error) {
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return "", fmt.Errorf("creating build dir %s: %w", buildDir, err)
	}

	configure := exec.Command("cmake",
		"-S", kernelDir,
		"-B", buildDir,
		"-DCMAKE_BUILD_TYPE=Release")
	configure.Stdout = os.Stdout
	configure.Stderr = os.Stderr
	if err := configure.Run(); err != nil {
		return "", fmt.Errorf("cmake configure: %w", err)
	}

	build := exec.Command("cmake",
		"--build", buildDir,
		"--target", referenceTarget)
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		return "", fmt.Errorf("cmake build: %w", err)
	}

	exe := findReferenceExe(buildDir)
	if exe == "" {
		return "", fmt.Errorf("built executable not found in %s", buildDir)
	}
	return exe, nil
}

// findReferenceExe probes the candidate output locations: the build dir
// itself and, for multi-configuration generators, a Release
// subdirectory.
func findReferenceExe(buildDir string) string {
	name := referenceTarget
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	candidates := []string{
		filepath.Join(buildDir, name),
		filepath.Join(buildDir, "Release", name),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// InvokeReference runs the reference binary with parameters mirroring
// the local run. processes must be the local run's resolved runtime
// process count: the reference is told how many processes the local run
// used, never its own derivation.
//
// Stdout is captured for the protocol line; stderr is inherited for
// diagnostics. A non-zero exit is fatal.
func InvokeReference(exe string, seed uint64, maxEvents, processes, spacing int) (ExecutionResult, error) {
	cmd := exec.Command(exe,
		"--seed", strconv.FormatUint(seed, 10),
		"--max-events", strconv.Itoa(maxEvents),
		"--processes", strconv.Itoa(processes),
		"--spacing", strconv.Itoa(spacing))
	cmd.Stderr = os.Stderr

	stdout, err := cmd.Output()
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("running reference exe %s: %w", exe, err)
	}

	return ParseReferenceOutput(string(stdout))
}

// ParseReferenceOutput scans captured stdout from the end for the last
// line beginning with '{' and decodes it as the reference process
// protocol. Wall time is not part of the protocol, so ExecutionTimeNS
// is zero.
func ParseReferenceOutput(stdout string) (ExecutionResult, error) {
	lines := strings.Split(stdout, "\n")

	var jsonLine string
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "{") {
			jsonLine = lines[i]
			break
		}
	}
	if jsonLine == "" {
		return ExecutionResult{}, fmt.Errorf("reference output did not contain a JSON line")
	}

	var parsed protocolLine
	if err := json.Unmarshal([]byte(jsonLine), &parsed); err != nil {
		return ExecutionResult{}, fmt.Errorf("parsing reference output %q: %w", jsonLine, err)
	}

	states := parsed.ProcessStates
	if states == nil {
		states = StateMap{}
	}

	return ExecutionResult{
		SeedUsed:         parsed.SeedUsed,
		MaxEvents:        parsed.MaxEvents,
		RuntimeProcesses: parsed.RuntimeProcesses,
		Spacing:          parsed.Spacing,
		EventsProcessed:  parsed.EventsProcessed,
		CurrentTime:      parsed.CurrentTime,
		ExecutionTimeNS:  0,
		ProcessStates:    states,
	}, nil
}
