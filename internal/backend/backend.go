package backend

import (
	"log/slog"
	"math/bits"

	"github.com/greylang/greyc/internal/ir"
)

// Config controls one code-generation run.
type Config struct {
	// Placement selects the process layout. Defaults to GridLayout with
	// spacing 1.
	Placement PlacementStrategy

	// MaxEvents caps the run loop. Values <= 0 fall back to the
	// program's own event count at execution time.
	MaxEvents int

	// Seed drives the deterministic injection plan.
	Seed uint64

	// Ordering is the engine tie-breaking discipline. Only
	// OrderingDeterministic passes validation.
	Ordering EventOrdering

	// Telemetry enables per-process state collection after a run.
	Telemetry bool
}

// DefaultConfig returns the canonical harness configuration.
func DefaultConfig() Config {
	return Config{
		Placement: GridLayout{Spacing: 1},
		MaxEvents: 1000,
		Seed:      42,
		Ordering:  OrderingDeterministic,
		Telemetry: true,
	}
}

// RuntimeConfig is the execution-time slice of a generation run,
// consumed by the execution adapter and the harness.
type RuntimeConfig struct {
	MaxEvents int
	Placement PlacementStrategy
	Ordering  EventOrdering
	Seed      uint64
	Telemetry bool
}

// CodeGenMetadata describes what a generation run produced.
// RuntimeProcessCount is always derived by the placement resolver, never
// taken verbatim from the IR process list (the list length is only the
// last-resort fallback).
type CodeGenMetadata struct {
	SourceName           string `json:"source_name"`
	DeclaredProcessCount int    `json:"declared_process_count"`
	RuntimeProcessCount  int    `json:"runtime_process_count"`
	EventCount           int    `json:"event_count"`

	// EstimatedExecutionTimeNS is a coarse integer estimate, nil when
	// unavailable.
	EstimatedExecutionTimeNS *uint64 `json:"estimated_execution_time_ns,omitempty"`
}

// Output is the result of one generation run.
type Output struct {
	// Files maps relative artifact paths to generated source text.
	Files map[string]string

	Runtime  RuntimeConfig
	Metadata CodeGenMetadata
}

// Generator produces deterministic workloads for one target syntax.
type Generator struct {
	cfg    Config
	target EmitTarget
	log    *slog.Logger
}

// NewGenerator creates a generator. A nil logger falls back to
// slog.Default; a nil placement falls back to DefaultConfig's grid.
func NewGenerator(cfg Config, target EmitTarget, logger *slog.Logger) *Generator {
	if cfg.Placement == nil {
		cfg.Placement = GridLayout{Spacing: 1}
	}
	if cfg.Ordering == "" {
		cfg.Ordering = OrderingDeterministic
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		cfg:    cfg,
		target: target,
		log:    logger.With("component", "backend", "target", target.Name()),
	}
}

// Generate validates the program, resolves placement, and emits the
// artifacts. The returned Output is owned by the caller; nothing is
// cached between calls.
func (g *Generator) Generate(p *ir.Program) (*Output, error) {
	g.log.Info("generating workload", "program", p.Name)

	if err := ValidateOrdering(p.Name, g.cfg.Ordering); err != nil {
		return nil, err
	}

	runtimeCount := RuntimeProcessCount(p, g.cfg.Placement)

	if err := ValidateProgram(p, runtimeCount); err != nil {
		return nil, err
	}

	coords := PlacementMap(p, g.cfg.Placement, runtimeCount)

	files, err := Emit(p, g.target, coords, runtimeCount, g.cfg.MaxEvents)
	if err != nil {
		return nil, err
	}

	estimate := estimateExecutionTimeNS(len(p.Events), g.cfg.MaxEvents, runtimeCount)

	g.log.Debug("generated artifacts",
		"program", p.Name,
		"files", len(files),
		"runtime_processes", runtimeCount)

	return &Output{
		Files: files,
		Runtime: RuntimeConfig{
			MaxEvents: g.cfg.MaxEvents,
			Placement: g.cfg.Placement,
			Ordering:  OrderingDeterministic,
			Seed:      g.cfg.Seed,
			Telemetry: g.cfg.Telemetry,
		},
		Metadata: CodeGenMetadata{
			SourceName:               p.Name,
			DeclaredProcessCount:     len(p.Processes),
			RuntimeProcessCount:      runtimeCount,
			EventCount:               len(p.Events),
			EstimatedExecutionTimeNS: &estimate,
		},
	}, nil
}

// estimateExecutionTimeNS is a saturating integer estimate: 1000ns per
// bounded event plus 500ns per runtime process. The event bound falls
// back to the program's own event count when the cap is non-positive.
func estimateExecutionTimeNS(eventCount, maxEvents, runtimeCount int) uint64 {
	events := uint64(eventCount)

	bound := events
	if maxEvents > 0 {
		bound = uint64(maxEvents)
	}
	bounded := events
	if bound != 0 && bound < events {
		bounded = bound
	}

	perEvent := saturatingMul(bounded, 1000)
	perProcess := saturatingMul(uint64(runtimeCount), 500)
	return saturatingAdd(perEvent, perProcess)
}

func saturatingMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return ^uint64(0)
	}
	return lo
}

func saturatingAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return ^uint64(0)
	}
	return sum
}
