// Package runner is the execution adapter: it drives an engine.Kernel
// through spawn, inject, and run in the exact order the backend
// resolved, then assembles telemetry. It owns no policy; placement and
// injection decisions are made by the backend and replayed here.
package runner
