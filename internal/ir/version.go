package ir

// IRVersion identifies the IR schema. Stamped into run records so replays
// against a newer schema are detectable.
const IRVersion = "1"

// EngineVersion identifies the in-process kernel implementation.
const EngineVersion = "0.3.0"
