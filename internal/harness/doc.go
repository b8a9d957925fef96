// Package harness provides a conformance harness for the memory model.
//
// Scenarios are YAML files describing a sequence of memory operations
// (allocations, puts, interval views, saves, restores) with the error
// code each is expected to produce, plus assertions on the final state.
// The runner executes a scenario against a fresh Memory and captures a
// deterministic trace; golden files pin the expected trace output.
//
// Determinism: each run starts from a new Memory, identities come from a
// plain counter, and trace events carry only logical positions, so two
// runs of one scenario produce byte-identical traces. A Recorder can
// mirror every executed step into a journal session, and ReplaySession
// re-executes a recorded session against a fresh Memory to verify the
// results still match, step for step.
//
// Scenarios address objects by fixed labels rather than raw identities,
// so a scenario file stays valid when unrelated steps are inserted.
package harness
