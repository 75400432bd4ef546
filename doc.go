// Package sppack is the composition root for the migration package
// generator.
//
// It connects the generation engine (Domain Layer) with the content-source
// adapters (Acquisition Layer) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// sppack turns the content of a source list into a self-contained deployment
// package: seven XML descriptor documents that a migration import pipeline
// consumes. The engine is source-agnostic; any implementation of core.Source
// can feed it. The default adapter reads a YAML fixture file, which makes
// runs reproducible and testable offline.
//
// Features:
//
//   - **Hexagonal Architecture**: The engine is isolated from content acquisition.
//   - **Full Fidelity**: Version history, person fields, and lookup references
//     are carried into the package, not flattened away.
//   - **Deterministic Output**: Descriptor content is stable for a given source,
//     apart from the identifiers generated fresh each run.
//   - **Fail Fast**: An unresolvable reference aborts the run; no partial
//     package is ever produced.
//   - **Extensible**: Designed to support live backends via core.Source.
//
// Usage:
//
//	// Build a generator with functional options
//	g, err := sppack.New("./fixture.yaml", "Tasks",
//		sppack.WithTarget(target),
//		sppack.WithLogger(logger),
//	)
//
//	// Generate the package
//	pkg, err := g.Generate(ctx)
package sppack
