// Package internal runs problem files through the prover.
//
// Key components:
//
// Engine: loads YAML problem files, decides every problem with a shared
// prover and turns the reports into results. Problems without a goal are
// decided in parallel.
//
// Cache: keeps results on disk keyed by file. An entry is dropped when the
// file content or the prover configuration changes.
//
// Watch mode: StartWatching re-runs problem files as they are written and
// delivers the results on a channel.
//
// Usage:
//
//	engine := internal.NewEngine(linarith.DefaultConfig(), logger)
//	results, err := engine.Run("problems/transitivity.yaml")
//	if err != nil {
//	    // handle error
//	}
//	for _, r := range results {
//	    fmt.Printf("%s: %s\n", r.Problem, r.Verdict)
//	}
//
// This package is intended for internal use and should not be imported by
// external packages.
package internal
