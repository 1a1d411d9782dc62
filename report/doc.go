// Package report carries shutdown handler failures to external sinks.
//
// # Overview
//
// When a shutdown handler fails, the orchestrator builds a Failure record
// and hands it to a Reporter. The record always carries the canonical
// message "An error occurred while processing the shutdown function:
// <cause>", a severity (error for returned errors, exception for
// recovered panics), and the registration site of the handler.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                         Terminator                           │
//	│            (builds Failure per failed handler)               │
//	└──────────────────────────────┬───────────────────────────────┘
//	                               │ Report(Failure)
//	                               ↓
//	┌──────────────────────────────────────────────────────────────┐
//	│                          Reporter                            │
//	├──────────┬──────────┬──────────┬──────────┬─────────┬────────┤
//	│  Writer  │  Memory  │ Zerolog  │   File   │  NATS   │  HTTP  │
//	└──────────┴──────────┴──────────┴──────────┴─────────┴────────┘
//
// # Usage
//
// Collecting failures in tests:
//
//	rep := report.NewMemoryReporter()
//	term := terminator.New(terminator.Config{Reporter: rep})
//	...
//	for _, f := range rep.Failures() {
//	    t.Log(f.Message)
//	}
//
// Publishing failures to NATS:
//
//	rep, err := report.NewNATSReporter(report.NATSConfig{
//	    URL:     "nats://localhost:4222",
//	    Subject: "ops.shutdown.failures",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rep.Close()
//
// # Delivery semantics
//
// Reporters deliver one failure at a time, synchronously, with no
// buffering. The process exits as soon as the shutdown pass finishes, so
// anything held back would be lost. If a Reporter returns an error the
// orchestrator writes the failure to its fallback writer instead; a
// broken sink never hides a failure and never stops the pass.
package report
