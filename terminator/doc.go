// Package terminator runs registered cleanup handlers exactly once at
// process termination.
//
// # Overview
//
// Independent components register handlers with a Terminator. Each
// registration can carry a priority (lower runs first, default 5) and an
// extra memory reservation. On the first registration the Terminator
// arms an exit notifier (by default SIGINT/SIGTERM) and allocates a
// reservation buffer; when the process terminates, the buffer is
// released first so handlers have memory headroom even under pressure,
// then every handler runs sequentially in priority order. A failing or
// panicking handler is reported and the pass continues to the last
// handler. The pass runs at most once per process.
//
// # Architecture
//
//	          Register(h, WithPriority(p), WithReservation(n))
//	                              │
//	                              ↓
//	┌──────────────────────────────────────────────────────────────────┐
//	│                           Terminator                             │
//	│  uninitialized ──register──→ ready ──terminate──→ completed      │
//	│                                                                  │
//	│  ┌───────────────┐   ┌──────────────────┐   ┌────────────────┐   │
//	│  │   registry    │   │   reservation    │   │    notifier    │   │
//	│  │ (insertion    │   │ (base + extras,  │   │ (SIGINT/TERM,  │   │
//	│  │  order kept)  │   │  freed first)    │   │  or manual)    │   │
//	│  └───────────────┘   └──────────────────┘   └────────────────┘   │
//	└──────────────────────────────┬───────────────────────────────────┘
//	                               │ failures
//	                               ↓
//	                        report.Reporter
//
// # Usage
//
// Most programs use the process-wide default instance:
//
//	terminator.RegisterFunc(func() error {
//	    return db.Close()
//	}, terminator.WithPriority(10), terminator.WithName("database"))
//
//	terminator.RegisterFunc(func() error {
//	    server.Shutdown()
//	    return nil
//	}, terminator.WithPriority(1), terminator.WithName("http"))
//
//	// SIGINT or SIGTERM now runs http (1) then database (10) and exits
//	// with the conventional signal code. An explicit exit does the same:
//	terminator.Exit(0)
//
// A dedicated instance with a failure reporter:
//
//	term := terminator.New(terminator.Config{
//	    Reporter: report.NewZerologReporter(logger),
//	})
//	term.Register(cleanupHandler, terminator.WithReservation(50*1024))
//	summary := term.Terminate()
//	if summary.Failed() {
//	    logger.Error().Strs("handlers", summary.FailedHandlers()).Msg("cleanup incomplete")
//	}
//
// # Execution guarantees
//
//   - Handlers run sequentially, never concurrently, with no deadline.
//   - Order is ascending priority; equal priorities keep registration
//     order.
//   - One failing or panicking handler never prevents the others from
//     running, and nothing is retried.
//   - The reservation buffer is released before the first handler runs.
//   - The pass runs at most once; once it has started, Register fails
//     with ErrTerminated and repeated Terminate calls return the same
//     Summary.
//
// # Recommendations
//
//   - Keep handlers short and independent; they cannot observe each
//     other's outcomes.
//   - Reserve extra memory for handlers that buffer data on the way out.
//   - Name registrations; diagnostics are far easier to read.
//   - Use a ManualNotifier where some other component already owns
//     signal handling.
package terminator
