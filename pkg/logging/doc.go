// Package logging provides subsystem-tagged structured logging for gitoperator.
//
// The package wraps log/slog with a single process-wide logger. Every entry
// carries a "subsystem" attribute naming the component that produced it:
//
//	logging.Init(logging.LevelInfo, logging.FormatText, os.Stderr)
//	logging.Info("Hook", "dispatching %d events", len(events))
//	logging.Error("Reconciler", err, "failed to reconcile %s", name)
//
// Init also installs the same handler as the controller-runtime logger, so
// messages emitted by client-go and controller-runtime end up in the same
// stream with the same level filtering.
//
// Attributes shared by every later entry, such as the id of a hook run, are
// attached with With.
package logging
