// Package logging provides structured logging for sortscope runs.
//
// It wraps log/slog with a JSON handler, writing either to stderr or to a
// size-rotated file in a log directory. Child loggers created with With,
// WithRun and WithPhase carry persistent attributes so every line emitted
// during a run can be filtered by run ID.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(dir, logging.LevelInfo, logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	runLog := logger.WithRun(sess.ID())
//	runLog.Info("sort started", "length", 64, "radix", 10)
//
// The sort engine logs per-pass detail at DEBUG, so production runs at INFO
// emit only a start and finish line per run.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. The producer
// goroutine and the CLI goroutine may log through the same Logger.
package logging
