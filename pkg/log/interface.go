// Package log is the structured logging layer shared by the space builder,
// the solver, the data readers and the lsqfit command.
//
// Records are key/value pairs using the keys in attributes.go. The default
// backend writes JSON lines through github.com/rs/zerolog; tests capture
// records with TestLogger.
//
//	logger := log.GetLoggerWithName("linear").With(log.EstimatorIDKey, id)
//	logger.Info("fit completed",
//		log.OperationKey, log.OperationFit,
//		log.SamplesKey, n,
//		log.DimensionKey, dim,
//	)
package log

import (
	"context"
)

// Logger is the logging surface used throughout leslie. Its method set
// mirrors log/slog so either backend can sit behind it.
//
// An error passed as the first field is recorded under ErrorKey.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With returns a child logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled reports whether records at level would be written.
	// Guard summaries that are costly to compute with it.
	Enabled(ctx context.Context, level Level) bool
}

// Level is a logging severity. Values match slog.Level.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}
