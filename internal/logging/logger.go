package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Field represents a structured logging field as a key/value pair.
// Fields carry typed context alongside a log message.
type Field struct {
	// Key is the field name.
	Key string
	// Value is the field value. Supported types are handled natively by the
	// backend; anything else is logged via reflection.
	Value any
}

// String creates a Field with a string value.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates a Field with an int value.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates a Field with an int64 value.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Uint64 creates a Field with a uint64 value.
func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

// Float64 creates a Field with a float64 value.
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a Field with a time.Duration value.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Err creates a Field carrying an error under the conventional "error" key.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Logger is the logging interface used throughout the application.
// It decouples components from the underlying logging backend.
type Logger interface {
	// Info logs an informational message with optional structured fields.
	Info(msg string, fields ...Field)
	// Warn logs a warning message with optional structured fields.
	Warn(msg string, fields ...Field)
	// Error logs an error message. A nil err logs the message alone.
	Error(msg string, err error, fields ...Field)
	// Debug logs a debug message with optional structured fields.
	Debug(msg string, fields ...Field)
	// Printf logs a formatted message without a level, in the manner of the
	// standard library.
	Printf(format string, v ...any)
	// Println logs its arguments without a level, in the manner of the
	// standard library.
	Println(v ...any)
}

// ZerologAdapter adapts a zerolog.Logger to the Logger interface.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog.Logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewLogger creates a component-tagged JSON logger writing to w.
// Every event carries a "component" field identifying its origin.
//
// Parameters:
//   - w: The destination writer.
//   - component: The component name attached to every event.
//
// Returns:
//   - *ZerologAdapter: A Logger backed by zerolog.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	zl := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return &ZerologAdapter{logger: zl}
}

// NewDefaultLogger creates a human-readable console logger writing to stderr.
func NewDefaultLogger() *ZerologAdapter {
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	zl := zerolog.New(cw).With().Timestamp().Logger()
	return &ZerologAdapter{logger: zl}
}

// Info logs an informational message with optional structured fields.
func (z *ZerologAdapter) Info(msg string, fields ...Field) {
	evt := z.logger.Info()
	applyFields(evt, fields)
	evt.Msg(msg)
}

// Warn logs a warning message with optional structured fields.
func (z *ZerologAdapter) Warn(msg string, fields ...Field) {
	evt := z.logger.Warn()
	applyFields(evt, fields)
	evt.Msg(msg)
}

// Error logs an error message with the error attached when non-nil.
func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	evt := z.logger.Error()
	if err != nil {
		evt = evt.Err(err)
	}
	applyFields(evt, fields)
	evt.Msg(msg)
}

// Debug logs a debug message with optional structured fields.
func (z *ZerologAdapter) Debug(msg string, fields ...Field) {
	evt := z.logger.Debug()
	applyFields(evt, fields)
	evt.Msg(msg)
}

// Printf logs a formatted message without a level.
func (z *ZerologAdapter) Printf(format string, v ...any) {
	z.logger.Log().Msg(fmt.Sprintf(format, v...))
}

// Println logs its arguments without a level.
func (z *ZerologAdapter) Println(v ...any) {
	z.logger.Log().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// applyFields attaches each Field to the event using the zerolog method
// matching its dynamic type.
func applyFields(evt *zerolog.Event, fields []Field) {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			evt.Str(f.Key, v)
		case int:
			evt.Int(f.Key, v)
		case int64:
			evt.Int64(f.Key, v)
		case uint64:
			evt.Uint64(f.Key, v)
		case float64:
			evt.Float64(f.Key, v)
		case bool:
			evt.Bool(f.Key, v)
		case time.Duration:
			evt.Dur(f.Key, v)
		case error:
			evt.AnErr(f.Key, v)
		default:
			evt.Interface(f.Key, v)
		}
	}
}

// StdLoggerAdapter adapts a standard library *log.Logger to the Logger
// interface. Levels are rendered as bracketed prefixes and fields as
// key=value pairs.
type StdLoggerAdapter struct {
	logger *log.Logger
}

// NewStdLoggerAdapter wraps an existing standard library logger.
func NewStdLoggerAdapter(logger *log.Logger) *StdLoggerAdapter {
	return &StdLoggerAdapter{logger: logger}
}

// Info logs an informational message.
func (s *StdLoggerAdapter) Info(msg string, fields ...Field) {
	s.logger.Printf("[INFO] %s%s", msg, formatFields(fields))
}

// Warn logs a warning message.
func (s *StdLoggerAdapter) Warn(msg string, fields ...Field) {
	s.logger.Printf("[WARN] %s%s", msg, formatFields(fields))
}

// Error logs an error message with the error appended when non-nil.
func (s *StdLoggerAdapter) Error(msg string, err error, fields ...Field) {
	if err != nil {
		s.logger.Printf("[ERROR] %s: %v%s", msg, err, formatFields(fields))
		return
	}
	s.logger.Printf("[ERROR] %s%s", msg, formatFields(fields))
}

// Debug logs a debug message.
func (s *StdLoggerAdapter) Debug(msg string, fields ...Field) {
	s.logger.Printf("[DEBUG] %s%s", msg, formatFields(fields))
}

// Printf logs a formatted message.
func (s *StdLoggerAdapter) Printf(format string, v ...any) {
	s.logger.Printf(format, v...)
}

// Println logs its arguments.
func (s *StdLoggerAdapter) Println(v ...any) {
	s.logger.Println(v...)
}

// formatFields renders fields as " key=value" pairs for plain-text output.
func formatFields(fields []Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}
