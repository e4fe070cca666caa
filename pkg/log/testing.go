package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"sync"
)

// testSink is the buffer shared by a TestLogger and every logger derived from it.
type testSink struct {
	mu  sync.Mutex
	buf *bytes.Buffer
}

func (s *testSink) write(line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Write(line)
	s.buf.WriteByte('\n')
}

func (s *testSink) snapshot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// TestLogger records every entry as one JSON line without timestamps, so
// tests can assert on the fields a fit emitted.
type TestLogger struct {
	sink   *testSink
	level  Level
	fields map[string]any
}

// NewTestLogger returns a TestLogger that drops entries below level, and the
// buffer it writes to.
//
//	logger, buf := log.NewTestLogger(log.LevelDebug)
//	ls := linear.NewLeastSquares(fs, linear.WithLogger(logger))
func NewTestLogger(level Level) (*TestLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &TestLogger{
		sink:   &testSink{buf: buf},
		level:  level,
		fields: map[string]any{},
	}, buf
}

func (t *TestLogger) Debug(msg string, fields ...any) { t.log(LevelDebug, msg, fields) }
func (t *TestLogger) Info(msg string, fields ...any)  { t.log(LevelInfo, msg, fields) }
func (t *TestLogger) Warn(msg string, fields ...any)  { t.log(LevelWarn, msg, fields) }
func (t *TestLogger) Error(msg string, fields ...any) { t.log(LevelError, msg, fields) }

// With returns a logger writing to the same buffer with extra fields attached.
func (t *TestLogger) With(fields ...any) Logger {
	child := &TestLogger{sink: t.sink, level: t.level, fields: maps.Clone(t.fields)}
	addPairs(child.fields, fields)
	return child
}

// Enabled implements Logger.
func (t *TestLogger) Enabled(_ context.Context, level Level) bool {
	return level >= t.level
}

func (t *TestLogger) log(level Level, msg string, fields []any) {
	if !t.Enabled(context.Background(), level) {
		return
	}
	entry := maps.Clone(t.fields)
	entry["level"] = level.String()
	entry["message"] = msg

	// Error と同じく、先頭のerrorは "error" キーに入れる
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			entry[ErrorKey] = err.Error()
			fields = fields[1:]
		}
	}
	addPairs(entry, fields)

	// "<" などをエスケープしないので ContainsMessage は素の文字列で探せる
	var line bytes.Buffer
	enc := json.NewEncoder(&line)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entry); err != nil {
		line.Reset()
		fmt.Fprintf(&line, `{"level":%q,"message":%q}`, level, msg)
	}
	t.sink.write(bytes.TrimRight(line.Bytes(), "\n"))
}

func addPairs(dst map[string]any, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		v := kv[i+1]
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		dst[fmt.Sprint(kv[i])] = v
	}
}

// GetLogEntries decodes the captured lines. JSON numbers come back as float64.
func (t *TestLogger) GetLogEntries() ([]map[string]interface{}, error) {
	var entries []map[string]interface{}
	for _, line := range strings.Split(t.sink.snapshot(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ContainsMessage reports whether any captured text contains message.
func (t *TestLogger) ContainsMessage(message string) bool {
	return strings.Contains(t.sink.snapshot(), message)
}

// ContainsField reports whether some entry has key set to value.
// Numbers must be passed as float64.
func (t *TestLogger) ContainsField(key string, value interface{}) bool {
	entries, err := t.GetLogEntries()
	if err != nil {
		return false
	}
	for _, e := range entries {
		if v, ok := e[key]; ok && v == value {
			return true
		}
	}
	return false
}

// Clear drops everything captured so far.
func (t *TestLogger) Clear() {
	t.sink.mu.Lock()
	defer t.sink.mu.Unlock()
	t.sink.buf.Reset()
}
