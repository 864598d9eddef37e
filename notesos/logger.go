package notesos

import "go.uber.org/zap"

// Logger is a minimal logging interface accepted by the SDK.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// noopLogger discards all logs.
type noopLogger struct{}

func (noopLogger) Debug(string, map[string]any) {}
func (noopLogger) Info(string, map[string]any)  {}
func (noopLogger) Warn(string, map[string]any)  {}
func (noopLogger) Error(string, map[string]any) {}

// NewZapLogger adapts a zap.Logger to the SDK's Logger interface.
func NewZapLogger(l *zap.Logger) Logger {
	return zapLogger{s: l.Sugar()}
}

type zapLogger struct {
	s *zap.SugaredLogger
}

func (z zapLogger) Debug(msg string, fields map[string]any) { z.s.Debugw(msg, kvs(fields)...) }
func (z zapLogger) Info(msg string, fields map[string]any)  { z.s.Infow(msg, kvs(fields)...) }
func (z zapLogger) Warn(msg string, fields map[string]any)  { z.s.Warnw(msg, kvs(fields)...) }
func (z zapLogger) Error(msg string, fields map[string]any) { z.s.Errorw(msg, kvs(fields)...) }

func kvs(fields map[string]any) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
