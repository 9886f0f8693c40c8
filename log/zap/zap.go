// Package zap adapts a *zap.Logger to extjson.Logger.
package zap

import (
	"github.com/unkn0wn-root/extjson"
	"go.uber.org/zap"
)

var _ extjson.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

// New names the logger "extjson" so codec and store lines are easy to filter.
func New(l *zap.Logger) ZapLogger { return ZapLogger{L: l.Named("extjson")} }

func (z ZapLogger) Debug(msg string, f extjson.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f extjson.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f extjson.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f extjson.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f extjson.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
