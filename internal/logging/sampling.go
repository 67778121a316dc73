package logging

import (
	"go.uber.org/zap/zapcore"
)

// newSampledCore wraps core so that entries below Error are sampled per
// message per tick. Error and above always pass through.
func newSampledCore(core zapcore.Core, cfg SamplingConfig) zapcore.Core {
	if !cfg.Enabled {
		return core
	}

	errorCore := &levelRangeCore{
		Core:    core,
		enabled: func(l zapcore.Level) bool { return l >= zapcore.ErrorLevel },
	}
	belowErrorCore := &levelRangeCore{
		Core:    core,
		enabled: func(l zapcore.Level) bool { return l < zapcore.ErrorLevel },
	}

	sampled := zapcore.NewSamplerWithOptions(belowErrorCore, cfg.Tick, cfg.Initial, cfg.Thereafter)
	return zapcore.NewTee(errorCore, sampled)
}

// levelRangeCore restricts an inner core to the levels accepted by enabled.
type levelRangeCore struct {
	zapcore.Core
	enabled func(zapcore.Level) bool
}

func (c *levelRangeCore) Enabled(lvl zapcore.Level) bool {
	return c.enabled(lvl) && c.Core.Enabled(lvl)
}

func (c *levelRangeCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c *levelRangeCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelRangeCore{Core: c.Core.With(fields), enabled: c.enabled}
}
