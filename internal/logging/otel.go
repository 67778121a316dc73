package logging

import (
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

// otelScope names the instrumentation scope of bridged log records.
const otelScope = "collegeroi"

// newDualCore creates a core writing to ws, teed into the OTEL bridge when
// cfg.OTEL is set and a provider is available.
func newDualCore(cfg *Config, ws zapcore.WriteSyncer, otelProvider log.LoggerProvider) (zapcore.Core, error) {
	cores := make([]zapcore.Core, 0, 2)

	if ws != nil {
		cores = append(cores, zapcore.NewCore(newEncoder(cfg.Format), ws, cfg.Level))
	}

	if cfg.OTEL && otelProvider != nil {
		otelCore := otelzap.NewCore(otelScope,
			otelzap.WithLoggerProvider(otelProvider),
		)
		cores = append(cores, newLevelCore(otelCore, cfg.Level))
	}

	if len(cores) == 0 {
		return nil, fmt.Errorf("at least one output must be enabled and available")
	}

	var core zapcore.Core
	if len(cores) == 1 {
		core = cores[0]
	} else {
		core = zapcore.NewTee(cores...)
	}

	return newSampledCore(core, cfg.Sampling), nil
}

// levelCore gates a core that has no level of its own. The otelzap core
// defers to the provider, which would otherwise accept Trace records the
// stream core drops.
type levelCore struct {
	zapcore.Core
	level zapcore.LevelEnabler
}

func newLevelCore(core zapcore.Core, level zapcore.LevelEnabler) zapcore.Core {
	return &levelCore{Core: core, level: level}
}

func (c *levelCore) Enabled(lvl zapcore.Level) bool {
	return c.level.Enabled(lvl) && c.Core.Enabled(lvl)
}

func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{Core: c.Core.With(fields), level: c.level}
}

func (c *levelCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.level.Enabled(ent.Level) {
		return ce
	}
	return c.Core.Check(ent, ce)
}
