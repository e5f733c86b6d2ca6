// Package logsvc implements core.Logger on top of zap, forwarding events to Rollbar when enabled.
package logsvc

import (
	"strconv"
	"strings"

	"github.com/rollbar/rollbar-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tatame-app/tatame/core"
)

type Logger struct {
	zap     *zap.Logger
	rollbar bool
}

var _ core.Logger = (*Logger)(nil)

// NewLogger builds a JSON logger in production and a console logger otherwise.
// Rollbar reporting is enabled when a token is configured outside test mode.
func NewLogger(conf *core.Config) (*Logger, error) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(strings.ToLower(conf.LogLevel))); err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	var cfg zap.Config
	if conf.Env == "production" || conf.Env == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel), zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	base = base.With(zap.String("app", conf.AppName), zap.String("build", conf.Build))

	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	l := &Logger{zap: base}
	l.Enable(conf.RollbarToken != "" && !conf.TestMode)
	return l, nil
}

// NewWithCore is used by tests to observe the emitted entries; Rollbar stays disabled.
func NewWithCore(c zapcore.Core) *Logger {
	return &Logger{zap: zap.New(c)}
}

// Enable turns Rollbar reporting on or off.
func (l *Logger) Enable(enabled bool) {
	l.rollbar = enabled
	rollbar.SetEnabled(enabled)
}

// Sync flushes both the zap buffers and the pending Rollbar items.
func (l *Logger) Sync() {
	_ = l.zap.Sync()
	if l.rollbar {
		rollbar.Wait()
	}
}

// expected args: error, map[string]interface{}, core.Person
func (l *Logger) prepare(msg string, args []interface{}) ([]zap.Field, []interface{}) {
	var personSet bool
	fields := make([]zap.Field, 0, len(args))
	rbArgs := make([]interface{}, 0, len(args)+1)
	rbArgs = append(rbArgs, msg)
	for _, arg := range args {
		switch v := arg.(type) {
		case core.Person:
			if personSet {
				continue
			}
			personSet = true
			fields = append(fields, zap.Int("user.id", v.ID), zap.String("user.email", v.Email))
			if l.rollbar {
				rollbar.SetPerson(strconv.Itoa(v.ID), v.Name, v.Email)
			}
		case error:
			fields = append(fields, zap.Error(v))
			rbArgs = append(rbArgs, v)
		case map[string]interface{}:
			for k, val := range v {
				fields = append(fields, zap.Any(k, val))
			}
			rbArgs = append(rbArgs, v)
		default:
			fields = append(fields, zap.Any("arg", v))
		}
	}
	if l.rollbar && !personSet {
		rollbar.ClearPerson()
	}
	return fields, rbArgs
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	fields, rbArgs := l.prepare(msg, args)
	l.zap.Debug(msg, fields...)
	if l.rollbar {
		rollbar.Debug(rbArgs...)
	}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	fields, rbArgs := l.prepare(msg, args)
	l.zap.Info(msg, fields...)
	if l.rollbar {
		rollbar.Info(rbArgs...)
	}
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	fields, rbArgs := l.prepare(msg, args)
	l.zap.Warn(msg, fields...)
	if l.rollbar {
		rollbar.Warning(rbArgs...)
	}
}

func (l *Logger) Error(msg string, args ...interface{}) {
	fields, rbArgs := l.prepare(msg, args)
	l.zap.Error(msg, fields...)
	if l.rollbar {
		rollbar.Error(rbArgs...)
	}
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	fields, rbArgs := l.prepare(msg, args)
	if l.rollbar {
		rollbar.Critical(rbArgs...)
		rollbar.Wait()
	}
	l.zap.Fatal(msg, fields...)
}
