package logsvc

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tatame-app/tatame/core"
)

func TestLogger_fields(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(obs)

	person := core.Person{ID: 7, Name: "Helio", Email: "helio@tatame.app"}
	l.Error("saving student", errors.New("boom"), map[string]interface{}{"studentId": 3}, person, core.Person{ID: 8})
	l.Info("started")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	ctx := entries[0].ContextMap()
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "saving student", entries[0].Message)
	assert.Equal(t, "boom", ctx["error"])
	assert.EqualValues(t, 3, ctx["studentId"])
	assert.EqualValues(t, 7, ctx["user.id"], "only the first person is kept")
	assert.Equal(t, "helio@tatame.app", ctx["user.email"])

	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Empty(t, entries[1].Context)
}

func TestNewLogger(t *testing.T) {
	conf := core.NewTestConfig()
	l, err := NewLogger(conf)
	require.NoError(t, err)
	assert.False(t, l.rollbar)
	l.Sync()
}
