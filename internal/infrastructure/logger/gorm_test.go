package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_Trace(t *testing.T) {
	query := func() (string, int64) {
		return "SELECT * FROM stock_items WHERE location = ?", 3
	}

	t.Run("logs error for failed query", func(t *testing.T) {
		l, logs := newObservedLogger()
		gl := NewGormLogger(l, gormlogger.Error, 0)

		gl.Trace(context.Background(), time.Now(), query, errors.New("connection reset"))

		entries := logs.All()
		assert.Len(t, entries, 1)
		assert.Equal(t, "SQL Error", entries[0].Message)
		assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		l, logs := newObservedLogger()
		gl := NewGormLogger(l, gormlogger.Error, 0)

		gl.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)

		assert.Empty(t, logs.All())
	})

	t.Run("slow query logs warn", func(t *testing.T) {
		l, logs := newObservedLogger()
		gl := NewGormLogger(l, gormlogger.Warn, time.Nanosecond)

		gl.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)

		entries := logs.All()
		assert.Len(t, entries, 1)
		assert.Equal(t, zap.WarnLevel, entries[0].Level)
	})

	t.Run("silent level logs nothing", func(t *testing.T) {
		l, logs := newObservedLogger()
		gl := NewGormLogger(l, gormlogger.Silent, 0)

		gl.Trace(context.Background(), time.Now(), query, errors.New("ignored"))

		assert.Empty(t, logs.All())
	})

	t.Run("info level logs query at debug", func(t *testing.T) {
		l, logs := newObservedLogger()
		gl := NewGormLogger(l, gormlogger.Info, 0)

		gl.Trace(context.Background(), time.Now(), query, nil)

		entries := logs.All()
		assert.Len(t, entries, 1)
		assert.Equal(t, zap.DebugLevel, entries[0].Level)
		assert.Equal(t, int64(3), entries[0].ContextMap()["rows"])
	})

	t.Run("request id from context is attached", func(t *testing.T) {
		l, logs := newObservedLogger()
		gl := NewGormLogger(l, gormlogger.Info, 0)
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-55")

		gl.Trace(ctx, time.Now(), query, nil)

		assert.Equal(t, "req-55", logs.All()[0].ContextMap()["request_id"])
	})
}

func TestGormLogger_LogMode(t *testing.T) {
	l, _ := newObservedLogger()
	gl := NewGormLogger(l, gormlogger.Warn, 0)

	changed := gl.LogMode(gormlogger.Silent)

	assert.NotSame(t, gl, changed)
	assert.Equal(t, gormlogger.Warn, gl.logLevel)
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapGormLogLevel(tt.input), "level %q", tt.input)
	}
}
