package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func selectBalances() (string, int64) {
	return "SELECT * FROM inventory_levels WHERE material_id = $1", 3
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()

	t.Run("logs queries at debug when level is info", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)

		gl.Trace(ctx, time.Now(), selectBalances, nil)

		require.Equal(t, 1, recorded.Len())
		entry := recorded.All()[0]
		assert.Equal(t, zapcore.DebugLevel, entry.Level)
		assert.Equal(t, "sql trace", entry.Message)

		fields := entry.ContextMap()
		assert.Contains(t, fields["sql"], "inventory_levels")
		assert.EqualValues(t, 3, fields["rows"])
	})

	t.Run("slow queries log at warn with the threshold", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))

		gl.Trace(ctx, time.Now().Add(-50*time.Millisecond), selectBalances, nil)

		require.Equal(t, 1, recorded.Len())
		entry := recorded.All()[0]
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		assert.Equal(t, "slow sql", entry.Message)
		assert.EqualValues(t, time.Millisecond, entry.ContextMap()["threshold"])
	})

	t.Run("errors log with the failed statement", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error)

		gl.Trace(ctx, time.Now(), selectBalances, assert.AnError)

		require.Equal(t, 1, recorded.Len())
		entry := recorded.All()[0]
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		assert.Equal(t, "sql error", entry.Message)
	})

	t.Run("record not found is skipped by default", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error)

		gl.Trace(ctx, time.Now(), selectBalances, gormlogger.ErrRecordNotFound)

		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("record not found is logged when configured", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error, WithIgnoreRecordNotFoundError(false))

		gl.Trace(ctx, time.Now(), selectBalances, gormlogger.ErrRecordNotFound)

		assert.Equal(t, 1, recorded.Len())
	})

	t.Run("tags entries with the request id from context", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		reqCtx := WithRequestID(ctx, "req-ledger-9")

		gl.Trace(reqCtx, time.Now(), selectBalances, nil)

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, "req-ledger-9", recorded.All()[0].ContextMap()["request_id"])
	})

	t.Run("silent level suppresses everything", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Silent)

		gl.Trace(ctx, time.Now(), selectBalances, assert.AnError)

		assert.Equal(t, 0, recorded.Len())
	})
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Silent)

	raised := gl.LogMode(gormlogger.Info)
	raised.Info(context.Background(), "migrating %s", "inventory_levels")

	// the original stays silent, the clone logs
	gl.Info(context.Background(), "should not appear")
	require.Equal(t, 1, recorded.Len())
	assert.Contains(t, recorded.All()[0].Message, "inventory_levels")
}

func TestMapGormLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MapGormLogLevel(tc.in), "level %q", tc.in)
	}
}
