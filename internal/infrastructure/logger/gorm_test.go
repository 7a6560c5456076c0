package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

const lockedSequenceQuery = `SELECT * FROM "number_sequences" WHERE doc_type = 'invoice' AND period = 2026 FOR UPDATE`

func observedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func TestGormLogger_SlowQueryLogsAtWarn(t *testing.T) {
	gl, recorded := observedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))

	gl.Trace(context.Background(), time.Now().Add(-50*time.Millisecond), func() (string, int64) {
		return lockedSequenceQuery, 1
	}, nil)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "slow query", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, lockedSequenceQuery, entries[0].ContextMap()["sql"])
}

func TestGormLogger_QueryError(t *testing.T) {
	gl, recorded := observedGormLogger(gormlogger.Error)

	queryErr := errors.New(`duplicate key value violates unique constraint "idx_invoices_number"`)
	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return `INSERT INTO "invoices" ...`, 0
	}, queryErr)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "query failed", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestGormLogger_RecordNotFoundSuppressedByDefault(t *testing.T) {
	gl, recorded := observedGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return `SELECT * FROM "quotes" WHERE number = 'DEV-2026-99999'`, 0
	}, gormlogger.ErrRecordNotFound)

	assert.Empty(t, recorded.FilterMessage("query failed").All())
}

func TestGormLogger_RecordNotFoundOptIn(t *testing.T) {
	gl, recorded := observedGormLogger(gormlogger.Error, WithRecordNotFoundLogging())

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return `SELECT * FROM "quotes" WHERE number = 'DEV-2026-99999'`, 0
	}, gormlogger.ErrRecordNotFound)

	assert.Len(t, recorded.FilterMessage("query failed").All(), 1)
}

func TestGormLogger_RequestIDPropagated(t *testing.T) {
	gl, recorded := observedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-19")
	gl.Trace(ctx, time.Now().Add(-10*time.Millisecond), func() (string, int64) {
		return lockedSequenceQuery, 1
	}, nil)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-19", entries[0].ContextMap()["request_id"])
}

func TestGormLogger_InfoLevelTracesAtDebug(t *testing.T) {
	gl, recorded := observedGormLogger(gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return `SELECT * FROM "products" WHERE active = true`, 12
	}, nil)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "query", entries[0].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
}

func TestGormLogger_LogModeSilentDropsEverything(t *testing.T) {
	gl, recorded := observedGormLogger(gormlogger.Info)

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), func() (string, int64) {
		return lockedSequenceQuery, 1
	}, errors.New("boom"))

	assert.Empty(t, recorded.All())

	// LogMode clones; the original keeps its level
	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return lockedSequenceQuery, 1
	}, nil)
	assert.Len(t, recorded.All(), 1)
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"anything", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, MapGormLogLevel(tt.level))
		})
	}
}
