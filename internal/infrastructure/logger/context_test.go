package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		log := zap.NewNop()
		ctx := WithContext(context.Background(), log)
		assert.Same(t, log, FromContext(ctx))
	})

	t.Run("returns noop logger when none attached", func(t *testing.T) {
		log := FromContext(context.Background())
		assert.NotNil(t, log)
	})
}

func TestWithTenantID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	ctx, enriched := WithTenantID(context.Background(), log, "tenant-1")
	enriched.Info("hello")

	assert.Equal(t, "tenant-1", GetTenantID(ctx))
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "tenant-1", entries[0].ContextMap()["tenant_id"])
}

func TestWithRequestID(t *testing.T) {
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-42")
	assert.Equal(t, "req-42", GetRequestID(ctx))
	assert.Equal(t, "", GetUserID(ctx))
}
