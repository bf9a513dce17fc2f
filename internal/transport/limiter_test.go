package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendLimiter_Burst(t *testing.T) {
	l := NewSendLimiter(1, 2)
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow(), "burst exhausted")

	st := l.Stats()
	assert.Equal(t, 1, st.RatePerSecond)
	assert.Equal(t, 2, st.Burst)
	assert.Equal(t, int64(2), st.SentTotal)
}

func TestSendLimiter_Unlimited(t *testing.T) {
	l := NewSendLimiter(0, 0)
	for i := 0; i < 1000; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
	assert.Equal(t, int64(1000), l.Stats().SentTotal)
}

func TestSendLimiter_WaitCancelled(t *testing.T) {
	l := NewSendLimiter(1, 1)
	require.True(t, l.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, l.Wait(ctx))
	assert.Equal(t, int64(1), l.Stats().AbortedTotal)
}
