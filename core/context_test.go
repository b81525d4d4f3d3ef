package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	assert.False(t, shouldSkipHistory(ctx))
}

func TestContextWrongValueType(t *testing.T) {
	ctx := context.WithValue(context.Background(), suppressHeaderKey, "yes")
	ctx = context.WithValue(ctx, skipHistoryKey, 1)
	assert.False(t, shouldSuppressHeader(ctx))
	assert.False(t, shouldSkipHistory(ctx))
}

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithSkipHistory(WithSuppressHeader(context.Background()))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.True(t, shouldSuppressHeader(ctx), "Goroutine %d: shouldSuppressHeader should be true", id)
			assert.True(t, shouldSkipHistory(ctx), "Goroutine %d: shouldSkipHistory should be true", id)
		}(i)
	}
	wg.Wait()
}
