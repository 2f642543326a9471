package retail

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"santachat/internal/ai"
	"santachat/internal/domain"
	"santachat/pkg/logger"
)

func TestEnsureLoadedFetchesOnce(t *testing.T) {
	fake := &ai.Fake{}
	c := NewCache(fake, logger.New("error"))

	first := c.EnsureLoaded(context.Background(), "Lego Set")
	second := c.EnsureLoaded(context.Background(), "Lego Set")

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.RetailCalls())
}

func TestEnsureLoadedConcurrentCallsShareOneFetch(t *testing.T) {
	fake := &ai.Fake{}
	c := NewCache(fake, logger.New("error"))

	var wg sync.WaitGroup
	results := make([][]domain.RetailResult, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.EnsureLoaded(context.Background(), "Lego Set")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, fake.RetailCalls())
	for _, r := range results {
		assert.Len(t, r, 3)
	}
	cached, ok := c.Peek("Lego Set")
	require.True(t, ok)
	assert.Len(t, cached, 3)
}

func TestEnsureLoadedCachesEmptyResultOnFailure(t *testing.T) {
	fake := &ai.Fake{FailRetail: true}
	c := NewCache(fake, logger.New("error"))

	first := c.EnsureLoaded(context.Background(), "Bicycle")
	second := c.EnsureLoaded(context.Background(), "Bicycle")

	assert.Empty(t, first)
	assert.Empty(t, second)
	assert.Equal(t, 1, fake.RetailCalls(), "failures are cached, not retried")
}

func TestDistinctItemsFetchSeparately(t *testing.T) {
	fake := &ai.Fake{}
	c := NewCache(fake, logger.New("error"))

	c.EnsureLoaded(context.Background(), "Bicycle")
	c.EnsureLoaded(context.Background(), "Lego Set")

	assert.Equal(t, 2, fake.RetailCalls())
}
