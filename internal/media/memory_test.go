package media

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutGet(t *testing.T) {
	s, err := NewMemoryStore(4)
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "audio/a.wav", "audio/wav", []byte{1, 2, 3}))

	obj, err := s.Get(context.Background(), "audio/a.wav")
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", obj.ContentType)
	assert.Equal(t, []byte{1, 2, 3}, obj.Data)
}

func TestMemoryStoreMissingKey(t *testing.T) {
	s, err := NewMemoryStore(4)
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	s, err := NewMemoryStore(2)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("audio/%d.wav", i)
		require.NoError(t, s.Put(context.Background(), key, "audio/wav", []byte{byte(i)}))
	}

	_, err = s.Get(context.Background(), "audio/0.wav")
	assert.True(t, errors.Is(err, ErrNotFound), "oldest clip is evicted")
	_, err = s.Get(context.Background(), "audio/2.wav")
	assert.NoError(t, err)
}

func TestMemoryStoreURL(t *testing.T) {
	s, err := NewMemoryStore(4)
	require.NoError(t, err)
	assert.Equal(t, "/media/audio/a.wav", s.URL("audio/a.wav"))
	assert.Equal(t, "/media/audio/a.wav", s.URL("/audio/a.wav"))
}

func TestMemoryStoreCopiesData(t *testing.T) {
	s, err := NewMemoryStore(4)
	require.NoError(t, err)

	data := []byte{1, 2, 3}
	require.NoError(t, s.Put(context.Background(), "k", "application/octet-stream", data))
	data[0] = 9

	obj, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, byte(1), obj.Data[0])
}
