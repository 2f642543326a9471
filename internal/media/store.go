// Package media stores generated assets (persona avatars, synthesized
// speech clips) so the browser can address them by URL. Assets are
// derived data; losing them only forces regeneration.
package media

import (
	"context"
	"errors"
)

// Object is one stored asset.
type Object struct {
	ContentType string
	Data        []byte
}

// Store defines operations for keeping generated assets.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) (Object, error)
	// URL returns the path under which the asset is served.
	URL(key string) string
}

var ErrNotFound = errors.New("media: object not found")
