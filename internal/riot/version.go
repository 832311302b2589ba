package riot

import (
	"context"
	"errors"
	"sync"
)

// versionCell is a write-once cache for the data-dragon version shared
// by every request in the process. A failed initialization does not
// poison the cell; the next caller retries.
type versionCell struct {
	mu sync.Mutex
	v  string
}

func (c *versionCell) get(ctx context.Context, fetch func(context.Context) (string, error)) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.v != "" {
		return c.v, nil
	}
	v, err := fetch(ctx)
	if err != nil {
		return "", err
	}
	c.v = v
	return v, nil
}

// LatestDataVersion returns the newest data-dragon version, fetched at
// most once per process.
func (c *Client) LatestDataVersion(ctx context.Context) (string, error) {
	return c.version.get(ctx, func(ctx context.Context) (string, error) {
		versions, err := getJSON[[]string](ctx, c, ddragonVersionsURL)
		if err != nil {
			return "", err
		}
		if len(*versions) == 0 {
			return "", errors.New("empty version list")
		}
		return (*versions)[0], nil
	})
}
