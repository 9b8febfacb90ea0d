// Package animation fetches the decorative Lottie JSON shown on the landing page.
package animation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxSize = 4 << 20

// Fetch downloads the JSON document at url. A non-200 response yields (nil, nil):
// the animation is optional and callers render without it.
func Fetch(ctx context.Context, client *http.Client, url string) (json.RawMessage, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch animation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize))
	if err != nil {
		return nil, fmt.Errorf("read animation: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("animation at %s is not valid JSON", url)
	}
	return json.RawMessage(data), nil
}
