// Package feed fetches random dog photos from the dog.ceo API for demo decks.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the public dog.ceo API.
const DefaultBaseURL = "https://dog.ceo"

// DefaultCount is how many images a demo deck fetches.
const DefaultCount = 5

// ErrFetch is returned when any image request fails.
var ErrFetch = errors.New("failed to fetch images, please try again later")

// Client talks to the dog.ceo API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for baseURL ("" means DefaultBaseURL).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type randomResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Random fetches n image URLs concurrently. The result keeps request
// order. The first failure cancels the remaining requests and the whole
// fetch fails with ErrFetch.
func (c *Client) Random(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	urls := make([]string, n)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			u, err := c.randomOne(ctx)
			if err != nil {
				return err
			}
			urls[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return urls, nil
}

func (c *Client) randomOne(ctx context.Context) (string, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/api/breeds/image/random", nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var r randomResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&r); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if r.Status != "success" {
		return "", fmt.Errorf("unexpected status %q", r.Status)
	}
	if r.Message == "" {
		return "", errors.New("empty image URL")
	}
	return r.Message, nil
}
