package render

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// maxImageBytes caps remote downloads.
const maxImageBytes = 32 << 20

// Loader fetches slide images from files or http(s) URLs.
type Loader struct {
	Client    *http.Client
	UserAgent string
}

// NewLoader creates a loader with a 30 second HTTP timeout.
func NewLoader() *Loader {
	return &Loader{
		Client:    &http.Client{Timeout: 30 * time.Second},
		UserAgent: "slidekit/1.0",
	}
}

// IsRemote reports whether ref is an http(s) URL.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Load decodes the image behind ref. EXIF orientation is applied.
func (l *Loader) Load(ctx context.Context, ref string) (image.Image, error) {
	if IsRemote(ref) {
		return l.loadURL(ctx, ref)
	}

	f, err := os.Open(ref)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return img, nil
}

func (l *Loader) loadURL(ctx context.Context, ref string) (image.Image, error) {
	if _, err := url.Parse(ref); err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if l.UserAgent != "" {
		req.Header.Set("User-Agent", l.UserAgent)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image: HTTP %d", resp.StatusCode)
	}

	img, err := imaging.Decode(io.LimitReader(resp.Body, maxImageBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return img, nil
}
