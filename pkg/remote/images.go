package remote

import (
	"bytes"
	"context"
	"image"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/storyboard/pkg/errors"
)

const previewScheme = "preview://"

// PreviewLookup returns the bytes behind a preview:// URL.
type PreviewLookup func(url string) ([]byte, bool)

// Images loads and decodes images by URL. Decoded images are memoized for
// the lifetime of the value, so one Images should serve one render.
type Images struct {
	client  *Client
	preview PreviewLookup

	mu      sync.Mutex
	decoded map[string]image.Image
}

// NewImages creates an image source. client may be nil when only local and
// preview images are expected, and preview may be nil outside an editor.
func NewImages(client *Client, preview PreviewLookup) *Images {
	return &Images{client: client, preview: preview, decoded: make(map[string]image.Image)}
}

// Image implements sink.ImageSource.
func (s *Images) Image(ctx context.Context, rawURL string) (image.Image, error) {
	s.mu.Lock()
	img, ok := s.decoded[rawURL]
	s.mu.Unlock()
	if ok {
		return img, nil
	}

	data, err := s.bytes(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "decode %s", rawURL)
	}

	s.mu.Lock()
	s.decoded[rawURL] = img
	s.mu.Unlock()
	return img, nil
}

func (s *Images) bytes(ctx context.Context, rawURL string) ([]byte, error) {
	switch {
	case strings.HasPrefix(rawURL, previewScheme):
		if s.preview != nil {
			if data, ok := s.preview(rawURL); ok {
				return data, nil
			}
		}
		return nil, errors.New(errors.ErrCodeFetch, "preview %s is no longer available", rawURL)
	case strings.HasPrefix(rawURL, "file://"):
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", rawURL)
		}
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFetch, err, "read %s", rawURL)
		}
		return data, nil
	case strings.HasPrefix(rawURL, "http://"), strings.HasPrefix(rawURL, "https://"):
		if s.client == nil {
			return nil, errors.New(errors.ErrCodeConfig, "no client for %s", rawURL)
		}
		return s.client.Fetch(ctx, rawURL, false)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported image URL %q", rawURL)
	}
}
