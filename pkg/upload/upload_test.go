package upload

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/storyboard/pkg/errors"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLocalUpload(t *testing.T) {
	up, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	raw, err := up.Upload(context.Background(), "logo.png", bytes.NewReader(pngBytes(t, 3000, 1500)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(raw, "file://") {
		t.Fatalf("Upload() = %q, want file:// URL", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	img, err := imaging.Open(u.Path)
	if err != nil {
		t.Fatalf("open stored image: %v", err)
	}
	if b := img.Bounds(); b.Dx() != MaxDimension || b.Dy() != MaxDimension/2 {
		t.Errorf("stored size = %dx%d, want %dx%d", b.Dx(), b.Dy(), MaxDimension, MaxDimension/2)
	}
}

func TestLocalUploadNamesAreUnique(t *testing.T) {
	up, _ := NewLocal(t.TempDir())
	data := pngBytes(t, 10, 10)
	a, err := up.Upload(context.Background(), "a.png", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	b, err := up.Upload(context.Background(), "a.png", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("two uploads share URL %q", a)
	}
}

func TestLocalUploadErrors(t *testing.T) {
	up, _ := NewLocal(t.TempDir())

	_, err := up.Upload(context.Background(), "notes.txt", strings.NewReader("not an image"))
	if !errors.Is(err, errors.ErrCodeUpload) || !errors.IsRecoverable(err) {
		t.Errorf("Upload(garbage) error = %v, want recoverable UPLOAD_FAILED", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := up.Upload(ctx, "a.png", bytes.NewReader(pngBytes(t, 2, 2))); !errors.Is(err, errors.ErrCodeUpload) {
		t.Errorf("Upload(cancelled) error = %v, want UPLOAD_FAILED", err)
	}
}

func TestDownsize(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{100, 50, 200, 100, 50},
		{400, 200, 200, 200, 100},
		{200, 800, 400, 100, 400},
	}
	for _, tt := range tests {
		img := Downsize(image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h)), tt.max)
		if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("Downsize(%dx%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}
