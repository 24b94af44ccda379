// Package upload stores user images (logos, backgrounds) and returns the URL
// the renderer loads them from.
//
// [LocalUploader] decodes the image, downsizes it so neither side exceeds
// [MaxDimension] and writes a PNG under a random name:
//
//	up, err := upload.NewLocal("")  // ~/.cache/storyboard/uploads
//	url, err := up.Upload(ctx, "logo.png", file)
//	// url == "file:///home/me/.cache/storyboard/uploads/6f1c...png"
package upload

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/matzehuels/storyboard/pkg/errors"
)

// MaxDimension is the longest side kept for uploaded images: twice the
// canvas width, enough for a sharp 1080px story at 2x.
const MaxDimension = 2160

// Uploader stores an image and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// Func adapts a function to Uploader.
type Func func(ctx context.Context, name string, r io.Reader) (string, error)

func (f Func) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	return f(ctx, name, r)
}

// LocalUploader writes images into a directory.
type LocalUploader struct {
	dir    string
	maxDim int
}

// NewLocal returns an uploader writing to dir, created if missing.
// If dir is empty, defaults to the user cache dir.
func NewLocal(dir string) (*LocalUploader, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		dir = filepath.Join(base, "storyboard", "uploads")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalUploader{dir: abs, maxDim: MaxDimension}, nil
}

// Dir returns the upload directory.
func (u *LocalUploader) Dir() string { return u.dir }

// Upload decodes r, downsizes it and stores it as PNG. The name is only used
// in error messages.
func (u *LocalUploader) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeUpload, err, "upload %s", name)
	}
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUpload, err, "decode %s", name)
	}
	img = Downsize(img, u.maxDim)

	path := filepath.Join(u.dir, uuid.NewString()+".png")
	if err := imaging.Save(img, path); err != nil {
		return "", errors.Wrap(errors.ErrCodeUpload, err, "store %s", name)
	}
	return FileURL(path), nil
}

// Downsize scales img so neither side exceeds max, keeping the aspect ratio.
// Smaller images are returned unchanged.
func Downsize(img image.Image, max int) image.Image {
	b := img.Bounds()
	if b.Dx() <= max && b.Dy() <= max {
		return img
	}
	return imaging.Fit(img, max, max, imaging.Lanczos)
}

// FileURL returns the file:// URL of an absolute path.
func FileURL(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

var _ Uploader = (*LocalUploader)(nil)
