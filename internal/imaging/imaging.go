// Package imaging shrinks uploaded images before they are forwarded to
// the backend.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// MaxUploadBytes bounds a single uploaded file.
const MaxUploadBytes = 10 << 20

var ErrNotImage = errors.New("imaging: file is not a supported image")

// Image is an upload ready to forward.
type Image struct {
	Name        string
	ContentType string
	Content     []byte
}

// Downscale resizes img to maxWidth keeping the aspect ratio. Images that
// are already narrow enough are returned untouched. GIFs are never
// re-encoded so animations survive.
func Downscale(content []byte, name string, maxWidth uint) (Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return Image{}, ErrNotImage
	}

	out := Image{Name: name, ContentType: http.DetectContentType(content), Content: content}
	if maxWidth == 0 || uint(cfg.Width) <= maxWidth || format == "gif" {
		return out, nil
	}

	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return Image{}, ErrNotImage
	}
	resized := resize.Resize(maxWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, resized)
		out.ContentType = "image/png"
	default:
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85})
		out.ContentType = "image/jpeg"
		out.Name = strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	}
	if err != nil {
		return Image{}, fmt.Errorf("imaging: encode %s: %w", format, err)
	}
	out.Content = buf.Bytes()
	return out, nil
}

// FromFileHeader reads an uploaded file and downscales it.
func FromFileHeader(fh *multipart.FileHeader, maxWidth uint) (Image, error) {
	if fh.Size > MaxUploadBytes {
		return Image{}, fmt.Errorf("imaging: %s is larger than %d MB", fh.Filename, MaxUploadBytes>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return Image{}, err
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return Image{}, err
	}
	return Downscale(content, filepath.Base(fh.Filename), maxWidth)
}
