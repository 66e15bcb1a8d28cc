package errorsignal

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	avatarSize    = 70 // CSS pixels
	avatarQuality = 95

	avatarPath1x = "/static/avatar-70.jpg"
	avatarPath2x = "/static/avatar-140.jpg"
)

// Avatar is the bio profile picture at 1x and 2x pixel density.
type Avatar struct {
	Small []byte // 70×70 JPEG
	Large []byte // 140×140 JPEG
}

// LoadAvatar reads and processes the picture at path.
func LoadAvatar(path string) (*Avatar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("errorsignal: open avatar: %w", err)
	}
	defer f.Close()
	return ProcessAvatar(f)
}

// ProcessAvatar decodes a GIF, JPEG, PNG or WebP image, crops it to a
// centred square and encodes both densities.
func ProcessAvatar(src io.Reader) (*Avatar, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("errorsignal: decode avatar: %w", err)
	}
	crop := centreSquare(img.Bounds())

	small, err := encodeSquare(img, crop, avatarSize)
	if err != nil {
		return nil, err
	}
	large, err := encodeSquare(img, crop, 2*avatarSize)
	if err != nil {
		return nil, err
	}
	return &Avatar{Small: small, Large: large}, nil
}

// centreSquare returns the largest square centred in r.
func centreSquare(r image.Rectangle) image.Rectangle {
	w, h := r.Dx(), r.Dy()
	side := min(w, h)
	x0 := r.Min.X + (w-side)/2
	y0 := r.Min.Y + (h-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}

func encodeSquare(img image.Image, crop image.Rectangle, size int) ([]byte, error) {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: avatarQuality}); err != nil {
		return nil, fmt.Errorf("errorsignal: encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}
