package imageproc

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultModelSide is the square input size most CLIP-family vision
// encoders expect.
const DefaultModelSide = 224

// DefaultJPEGQuality balances payload size against compression artifacts
// that would perturb the embedding.
const DefaultJPEGQuality = 90

// Info describes a decoded image without keeping its pixels around.
type Info struct {
	Width  int
	Height int
	Format string
}

// Decode parses raw image bytes, accepting any registered format.
// It returns the decoded image and the detected format name.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("imageproc: empty image data")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("imageproc: decode image: %w", err)
	}

	return img, format, nil
}

// Inspect decodes only enough of the image to report its dimensions and format.
func Inspect(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("imageproc: decode image config: %w", err)
	}

	return Info{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// EncodeJPEG serializes an image as JPEG with the given quality (1-100).
// Zero quality means DefaultJPEGQuality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	if quality > 100 {
		quality = 100
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("imageproc: encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

// ResizeShortestSide scales the image so its shortest side equals side,
// preserving aspect ratio. Images already at or below the target on their
// shortest side are still resampled so output dimensions are exact.
func ResizeShortestSide(img image.Image, side int) (image.Image, error) {
	if side <= 0 {
		return nil, fmt.Errorf("imageproc: side must be positive, got %d", side)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("imageproc: image has zero dimension")
	}

	var newW, newH int
	if w < h {
		newW = side
		newH = int(float64(h) * float64(side) / float64(w))
	} else {
		newH = side
		newW = int(float64(w) * float64(side) / float64(h))
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)

	return dst, nil
}

// CenterCrop extracts a square of the given side from the middle of the image.
func CenterCrop(img image.Image, side int) (image.Image, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if side <= 0 || side > w || side > h {
		return nil, fmt.Errorf("imageproc: cannot crop %dx%d to side %d", w, h, side)
	}

	x0 := bounds.Min.X + (w-side)/2
	y0 := bounds.Min.Y + (h-side)/2
	rect := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	xdraw.Copy(dst, image.Point{}, img, rect, xdraw.Over, nil)

	return dst, nil
}

// PrepareForModel runs the standard vision-encoder preprocessing pipeline:
// decode, resize the shortest side to side, center crop to a side x side
// square, encode as JPEG. Zero side means DefaultModelSide.
func PrepareForModel(data []byte, side int) ([]byte, error) {
	if side <= 0 {
		side = DefaultModelSide
	}

	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	resized, err := ResizeShortestSide(img, side)
	if err != nil {
		return nil, err
	}

	cropped, err := CenterCrop(resized, side)
	if err != nil {
		return nil, err
	}

	return EncodeJPEG(cropped, DefaultJPEGQuality)
}
