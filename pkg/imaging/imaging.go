package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// DefaultMaxDimension is the longest side kept for stored images.
const DefaultMaxDimension = 1600

// JPEGQuality is the compression quality for re-encoded JPEG output.
const JPEGQuality = 85

const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEWebP = "image/webp"
)

var extensions = map[string]string{
	MIMEJPEG: "jpg",
	MIMEPNG:  "png",
	MIMEWebP: "webp",
}

// Result is the processed image ready to be written to storage.
type Result struct {
	Data      []byte
	MIME      string
	Extension string
	Width     int
	Height    int
	Resized   bool
}

// Process sniffs the payload, rejects anything that is not JPEG, PNG or WebP and
// downscales JPEG/PNG images whose longest side exceeds maxDim. WebP files are
// validated and kept as uploaded.
func Process(data []byte, maxDim int) (*Result, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}

	detected := http.DetectContentType(data)
	ext, ok := extensions[detected]
	if !ok {
		return nil, fmt.Errorf("unsupported image format: %s (only JPEG, PNG and WebP accepted)", detected)
	}

	if detected == MIMEWebP {
		cfg, err := webp.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding webp: %w", err)
		}
		return &Result{Data: data, MIME: detected, Extension: ext, Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	scaled := downscale(img, maxDim)
	bounds := scaled.Bounds()
	res := &Result{MIME: detected, Extension: ext, Width: bounds.Dx(), Height: bounds.Dy()}
	if scaled == img {
		res.Data = data
		return res, nil
	}
	res.Resized = true

	var buf bytes.Buffer
	switch detected {
	case MIMEPNG:
		err = png.Encode(&buf, scaled)
	default:
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: JPEGQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", ext, err)
	}
	res.Data = buf.Bytes()
	return res, nil
}

// downscale resizes the image so neither dimension exceeds maxDim, keeping the
// aspect ratio. The original image is returned when already within bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
