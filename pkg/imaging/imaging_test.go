package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 183, G: 110, B: 121, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestProcessDownscalesLargePNG(t *testing.T) {
	data := encodePNG(t, solid(400, 200))

	res, err := Process(data, 100)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !res.Resized || res.Width != 100 || res.Height != 50 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.MIME != MIMEPNG || res.Extension != "png" {
		t.Fatalf("expected png output, got %s", res.MIME)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(res.Data))
	if err != nil || cfg.Width != 100 {
		t.Fatalf("unexpected encoded output %+v %v", cfg, err)
	}
}

func TestProcessKeepsSmallJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solid(50, 80), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	data := buf.Bytes()

	res, err := Process(data, 0)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Resized || !bytes.Equal(res.Data, data) {
		t.Fatal("expected small image to be kept as uploaded")
	}
	if res.Extension != "jpg" || res.Width != 50 || res.Height != 80 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestProcessTallImageKeepsAspect(t *testing.T) {
	res, err := Process(encodePNG(t, solid(30, 300)), 60)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Width != 6 || res.Height != 60 {
		t.Fatalf("unexpected dimensions %dx%d", res.Width, res.Height)
	}
}

func TestProcessRejectsUnknownFormats(t *testing.T) {
	if _, err := Process([]byte("GIF89a not really"), 100); err == nil {
		t.Fatal("expected gif to be rejected")
	}
	if _, err := Process(nil, 100); err == nil {
		t.Fatal("expected empty payload to be rejected")
	}
}
