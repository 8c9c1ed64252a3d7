package cmd

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/gogpu/paintdev/colorspace"
	"github.com/gogpu/paintdev/device"
)

// loadDevice decodes an image file into an 8-bit RGBA device.
func loadDevice(path string) (*device.PaintDevice, image.Rectangle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	dev, err := device.FromImage(img, colorspace.RGBA8())
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	return dev, img.Bounds(), nil
}

// savePNG writes rect of dev as PNG.
func savePNG(path string, dev *device.PaintDevice, rect image.Rectangle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, device.ToImage(dev, rect)); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// saveTIFF writes rect of dev as a deflate compressed TIFF. 16-bit devices
// keep their full precision.
func saveTIFF(path string, dev *device.PaintDevice, rect image.Rectangle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	opts := &tiff.Options{Compression: tiff.Deflate, Predictor: true}
	if err := tiff.Encode(f, device.ToImage(dev, rect), opts); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// parseRect parses "x,y,w,h".
func parseRect(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("rect %q: want x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("rect %q: %w", s, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, fmt.Errorf("rect %q: width and height must be positive", s)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}
