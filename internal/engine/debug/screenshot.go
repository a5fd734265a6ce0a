package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// ScreenshotCapture writes framebuffer readbacks to PNG files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
	seq       int
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	if prefix == "" {
		prefix = "screenshot"
	}
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// OutputDir returns the directory screenshots are written to.
func (sc *ScreenshotCapture) OutputDir() string {
	return sc.outputDir
}

// FlipRows converts bottom-up RGBA rows (OpenGL readback order) into an
// image with row 0 at the top.
func FlipRows(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// CaptureFromPixels saves bottom-up RGBA pixels as a PNG and returns the
// file name.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	img, err := FlipRows(pixels, width, height)
	if err != nil {
		return "", err
	}
	return sc.CaptureFromImage(img)
}

// CaptureFromImage saves an image as a PNG and returns the file name.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.GenerateFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", filename, err)
	}

	return filename, nil
}

// GenerateFilename returns the next screenshot file name. Captures within
// the same second get an increasing suffix.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := sc.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", sc.prefix, timestamp)
	for {
		path := filename
		if sc.outputDir != "" {
			path = filepath.Join(sc.outputDir, filename)
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		sc.seq++
		filename = fmt.Sprintf("%s_%s_%d.png", sc.prefix, timestamp, sc.seq)
	}
}
