package grove

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// defaultScreenshotDir is where captures go unless Scene.ScreenshotDir is set.
const defaultScreenshotDir = "screenshots"

// Screenshot queues a labeled capture of the frame drawn by the next Draw.
// The PNG is written to ScreenshotDir as <timestamp>_<frame>_<label>.png.
func (s *Scene) Screenshot(label string) {
	s.captures = append(s.captures, label)
}

// flushScreenshots writes every queued capture of screen. Called at the end
// of Draw; failures are logged and the queue is always emptied.
func (s *Scene) flushScreenshots(screen *ebiten.Image) {
	if len(s.captures) == 0 {
		return
	}
	defer func() { s.captures = s.captures[:0] }()

	dir := s.ScreenshotDir
	if dir == "" {
		dir = defaultScreenshotDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		report(slog.LevelError, "Scene.Screenshot", "failed to create directory", "dir", dir, "err", err)
		return
	}

	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, b.Dx(), b.Dy())

	stamp := time.Now().Format("20060102_150405")
	for _, label := range s.captures {
		path := filepath.Join(dir, fmt.Sprintf("%s_%06d_%s.png", stamp, s.frame, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			report(slog.LevelError, "Scene.Screenshot", "failed to write capture", "path", path, "err", err)
			continue
		}
		report(slog.LevelInfo, "Scene.Screenshot", "capture written", "path", path)
	}
}

// unpremultiply converts ebiten's premultiplied RGBA pixels to straight
// alpha for PNG encoding.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pixels)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := int(img.Pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		for c := 0; c < 3; c++ {
			img.Pix[i+c] = uint8(min(int(img.Pix[i+c])*255/a, 255))
		}
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.', replaces everything else
// with '_', and falls back to "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, label)
}
