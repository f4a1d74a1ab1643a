package grove

import (
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run. Zero fields fall back to
// defaults.
type RunConfig struct {
	Title  string
	Width  int // default 1280
	Height int // default 720

	// ClearColor replaces the scene's clear color when its alpha is non-zero.
	ClearColor Color
	// ShowFPS prints the actual FPS and TPS in the top-left corner.
	ShowFPS bool
	// Debug turns on Scene debug mode.
	Debug bool
}

func (c RunConfig) withDefaults() RunConfig {
	if c.Title == "" {
		c.Title = "grove"
	}
	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Height <= 0 {
		c.Height = 720
	}
	return c
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene   *Scene
	cfg     RunConfig
	fpsText string
	fpsAge  float32
}

func (g *game) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))
	if err := g.scene.Update(dt); err != nil {
		report(slog.LevelError, "Run", "update failed", "err", err)
	}
	if g.cfg.ShowFPS {
		g.fpsAge += dt
		if g.fpsText == "" || g.fpsAge >= 0.5 {
			g.fpsAge = 0
			g.fpsText = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if err := g.scene.Draw(screen); err != nil {
		report(slog.LevelError, "Run", "draw failed", "err", err)
	}
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, g.fpsText)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run opens a window and drives scene with ebiten's game loop until the
// window is closed. Per-frame pass failures are logged, not returned.
func Run(scene *Scene, cfg RunConfig) error {
	if scene == nil {
		return fmt.Errorf("grove: run: nil scene")
	}
	cfg = cfg.withDefaults()
	if cfg.ClearColor.A > 0 {
		scene.ClearColor = cfg.ClearColor
	}
	if cfg.Debug {
		scene.SetDebugMode(true)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(&game{scene: scene, cfg: cfg})
}
