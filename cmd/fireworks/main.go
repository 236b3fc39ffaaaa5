// Package main provides a firework preview tool for tuning the burst and
// decorative firework parameters of the lantern scene.
//
// Usage:
//
//	go run ./cmd/fireworks [flags]
//
// Flags:
//
//	--config <path>     Scene config file (default: embedded data/scene.yaml)
//	--burst <n>         Override particles per burst
//	--interval <sec>    Override periodic batch interval
//	--seed <n>          Random seed (default 1)
//	--verbose           Enable verbose logging
//
// Controls:
//
//	Mouse Click  - Spawn a burst firework at cursor position
//	Space        - Spawn a burst firework at screen center
//	D            - Spawn a decorative (logo) firework at screen center
//	A            - Toggle periodic batches
//	P            - Toggle pause
//	R            - Clear all fireworks
//	Q/Escape     - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/decker502/krathong/pkg/components"
	"github.com/decker502/krathong/pkg/config"
	"github.com/decker502/krathong/pkg/embedded"
	"github.com/decker502/krathong/pkg/game"
	"github.com/decker502/krathong/pkg/systems"
	"github.com/decker502/krathong/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

var (
	configFlag   = flag.String("config", "", "Scene config file (default: embedded data/scene.yaml)")
	burstFlag    = flag.Int("burst", 0, "Override particles per burst")
	intervalFlag = flag.Float64("interval", 0, "Override periodic batch interval in seconds")
	seedFlag     = flag.Int64("seed", 1, "Random seed")
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

// FireworkPreview implements ebiten.Game for the firework preview tool
type FireworkPreview struct {
	cfg      *config.SceneConfig
	mapper   *systems.ViewportMapper
	geometry components.ViewportGeometry
	emitter  *systems.FireworkEmitter
	render   *systems.RenderSystem
	clock    *game.FrameClock

	autoBatch bool
	paused    bool
	spawned   int
}

func newFireworkPreview(cfg *config.SceneConfig) *FireworkPreview {
	mapper := systems.NewViewportMapper(cfg.Viewport)
	geometry := mapper.Recompute(screenWidth, screenHeight)
	rm := game.NewResourceManager(nil)

	return &FireworkPreview{
		cfg:      cfg,
		mapper:   mapper,
		geometry: geometry,
		emitter:  systems.NewFireworkEmitter(cfg.Fireworks, cfg.Anchors, geometry, rand.New(rand.NewSource(*seedFlag))),
		render: systems.NewRenderSystem(cfg, systems.SceneImages{
			Logo: rm.LoadOptionalImage(cfg.Assets.Logo),
		}, nil),
		clock:     game.NewFrameClock(cfg.Frame.MaxDelta),
		autoBatch: true,
	}
}

func (p *FireworkPreview) Update() error {
	dt := p.clock.Tick(time.Now())

	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		p.paused = !p.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		p.autoBatch = !p.autoBatch
		log.Printf("[FireworkPreview] auto batch: %v", p.autoBatch)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		p.emitter.Reset()
	}

	cx, cy := p.geometry.SurfaceWidth/2, p.geometry.SurfaceHeight/3
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) && p.emitter.SpawnAt(cx, cy) {
		p.spawned++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) && p.emitter.SpawnDecorative(cx, cy) {
		p.spawned++
	}
	if clicked, x, y := utils.IsJustTouchedOrClicked(); clicked && p.emitter.SpawnAt(float64(x), float64(y)) {
		p.spawned++
	}

	if p.paused {
		return nil
	}
	if p.autoBatch {
		p.spawned += p.emitter.Tick(dt)
	}
	p.emitter.Update(dt)
	return nil
}

func (p *FireworkPreview) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{8, 12, 36, 255})
	p.render.DrawWater(screen, p.geometry, 0)
	p.render.DrawFireworks(screen, p.emitter.Fireworks(), p.geometry)

	particles := 0
	for _, f := range p.emitter.Fireworks() {
		particles += len(f.Particles)
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS: %.1f\nlive: %d/%d  particles: %d  spawned: %d\nauto: %v  paused: %v\n\nClick/Space: burst  D: decorative  A: auto  P: pause  R: clear  Q: quit",
		ebiten.ActualFPS(), p.emitter.LiveCount(), p.cfg.Fireworks.MaxLive, particles, p.spawned, p.autoBatch, p.paused))
}

func (p *FireworkPreview) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	embedded.Init(os.DirFS("."), "")

	path := *configFlag
	if path == "" {
		path = config.DefaultSceneConfigPath
	}
	cfg, err := config.LoadSceneConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *burstFlag > 0 {
		cfg.Fireworks.BurstSize = *burstFlag
	}
	if *intervalFlag > 0 {
		cfg.Fireworks.Interval = *intervalFlag
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Firework Preview")

	if err := ebiten.RunGame(newFireworkPreview(cfg)); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
