package scenes

import (
	"image/color"
	"log"

	"github.com/decker502/krathong/pkg/game"
	"github.com/decker502/krathong/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

var (
	splashBackground = color.RGBA{8, 12, 36, 255}
	splashBarTrack   = color.RGBA{40, 48, 90, 255}
	splashBarFill    = color.RGBA{255, 190, 70, 255}
	splashTitleColor = color.RGBA{255, 230, 160, 255}
)

// 进度条尺寸（屏幕像素）
const (
	splashBarWidth  = 360.0
	splashBarHeight = 10.0
)

// LoadingScene represents the splash screen shown when the application starts.
// It loads one asset per frame while drawing a progress bar, then fades out
// over the lantern scene and hands control to it.
type LoadingScene struct {
	services *game.Services

	tasks    []loadTask
	next     int     // index of the next task to run
	progress float64 // 0.0 - 1.0

	assets SceneAssets
	target *LanternScene // created once loading completes

	fade  *gween.Tween
	alpha float64 // splash overlay alpha, 1 = fully opaque

	width, height float64
	fallbackFont  *text.GoTextFace // used until the scene font is loaded
}

// NewLoadingScene creates a new loading scene.
func NewLoadingScene(svc *game.Services) *LoadingScene {
	s := &LoadingScene{
		services: svc,
		alpha:    1,
		width:    float64(svc.Config.Window.Width),
		height:   float64(svc.Config.Window.Height),
	}
	s.tasks = newLoadTasks(svc, &s.assets)
	if svc.Resources != nil {
		s.fallbackFont = svc.Resources.LoadFontOrDefault("", svc.Config.UI.FontSize)
	}
	log.Printf("[LoadingScene] %d 项资源待加载", len(s.tasks))
	return s
}

// Progress returns the loading progress in [0, 1].
func (s *LoadingScene) Progress() float64 {
	return s.progress
}

// Alpha returns the current splash overlay alpha.
func (s *LoadingScene) Alpha() float64 {
	return s.alpha
}

// Update loads the next asset, or steps the lantern scene and the fade once everything is loaded.
func (s *LoadingScene) Update(deltaTime float64) {
	if s.next < len(s.tasks) {
		task := s.tasks[s.next]
		task.run()
		s.next++
		s.progress = float64(s.next) / float64(len(s.tasks))
		log.Printf("[LoadingScene] 已加载 %s (%.0f%%)", task.name, s.progress*100)
		return
	}
	s.progress = 1

	if s.target == nil {
		s.target = NewLanternScene(s.services, s.assets)
		s.target.Resize(s.width, s.height)
		if s.services.Audio != nil {
			s.services.Audio.PlayMusic()
		}
		duration := s.services.Config.Splash.FadeDuration
		if duration <= 0 {
			s.finish()
			return
		}
		s.fade = gween.New(1, 0, float32(duration), ease.OutQuad)
		return
	}

	// 淡出期间水灯场景照常推进
	s.target.Update(deltaTime)
	alpha, done := s.fade.Update(float32(deltaTime))
	s.alpha = float64(alpha)
	if done {
		s.finish()
	}
}

func (s *LoadingScene) finish() {
	s.alpha = 0
	log.Printf("[LoadingScene] 切换到水灯场景")
	s.services.SceneManager.SwitchTo(s.target)
}

// Resize records the surface size and forwards it to the lantern scene once it exists.
func (s *LoadingScene) Resize(width, height float64) {
	s.width, s.height = width, height
	if s.target != nil {
		s.target.Resize(width, height)
	}
}

// Draw renders the splash, or the lantern scene under a fading splash overlay.
func (s *LoadingScene) Draw(screen *ebiten.Image) {
	if s.target != nil {
		s.target.Draw(screen)
	}
	if s.alpha <= 0 {
		return
	}

	b := screen.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	vector.DrawFilledRect(screen, 0, 0, w, h, systems.WithAlpha(splashBackground, s.alpha), false)

	centerX := float64(w) / 2
	centerY := float64(h) / 2

	barX := float32(centerX - splashBarWidth/2)
	barY := float32(centerY + 40)
	vector.DrawFilledRect(screen, barX, barY, splashBarWidth, splashBarHeight, systems.WithAlpha(splashBarTrack, s.alpha), true)
	vector.DrawFilledRect(screen, barX, barY, float32(splashBarWidth*s.progress), splashBarHeight, systems.WithAlpha(splashBarFill, s.alpha), true)

	s.drawTitle(screen, centerX, centerY)
}

func (s *LoadingScene) drawTitle(screen *ebiten.Image, centerX, centerY float64) {
	font := s.assets.Font
	if font == nil {
		font = s.fallbackFont
	}
	title := s.services.Config.Splash.Title
	if font == nil || title == "" {
		return
	}

	op := &text.DrawOptions{}
	op.GeoM.Scale(2, 2)
	op.GeoM.Translate(centerX, centerY-20)
	op.ColorScale.ScaleWithColor(splashTitleColor)
	op.ColorScale.ScaleAlpha(float32(s.alpha))
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignEnd
	text.Draw(screen, title, font, op)
}
