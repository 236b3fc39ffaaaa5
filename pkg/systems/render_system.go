package systems

import (
	"image/color"
	"math"

	"github.com/decker502/krathong/pkg/components"
	"github.com/decker502/krathong/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 场景配色
var (
	nightSkyColor      = color.RGBA{R: 8, G: 12, B: 36, A: 255}
	waterLineColor     = color.NRGBA{R: 255, G: 255, B: 255, A: 128}
	risingMarkerColor  = color.RGBA{R: 255, G: 240, B: 200, A: 255}
	lanternPlaceholder = color.RGBA{R: 240, G: 160, B: 40, A: 255}
	vehiclePlaceholder = color.RGBA{R: 40, G: 120, B: 200, A: 255}
	captionColor       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	captionShadow      = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// waterSegment 水波纹折线的水平步长（像素）
const waterSegment = 4.0

// SceneImages 场景图片句柄
// 任一句柄为 nil（未加载或加载失败）时绘制占位图形
type SceneImages struct {
	Lanterns []*ebiten.Image
	Vehicle  *ebiten.Image
	Logo     *ebiten.Image
}

// RenderSystem 场景渲染系统
//
// 绘制顺序（从底到顶）：夜空 → 水波纹 → 烟花 → 嘟嘟车 → 水灯（按 Y 升序）。
// 只读取模拟状态，不修改任何实体。
type RenderSystem struct {
	water        config.WaterConfig
	captionLimit int
	images       SceneImages
	captionFont  *text.GoTextFace
}

// NewRenderSystem 创建场景渲染系统
//
// 参数：
//   - cfg: 场景配置（水波纹参数、愿望截断长度）
//   - images: 图片句柄，可部分为 nil
//   - captionFont: 愿望文字字体，为 nil 时不绘制文字
func NewRenderSystem(cfg *config.SceneConfig, images SceneImages, captionFont *text.GoTextFace) *RenderSystem {
	return &RenderSystem{
		water:        cfg.Water,
		captionLimit: cfg.Lanterns.CaptionLimit,
		images:       images,
		captionFont:  captionFont,
	}
}

// SetImages 替换图片句柄（资源异步就绪后调用）
func (s *RenderSystem) SetImages(images SceneImages) {
	s.images = images
}

// Draw 按固定顺序绘制整个场景
func (s *RenderSystem) Draw(screen *ebiten.Image, sim *Simulation) {
	screen.Fill(nightSkyColor)
	s.DrawWater(screen, sim.Geometry, sim.Elapsed)
	s.DrawFireworks(screen, sim.Fireworks.Fireworks(), sim.Geometry)
	s.DrawVehicle(screen, sim.Vehicle.Vehicle())
	s.DrawLanterns(screen, sim.Lanterns.DepthOrder())
}

// DrawWater 绘制水面波纹线
func (s *RenderSystem) DrawWater(screen *ebiten.Image, g components.ViewportGeometry, elapsed float64) {
	w := s.water
	for i := 0; i < w.Lines; i++ {
		prevX := 0.0
		prevY := WaveY(w, g, i, prevX, elapsed)
		for x := waterSegment; x <= g.SurfaceWidth+waterSegment; x += waterSegment {
			y := WaveY(w, g, i, x, elapsed)
			vector.StrokeLine(screen, float32(prevX), float32(prevY), float32(x), float32(y), 1, waterLineColor, true)
			prevX, prevY = x, y
		}
	}
}

// WaveY 返回第 line 条波纹在 x 处的 Y 坐标
func WaveY(w config.WaterConfig, g components.ViewportGeometry, line int, x, elapsed float64) float64 {
	base := g.WaterLine + float64(line)*g.Scaled(w.LineGap)
	waveLength := w.WaveLength
	if waveLength <= 0 {
		waveLength = 1
	}
	phase := x/waveLength + elapsed*float64(line+1)*w.WaveSpeed
	return base + math.Sin(phase)*g.Scaled(w.WaveHeight)
}

// DrawFireworks 绘制所有烟花
func (s *RenderSystem) DrawFireworks(screen *ebiten.Image, fireworks []*components.Firework, g components.ViewportGeometry) {
	for _, f := range fireworks {
		if f.State == components.FireworkRising {
			vector.DrawFilledCircle(screen, float32(f.X), float32(f.Y), float32(math.Max(1, g.Scaled(3))), risingMarkerColor, true)
			continue
		}

		switch f.Kind {
		case components.FireworkDecorative:
			s.drawDecorative(screen, f)
		default:
			for _, p := range f.Particles {
				vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(p.Size), WithAlpha(f.Color, p.Alpha), true)
			}
		}
	}
}

func (s *RenderSystem) drawDecorative(screen *ebiten.Image, f *components.Firework) {
	if s.images.Logo == nil {
		vector.DrawFilledCircle(screen, float32(f.X), float32(f.Y), float32(f.Size/2), WithAlpha(f.Color, f.Alpha), true)
		return
	}

	bounds := s.images.Logo.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(f.Size/float64(bounds.Dx()), f.Size/float64(bounds.Dy()))
	op.GeoM.Translate(f.X-f.Size/2, f.Y-f.Size/2)
	op.ColorScale.ScaleAlpha(float32(f.Alpha))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(s.images.Logo, op)
}

// DrawVehicle 绘制嘟嘟车
func (s *RenderSystem) DrawVehicle(screen *ebiten.Image, v *components.Vehicle) {
	if s.images.Vehicle == nil {
		vector.DrawFilledRect(screen, float32(v.X), float32(v.Y), float32(v.Width), float32(v.Height), vehiclePlaceholder, true)
		return
	}
	drawImageInRect(screen, s.images.Vehicle, v.X, v.Y, v.Width, v.Height)
}

// DrawLanterns 按给定顺序绘制水灯和愿望文字
func (s *RenderSystem) DrawLanterns(screen *ebiten.Image, ordered []*components.Lantern) {
	for _, l := range ordered {
		if img := s.lanternImage(l.Index); img != nil {
			drawImageInRect(screen, img, l.X, l.Y, l.Width, l.Height)
		} else {
			r := math.Min(l.Width, l.Height) / 2
			vector.DrawFilledCircle(screen, float32(l.X+l.Width/2), float32(l.Y+l.Height/2), float32(r), lanternPlaceholder, true)
		}

		if !l.IsIdle() {
			s.drawCaption(screen, l.Caption(s.captionLimit), l.X+l.Width/2, l.Y)
		}
	}
}

// lanternImage 水灯图片按槽位轮流使用
func (s *RenderSystem) lanternImage(index int) *ebiten.Image {
	if len(s.images.Lanterns) == 0 {
		return nil
	}
	return s.images.Lanterns[index%len(s.images.Lanterns)]
}

// drawCaption 在水灯上方居中绘制愿望（带阴影）
func (s *RenderSystem) drawCaption(screen *ebiten.Image, caption string, centerX, top float64) {
	if s.captionFont == nil || caption == "" {
		return
	}

	for _, layer := range []struct {
		dx, dy float64
		clr    color.Color
	}{
		{1, 1, captionShadow},
		{0, 0, captionColor},
	} {
		op := &text.DrawOptions{}
		op.GeoM.Translate(centerX+layer.dx, top-4+layer.dy)
		op.ColorScale.ScaleWithColor(layer.clr)
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignEnd
		text.Draw(screen, caption, s.captionFont, op)
	}
}

// drawImageInRect 将图片缩放绘制到指定矩形
func drawImageInRect(screen, img *ebiten.Image, x, y, width, height float64) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(width/float64(bounds.Dx()), height/float64(bounds.Dy()))
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

// WithAlpha 返回指定透明度的颜色（alpha 截断到 [0, 1]）
func WithAlpha(c color.RGBA, alpha float64) color.NRGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha * 255)}
}
