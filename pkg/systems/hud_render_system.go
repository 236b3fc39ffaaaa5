package systems

import (
	"image/color"

	"github.com/decker502/krathong/pkg/components"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	inputBoxBackground = color.RGBA{12, 20, 48, 220}
	inputBoxBorder     = color.RGBA{255, 200, 80, 255}
	inputTextColor     = color.RGBA{255, 255, 255, 255}
	placeholderColor   = color.RGBA{150, 150, 170, 255}
	toastBackground    = color.RGBA{0, 0, 0, 180}
	counterColor       = color.RGBA{255, 230, 160, 255}
	hintColor          = color.RGBA{200, 200, 220, 255}
)

// 输入框布局（屏幕像素）
const (
	inputBoxMaxWidth = 640.0
	inputBoxHeight   = 48.0
	inputBoxMargin   = 24.0
	inputPadding     = 12.0
	hudMargin        = 16.0
)

// HUDRenderSystem 界面层渲染系统
// 负责绘制愿望输入框、提示消息、计数器和操作提示
type HUDRenderSystem struct {
	font *text.GoTextFace // 为 nil 时不绘制任何文字
}

// NewHUDRenderSystem 创建界面层渲染系统
func NewHUDRenderSystem(font *text.GoTextFace) *HUDRenderSystem {
	return &HUDRenderSystem{font: font}
}

// SetFont 替换字体（启动画面加载完字体后调用）
func (s *HUDRenderSystem) SetFont(font *text.GoTextFace) {
	s.font = font
}

// InputBoxRect 返回输入框在屏幕上的矩形（水平居中，贴近底部）
func InputBoxRect(screenWidth, screenHeight float64) (x, y, width, height float64) {
	width = inputBoxMaxWidth
	if limit := screenWidth - 2*inputBoxMargin; width > limit {
		width = limit
	}
	if width < 1 {
		width = 1
	}
	x = (screenWidth - width) / 2
	y = screenHeight - inputBoxHeight - inputBoxMargin
	return x, y, width, inputBoxHeight
}

// DrawInputBox 绘制愿望输入框（未获得焦点时不绘制）
func (s *HUDRenderSystem) DrawInputBox(screen *ebiten.Image, input *components.WishInputComponent) {
	if input == nil || !input.IsFocused {
		return
	}

	b := screen.Bounds()
	x, y, width, height := InputBoxRect(float64(b.Dx()), float64(b.Dy()))

	vector.DrawFilledRect(screen, float32(x), float32(y), float32(width), float32(height), inputBoxBackground, true)
	vector.StrokeRect(screen, float32(x), float32(y), float32(width), float32(height), 2, inputBoxBorder, true)

	textX := x + inputPadding
	textY := y + height/2

	if input.Text == "" {
		s.drawText(screen, input.Placeholder, textX, textY, placeholderColor, text.AlignStart)
	} else {
		s.drawText(screen, input.Text, textX, textY, inputTextColor, text.AlignStart)
	}

	if input.CursorVisible {
		s.drawCursor(screen, input, textX, y, height)
	}
}

// drawCursor 绘制光标（光标在第 N 个字符后面）
func (s *HUDRenderSystem) drawCursor(screen *ebiten.Image, input *components.WishInputComponent, textX, boxY, boxHeight float64) {
	if s.font == nil {
		return
	}

	runes := []rune(input.Text)
	pos := clampCursor(input.CursorPosition, len(runes))

	var textWidth float64
	if pos > 0 {
		textWidth, _ = text.Measure(string(runes[:pos]), s.font, 0)
	}

	cursorX := float32(textX + textWidth)
	top := float32(boxY + boxHeight/4)
	bottom := float32(boxY + boxHeight*3/4)
	vector.StrokeLine(screen, cursorX, top, cursorX, bottom, 2, inputTextColor, true)
}

// DrawToast 在屏幕上方居中绘制提示消息
func (s *HUDRenderSystem) DrawToast(screen *ebiten.Image, toast *components.ToastComponent) {
	if s.font == nil || toast == nil || !toast.Active() || toast.Alpha <= 0 {
		return
	}

	b := screen.Bounds()
	w, h := text.Measure(toast.Message, s.font, 0)
	centerX := float64(b.Dx()) / 2
	centerY := hudMargin + h/2 + inputPadding

	vector.DrawFilledRect(screen,
		float32(centerX-w/2-inputPadding), float32(hudMargin),
		float32(w+2*inputPadding), float32(h+2*inputPadding),
		WithAlpha(toastBackground, toast.Alpha*float64(toastBackground.A)/255), true)

	op := &text.DrawOptions{}
	op.GeoM.Translate(centerX, centerY)
	op.ColorScale.ScaleWithColor(inputTextColor)
	op.ColorScale.ScaleAlpha(float32(toast.Alpha))
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(screen, toast.Message, s.font, op)
}

// DrawCounter 在右上角绘制已放出水灯数量
func (s *HUDRenderSystem) DrawCounter(screen *ebiten.Image, label string) {
	b := screen.Bounds()
	s.drawText(screen, label, float64(b.Dx())-hudMargin, hudMargin*2, counterColor, text.AlignEnd)
}

// DrawHint 在左上角绘制操作提示
func (s *HUDRenderSystem) DrawHint(screen *ebiten.Image, hint string) {
	s.drawText(screen, hint, hudMargin, hudMargin*2, hintColor, text.AlignStart)
}

// drawText 绘制垂直居中的单行文本
func (s *HUDRenderSystem) drawText(screen *ebiten.Image, txt string, x, y float64, clr color.Color, align text.Align) {
	if s.font == nil || txt == "" {
		return
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = align
	op.SecondaryAlign = text.AlignCenter
	text.Draw(screen, txt, s.font, op)
}
