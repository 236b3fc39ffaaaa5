package systems

import (
	"log"
	"strings"
	"unicode"

	"github.com/decker502/krathong/pkg/components"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WishInputAction 输入框本帧产生的动作
type WishInputAction int

const (
	WishInputNone WishInputAction = iota
	WishInputSubmit
	WishInputCancel
)

// cursorBlinkInterval 光标闪烁间隔（秒）
const cursorBlinkInterval = 0.5

// WishInputSystem 愿望输入框系统
// 处理键盘输入、光标移动和闪烁；Enter 提交，Esc 取消
type WishInputSystem struct {
	input *components.WishInputComponent
}

// NewWishInputSystem 创建愿望输入框系统
func NewWishInputSystem(input *components.WishInputComponent) *WishInputSystem {
	return &WishInputSystem{input: input}
}

// Input 返回输入框组件
func (s *WishInputSystem) Input() *components.WishInputComponent {
	return s.input
}

// Open 打开输入框并获取焦点
func (s *WishInputSystem) Open() {
	s.input.IsFocused = true
	s.input.Clear()
}

// Close 关闭输入框并清空内容
func (s *WishInputSystem) Close() {
	s.input.IsFocused = false
	s.input.Clear()
	s.input.CursorVisible = false
}

// Update 处理本帧的键盘输入
//
// 返回：
//   - WishInputAction: 本帧动作
//   - string: 提交时为去掉首尾空白的愿望文本（可能为空，由调用方决定如何提示）
func (s *WishInputSystem) Update(deltaTime float64) (WishInputAction, string) {
	input := s.input
	if !input.IsFocused {
		input.CursorVisible = false
		return WishInputNone, ""
	}

	s.updateCursorBlink(deltaTime)

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return WishInputCancel, ""
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		return WishInputSubmit, s.Submitted()
	}

	s.handleKeyboardInput()
	return WishInputNone, ""
}

// Submitted 返回去掉首尾空白后的输入文本
func (s *WishInputSystem) Submitted() string {
	return strings.TrimSpace(s.input.Text)
}

func (s *WishInputSystem) updateCursorBlink(deltaTime float64) {
	s.input.CursorBlinkTimer += deltaTime
	if s.input.CursorBlinkTimer >= cursorBlinkInterval {
		s.input.CursorBlinkTimer = 0
		s.input.CursorVisible = !s.input.CursorVisible
	}
}

// repeating 第 1 帧立即响应，按住 30 帧后每 3 帧响应一次
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= 30 && d%3 == 0)
}

func (s *WishInputSystem) handleKeyboardInput() {
	if runes := ebiten.AppendInputChars(nil); len(runes) > 0 {
		s.InsertText(string(runes))
	}
	if repeating(ebiten.KeyBackspace) {
		s.DeleteBefore()
	}
	if repeating(ebiten.KeyDelete) {
		s.DeleteAfter()
	}
	if repeating(ebiten.KeyArrowLeft) {
		s.MoveCursor(-1)
	}
	if repeating(ebiten.KeyArrowRight) {
		s.MoveCursor(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		s.MoveCursorTo(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		s.MoveCursorTo(len([]rune(s.input.Text)))
	}
}

// InsertText 在光标位置插入文本
// 控制字符被过滤；泰文等组合字符原样保留；超出最大长度时整段忽略
func (s *WishInputSystem) InsertText(text string) {
	filtered := make([]rune, 0, len(text))
	for _, r := range text {
		if unicode.IsPrint(r) {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return
	}

	input := s.input
	runes := []rune(input.Text)
	if input.MaxLength > 0 && len(runes)+len(filtered) > input.MaxLength {
		log.Printf("[WishInputSystem] 达到最大长度限制 (%d 字符)", input.MaxLength)
		return
	}

	pos := clampCursor(input.CursorPosition, len(runes))
	result := make([]rune, 0, len(runes)+len(filtered))
	result = append(result, runes[:pos]...)
	result = append(result, filtered...)
	result = append(result, runes[pos:]...)

	input.Text = string(result)
	input.CursorPosition = pos + len(filtered)
	s.showCursor()
}

// DeleteBefore 删除光标前的字符（退格）
func (s *WishInputSystem) DeleteBefore() {
	input := s.input
	runes := []rune(input.Text)
	pos := clampCursor(input.CursorPosition, len(runes))
	if pos == 0 {
		return
	}
	input.Text = string(append(runes[:pos-1:pos-1], runes[pos:]...))
	input.CursorPosition = pos - 1
	s.showCursor()
}

// DeleteAfter 删除光标后的字符（Delete 键）
func (s *WishInputSystem) DeleteAfter() {
	input := s.input
	runes := []rune(input.Text)
	pos := clampCursor(input.CursorPosition, len(runes))
	if pos >= len(runes) {
		return
	}
	input.Text = string(append(runes[:pos:pos], runes[pos+1:]...))
	s.showCursor()
}

// MoveCursor 光标左右移动 delta 个字符
func (s *WishInputSystem) MoveCursor(delta int) {
	s.MoveCursorTo(s.input.CursorPosition + delta)
}

// MoveCursorTo 光标移到指定字符位置
func (s *WishInputSystem) MoveCursorTo(pos int) {
	s.input.CursorPosition = clampCursor(pos, len([]rune(s.input.Text)))
	s.showCursor()
}

// showCursor 编辑时光标保持可见
func (s *WishInputSystem) showCursor() {
	s.input.CursorBlinkTimer = 0
	s.input.CursorVisible = true
}

func clampCursor(pos, length int) int {
	if pos < 0 {
		return 0
	}
	if pos > length {
		return length
	}
	return pos
}
