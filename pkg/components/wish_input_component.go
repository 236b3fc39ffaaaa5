package components

// WishInputComponent 愿望输入框组件
// 用于输入要随水灯放出的愿望文本
type WishInputComponent struct {
	// 输入框文本
	Text string // 当前输入的文本

	// 光标状态
	CursorVisible    bool    // 光标是否可见（闪烁效果）
	CursorBlinkTimer float64 // 光标闪烁计时器（秒）
	CursorPosition   int     // 光标位置（字符索引）

	// 输入限制
	MaxLength   int    // 最大字符数（0 = 无限制）
	Placeholder string // 占位符文本（输入框为空时显示）

	// 焦点状态
	IsFocused bool // 输入框是否打开并接收键盘输入
}

// Clear 清空输入内容
func (c *WishInputComponent) Clear() {
	c.Text = ""
	c.CursorPosition = 0
	c.CursorBlinkTimer = 0
	c.CursorVisible = true
}
