package components

import "github.com/tanema/gween"

// ToastComponent 提示消息组件
// 显示一段时间后淡出（原版为 3 秒的 toast）
type ToastComponent struct {
	Message   string
	Remaining float64      // 剩余显示时间（秒）
	Alpha     float64      // 当前透明度
	Fade      *gween.Tween // 最后阶段的淡出曲线
}

// Active 是否仍在显示
func (t *ToastComponent) Active() bool {
	return t.Remaining > 0 && t.Message != ""
}
