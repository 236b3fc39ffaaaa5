package systems

import (
	"log"

	"github.com/decker502/krathong/pkg/components"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// toastFadeDuration 提示消息最后阶段的淡出时长（秒）
const toastFadeDuration = 0.5

// ToastSystem 提示消息系统
// 同一时间只显示一条消息，新消息直接替换旧消息
type ToastSystem struct {
	toast *components.ToastComponent
}

// NewToastSystem 创建提示消息系统
func NewToastSystem() *ToastSystem {
	return &ToastSystem{toast: &components.ToastComponent{}}
}

// Toast 返回当前提示消息组件
func (s *ToastSystem) Toast() *components.ToastComponent {
	return s.toast
}

// Show 显示一条消息
//
// 参数：
//   - message: 消息文本，空字符串会清除当前消息
//   - duration: 显示时长（秒），包含淡出时间
func (s *ToastSystem) Show(message string, duration float64) {
	s.toast.Message = message
	s.toast.Remaining = duration
	s.toast.Alpha = 1
	s.toast.Fade = nil
	if message != "" {
		log.Printf("[ToastSystem] %s", message)
	}
}

// Update 推进显示时间，进入最后阶段后按 InQuad 曲线淡出
func (s *ToastSystem) Update(deltaTime float64) {
	t := s.toast
	if !t.Active() {
		return
	}

	t.Remaining -= deltaTime
	if t.Remaining <= 0 {
		t.Message = ""
		t.Remaining = 0
		t.Alpha = 0
		t.Fade = nil
		return
	}

	if t.Fade == nil {
		if t.Remaining > toastFadeDuration {
			return
		}
		t.Fade = gween.New(1, 0, float32(t.Remaining), ease.InQuad)
		return
	}

	alpha, _ := t.Fade.Update(float32(deltaTime))
	t.Alpha = float64(alpha)
}
