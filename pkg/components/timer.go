package components

// TimerComponent 通用累加计时器
// 用于周期性行为（如烟花批次发射）：每帧累加 dt，越过阈值后触发并清零
type TimerComponent struct {
	Name        string  // 计时器名称，如 "firework_batch"
	TargetTime  float64 // 目标时间（秒）
	CurrentTime float64 // 当前已过时间（秒）
	IsReady     bool    // 本帧是否触发
}

// Advance 累加 dt，越过阈值时返回 true 并重置累加器
func (t *TimerComponent) Advance(dt float64) bool {
	t.CurrentTime += dt
	t.IsReady = t.TargetTime > 0 && t.CurrentTime >= t.TargetTime
	if t.IsReady {
		t.CurrentTime = 0
	}
	return t.IsReady
}

// Reset 清零累加器
func (t *TimerComponent) Reset() {
	t.CurrentTime = 0
	t.IsReady = false
}
