package game

import "time"

// DefaultMaxDelta 默认 dt 上限（秒）
// 窗口被挂起或最小化后恢复时避免一次推进过大的时间步
const DefaultMaxDelta = 0.033

// FrameClock 帧时钟，计算相邻两帧之间的时间差
//
// 第一帧返回 0；时钟回拨时返回 0；超过 maxDelta 时截断为 maxDelta。
type FrameClock struct {
	maxDelta float64
	last     time.Time
	started  bool
}

// NewFrameClock 创建帧时钟
// maxDelta <= 0 时使用 DefaultMaxDelta
func NewFrameClock(maxDelta float64) *FrameClock {
	if maxDelta <= 0 {
		maxDelta = DefaultMaxDelta
	}
	return &FrameClock{maxDelta: maxDelta}
}

// Tick 记录当前时刻并返回距上一帧的秒数
func (c *FrameClock) Tick(now time.Time) float64 {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}

	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt < 0 {
		return 0
	}
	if dt > c.maxDelta {
		return c.maxDelta
	}
	return dt
}

// Reset 丢弃上一帧时刻，下一次 Tick 返回 0
func (c *FrameClock) Reset() {
	c.started = false
}

// MaxDelta 返回 dt 上限
func (c *FrameClock) MaxDelta() float64 {
	return c.maxDelta
}
