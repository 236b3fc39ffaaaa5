package components

// Lantern 水灯（กระทง）实体
//
// Y 不独立存储状态：每帧由 LanternPool 根据水道基线、相位和累计时间重新计算。
type Lantern struct {
	Index    int     // 在池中的槽位（固定）
	Lane     int     // 所属水道 [0, LaneCount)
	X        float64 // 水平位置（左边缘）
	Y        float64 // 垂直位置（上边缘，派生值）
	Speed    float64 // 水平速度（屏幕像素/秒）
	Phase    float64 // 上下浮动的相位偏移（弧度）
	Wish     string  // 愿望文本，空字符串表示空闲
	Sequence uint64  // 创建序号，驱逐时选择最小者

	SpeedFactor float64 // 速度随机系数，视口变化时用于重算 Speed
	Width       float64 // 当前屏幕尺寸
	Height      float64
}

// IsIdle 是否为空闲水灯（没有愿望）
func (l *Lantern) IsIdle() bool {
	return l.Wish == ""
}

// Caption 返回用于显示的愿望文本
// 超过 limit 个字符时截断并追加 "..."，存储的 Wish 保持完整
func (l *Lantern) Caption(limit int) string {
	return TruncateCaption(l.Wish, limit)
}

// TruncateCaption 按字符（rune）截断文本
func TruncateCaption(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
