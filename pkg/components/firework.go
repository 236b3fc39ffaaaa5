package components

import (
	"image/color"

	"github.com/tanema/gween"
)

// FireworkKind 烟花变体
type FireworkKind int

const (
	// FireworkBurst 放射状粒子爆炸，所有粒子消失后结束
	FireworkBurst FireworkKind = iota
	// FireworkDecorative 徽标烟花，淡出计时到期后结束
	FireworkDecorative
)

func (k FireworkKind) String() string {
	switch k {
	case FireworkBurst:
		return "burst"
	case FireworkDecorative:
		return "decorative"
	}
	return "unknown"
}

// FireworkState 烟花状态机：Rising -> Exploded -> (移除)
type FireworkState int

const (
	FireworkRising FireworkState = iota
	FireworkExploded
)

// Particle 烟花粒子
type Particle struct {
	X, Y   float64
	VX, VY float64 // 屏幕像素/秒
	Alpha  float64 // [0, 1]
	Size   float64 // 半径
}

// Firework 烟花实体
//
// 不变式：State == FireworkRising 时 Particles 为空。
type Firework struct {
	Kind    FireworkKind
	State   FireworkState
	X       float64 // 发射点 X（originX）
	Y       float64 // 当前高度
	TargetY float64 // 爆炸高度
	Color   color.RGBA

	Particles []Particle

	// 徽标变体的淡出计时
	Life    float64      // 已淡出时间（秒）
	MaxLife float64      // 淡出总时长（秒）
	Alpha   float64      // 当前徽标透明度
	Fade    *gween.Tween // 透明度曲线 1 -> 0
	Size    float64      // 徽标尺寸（屏幕像素）
}

// Finished 是否满足移除条件
//
// 放射变体：已爆炸且粒子全部消失；徽标变体：已爆炸且淡出计时到期。
func (f *Firework) Finished() bool {
	if f.State != FireworkExploded {
		return false
	}
	switch f.Kind {
	case FireworkDecorative:
		return f.Life >= f.MaxLife
	default:
		return len(f.Particles) == 0
	}
}
