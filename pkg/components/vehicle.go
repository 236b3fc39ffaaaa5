package components

// Vehicle 嘟嘟车（单例）
type Vehicle struct {
	X      float64 // 水平位置（左边缘）
	Y      float64 // 垂直位置（上边缘），仅在视口变化时重算
	Speed  float64 // 屏幕像素/秒
	Width  float64
	Height float64
	StartX float64 // 环绕后的起始位置（表面左侧之外）
}
