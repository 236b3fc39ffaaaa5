package components

// ViewportGeometry 视口几何信息
//
// 由 ViewportMapper 在视口尺寸变化时重新计算，实体只读不写。
// 坐标系：屏幕像素，原点左上角，Y 轴向下。
type ViewportGeometry struct {
	SurfaceWidth  float64 // 绘制表面宽度
	SurfaceHeight float64 // 绘制表面高度
	WaterLine     float64 // 水面线 Y 坐标
	RoadLine      float64 // 道路线 Y 坐标（不会低于水面线）
	ScaleFactor   float64 // 逻辑舞台 → 屏幕的缩放比例（contain 适配）

	// 逻辑舞台在表面中的矩形（contain 适配后的可见区域）
	ContentX      float64
	ContentY      float64
	ContentWidth  float64
	ContentHeight float64
}

// StageToSurface 将舞台比例坐标（0~1）映射为表面坐标
func (g ViewportGeometry) StageToSurface(fx, fy float64) (x, y float64) {
	return g.ContentX + fx*g.ContentWidth, g.ContentY + fy*g.ContentHeight
}

// Scaled 将逻辑像素长度换算为屏幕像素
func (g ViewportGeometry) Scaled(v float64) float64 {
	return v * g.ScaleFactor
}
