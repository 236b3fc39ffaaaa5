package systems

import (
	"math"

	"github.com/decker502/krathong/pkg/components"
	"github.com/decker502/krathong/pkg/config"
)

// minSurfaceSize 退化视口的最小尺寸（像素）
const minSurfaceSize = 1.0

// ViewportMapper 将窗口尺寸换算为绘制表面几何信息
//
// Recompute 是纯函数：同样的输入永远得到同样的 ViewportGeometry，
// 调用方负责把结果应用到依赖它的实体（水灯基线、嘟嘟车道路线）。
type ViewportMapper struct {
	cfg config.ViewportConfig
}

// NewViewportMapper 创建视口映射器
func NewViewportMapper(cfg config.ViewportConfig) *ViewportMapper {
	return &ViewportMapper{cfg: cfg}
}

// Recompute 根据新的视口尺寸计算几何信息
//
// 宽高小于 1（含 0、负数、NaN）时按 1 处理，保证结果有限且不含 NaN。
// 缩放比例按 contain 语义把逻辑舞台完整放入视口。
func (m *ViewportMapper) Recompute(width, height float64) components.ViewportGeometry {
	w := clampSurface(width)
	h := clampSurface(height)

	logicalW := m.cfg.LogicalWidth
	logicalH := m.cfg.LogicalHeight
	if logicalW <= 0 || logicalH <= 0 {
		logicalW, logicalH = w, h
	}
	aspect := logicalW / logicalH

	effectiveW, effectiveH := w, h
	if w/h > aspect {
		effectiveW = h * aspect
	} else {
		effectiveH = w / aspect
	}

	contentX := (w - effectiveW) / 2
	contentY := (h - effectiveH) / 2

	waterLine := h * m.cfg.WaterLineRatio

	var roadLine float64
	switch m.cfg.RoadMode {
	case config.RoadModeOffset:
		roadLine = h - m.cfg.RoadOffset
	default:
		// 道路位于舞台底边向上 RoadLineRatio 处
		contentBottom := contentY + effectiveH
		roadLine = contentBottom - effectiveH*m.cfg.RoadLineRatio
	}
	// Y 轴向下：道路不能落到水面之下
	roadLine = math.Min(roadLine, waterLine)
	roadLine = math.Max(roadLine, 0)

	return components.ViewportGeometry{
		SurfaceWidth:  w,
		SurfaceHeight: h,
		WaterLine:     waterLine,
		RoadLine:      roadLine,
		ScaleFactor:   effectiveW / logicalW,
		ContentX:      contentX,
		ContentY:      contentY,
		ContentWidth:  effectiveW,
		ContentHeight: effectiveH,
	}
}

func clampSurface(v float64) float64 {
	if math.IsNaN(v) || v < minSurfaceSize {
		return minSurfaceSize
	}
	if math.IsInf(v, 1) {
		return math.MaxFloat32
	}
	return v
}
