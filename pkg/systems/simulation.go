package systems

import (
	"log"
	"math/rand"
	"time"

	"github.com/decker502/krathong/pkg/components"
	"github.com/decker502/krathong/pkg/config"
)

// Simulation 场景的全部模拟状态
//
// 所有实体由调用方逐帧单线程驱动，不需要加锁。
// 更新顺序固定：烟花（计时 + 推进）-> 嘟嘟车 -> 水灯。
type Simulation struct {
	Mapper    *ViewportMapper
	Geometry  components.ViewportGeometry
	Lanterns  *LanternPool
	Vehicle   *VehicleSystem
	Fireworks *FireworkEmitter

	// Elapsed 累计模拟时间（秒），驱动水波纹相位
	Elapsed float64

	width, height float64
}

// NewSimulation 按场景配置创建模拟状态
//
// 参数：
//   - cfg: 场景配置
//   - width, height: 初始绘制表面尺寸
//   - rng: 随机源；为 nil 时使用 cfg.Seed 创建（Seed 为 0 时使用当前时间）
func NewSimulation(cfg *config.SceneConfig, width, height float64, rng *rand.Rand) *Simulation {
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	mapper := NewViewportMapper(cfg.Viewport)
	geometry := mapper.Recompute(width, height)

	s := &Simulation{
		Mapper:    mapper,
		Geometry:  geometry,
		Lanterns:  NewLanternPool(cfg.Lanterns, geometry, rng),
		Vehicle:   NewVehicleSystem(cfg.Vehicle, geometry),
		Fireworks: NewFireworkEmitter(cfg.Fireworks, cfg.Anchors, geometry, rng),
		width:     width,
		height:    height,
	}
	log.Printf("[Simulation] 初始化: 表面 %.0fx%.0f, 缩放 %.3f, 水灯 %d 盏", geometry.SurfaceWidth, geometry.SurfaceHeight, geometry.ScaleFactor, s.Lanterns.Capacity())
	return s
}

// Resize 视口尺寸变化时重算几何信息并通知所有实体
// 尺寸未变化时直接返回 false
func (s *Simulation) Resize(width, height float64) bool {
	if width == s.width && height == s.height {
		return false
	}
	s.width, s.height = width, height
	s.Geometry = s.Mapper.Recompute(width, height)

	s.Lanterns.ApplyGeometry(s.Geometry)
	s.Vehicle.ApplyGeometry(s.Geometry)
	s.Fireworks.ApplyGeometry(s.Geometry)

	log.Printf("[Simulation] 视口变化: %.0fx%.0f, 水面线 %.1f, 道路线 %.1f, 缩放 %.3f",
		s.Geometry.SurfaceWidth, s.Geometry.SurfaceHeight, s.Geometry.WaterLine, s.Geometry.RoadLine, s.Geometry.ScaleFactor)
	return true
}

// Step 推进一帧
func (s *Simulation) Step(dt float64) {
	if dt < 0 {
		dt = 0
	}
	s.Elapsed += dt

	s.Fireworks.Tick(dt)
	s.Fireworks.Update(dt)
	s.Vehicle.Update(dt)
	s.Lanterns.Update(dt)
}

// Launch 放出一盏携带愿望的水灯
func (s *Simulation) Launch(wish string) (LanternHandle, bool) {
	return s.Lanterns.Launch(wish)
}

// Reset 水灯、烟花、嘟嘟车回到初始状态
func (s *Simulation) Reset() {
	s.Lanterns.Reset()
	s.Fireworks.Reset()
	s.Vehicle.Reset()
	log.Printf("[Simulation] 场景已重置")
}
