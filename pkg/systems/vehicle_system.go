package systems

import (
	"github.com/decker502/krathong/pkg/components"
	"github.com/decker502/krathong/pkg/config"
)

// VehicleSystem 嘟嘟车沿道路线匀速行驶，驶出右边缘后回到左侧
type VehicleSystem struct {
	cfg      config.VehicleConfig
	geometry components.ViewportGeometry
	vehicle  components.Vehicle
}

// NewVehicleSystem 创建嘟嘟车系统，车辆位于起始位置
func NewVehicleSystem(cfg config.VehicleConfig, geometry components.ViewportGeometry) *VehicleSystem {
	s := &VehicleSystem{cfg: cfg, geometry: geometry}
	s.applyScale()
	s.vehicle.X = s.vehicle.StartX
	return s
}

// Vehicle 返回车辆状态（只读使用）
func (s *VehicleSystem) Vehicle() *components.Vehicle {
	return &s.vehicle
}

// Update 推进车辆；x > 表面宽度 + 车宽 时回到 StartX
func (s *VehicleSystem) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	v := &s.vehicle
	v.X += v.Speed * dt
	if v.X > s.geometry.SurfaceWidth+v.Width {
		v.X = v.StartX
	}
}

// Reset 车辆回到起始位置
func (s *VehicleSystem) Reset() {
	s.vehicle.X = s.vehicle.StartX
}

// ApplyGeometry 视口变化时重算尺寸、速度和道路上的垂直位置
func (s *VehicleSystem) ApplyGeometry(g components.ViewportGeometry) {
	oldScale := s.geometry.ScaleFactor
	s.geometry = g
	if oldScale > 0 && g.ScaleFactor != oldScale {
		s.vehicle.X *= g.ScaleFactor / oldScale
	}
	s.applyScale()
}

func (s *VehicleSystem) applyScale() {
	g := s.geometry
	v := &s.vehicle
	v.Width = g.Scaled(s.cfg.Width)
	v.Height = g.Scaled(s.cfg.Height)
	v.Speed = g.Scaled(s.cfg.Speed)
	v.StartX = -(v.Width + g.Scaled(s.cfg.StartOffset))
	// 车底贴着道路线
	v.Y = g.RoadLine - v.Height + g.Scaled(s.cfg.RoadOffset)
}
