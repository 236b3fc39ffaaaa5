package systems

import (
	"image/color"
	"log"
	"math"
	"math/rand"

	"github.com/decker502/krathong/pkg/components"
	"github.com/decker502/krathong/pkg/config"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// fireworkPalette 放射烟花的颜色
var fireworkPalette = []color.RGBA{
	{R: 255, G: 80, B: 80, A: 255},
	{R: 255, G: 200, B: 60, A: 255},
	{R: 120, G: 255, B: 120, A: 255},
	{R: 90, G: 180, B: 255, A: 255},
	{R: 220, G: 120, B: 255, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
}

// FireworkEmitter 烟花发射器
//
// 每个烟花走 Rising -> Exploded -> 移除 的状态机。
// 放射烟花在所有粒子消失后移除，徽标烟花在淡出计时到期后移除。
type FireworkEmitter struct {
	cfg      config.FireworkConfig
	anchors  []config.AnchorConfig
	geometry components.ViewportGeometry
	rng      *rand.Rand

	batchTimer components.TimerComponent
	fireworks  []*components.Firework
}

// NewFireworkEmitter 创建烟花发射器
//
// 参数：
//   - cfg: 烟花配置
//   - anchors: 周期批次的发射锚点（舞台比例坐标）
//   - geometry: 当前视口几何信息
//   - rng: 随机源，测试时传入固定种子
func NewFireworkEmitter(cfg config.FireworkConfig, anchors []config.AnchorConfig, geometry components.ViewportGeometry, rng *rand.Rand) *FireworkEmitter {
	return &FireworkEmitter{
		cfg:      cfg,
		anchors:  anchors,
		geometry: geometry,
		rng:      rng,
		batchTimer: components.TimerComponent{
			Name:       "firework_batch",
			TargetTime: cfg.Interval,
		},
		fireworks: make([]*components.Firework, 0, cfg.MaxLive),
	}
}

// Fireworks 返回存活的烟花（只读使用）
func (e *FireworkEmitter) Fireworks() []*components.Firework {
	return e.fireworks
}

// LiveCount 返回存活烟花数量
func (e *FireworkEmitter) LiveCount() int {
	return len(e.fireworks)
}

// SpawnAt 在 x 处从水面升起一枚放射烟花，升到 y 时爆炸
// 存活数量达到上限时忽略并返回 false
func (e *FireworkEmitter) SpawnAt(x, y float64) bool {
	return e.spawn(components.FireworkBurst, x, y)
}

// SpawnDecorative 在 x 处升起一枚徽标烟花，升到 y 时显示徽标并淡出
func (e *FireworkEmitter) SpawnDecorative(x, y float64) bool {
	return e.spawn(components.FireworkDecorative, x, y)
}

// Tick 累加时间，越过间隔阈值时在各锚点发射一批烟花
//
// 返回本次发射的烟花数量（未触发时为 0）。
func (e *FireworkEmitter) Tick(dt float64) int {
	if dt < 0 {
		dt = 0
	}
	if !e.batchTimer.Advance(dt) {
		return 0
	}

	spawned := 0
	for _, a := range e.anchors {
		x, y := e.geometry.StageToSurface(a.X, a.Y)
		if e.SpawnAt(x, y) {
			spawned++
		}
	}
	if e.cfg.Decorative && len(e.anchors) > 0 {
		a := e.anchors[e.rng.Intn(len(e.anchors))]
		x, y := e.geometry.StageToSurface(a.X, a.Y)
		if e.SpawnDecorative(x, y) {
			spawned++
		}
	}
	return spawned
}

// Update 推进所有烟花并移除已结束的
func (e *FireworkEmitter) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}

	live := e.fireworks[:0]
	for _, f := range e.fireworks {
		switch f.State {
		case components.FireworkRising:
			f.Y -= e.geometry.Scaled(e.cfg.AscentRate) * dt
			if f.Y <= f.TargetY {
				f.Y = f.TargetY
				e.explode(f)
			}
		case components.FireworkExploded:
			if f.Kind == components.FireworkDecorative {
				e.updateDecorative(f, dt)
			} else {
				e.updateBurst(f, dt)
			}
		}

		if !f.Finished() {
			live = append(live, f)
		}
	}
	// 清掉尾部引用
	for i := len(live); i < len(e.fireworks); i++ {
		e.fireworks[i] = nil
	}
	e.fireworks = live
}

// Reset 清除所有烟花并清零批次计时
func (e *FireworkEmitter) Reset() {
	for i := range e.fireworks {
		e.fireworks[i] = nil
	}
	e.fireworks = e.fireworks[:0]
	e.batchTimer.Reset()
}

// ApplyGeometry 更新视口几何信息（影响之后发射的烟花）
func (e *FireworkEmitter) ApplyGeometry(g components.ViewportGeometry) {
	e.geometry = g
}

func (e *FireworkEmitter) spawn(kind components.FireworkKind, x, y float64) bool {
	if len(e.fireworks) >= e.cfg.MaxLive {
		log.Printf("[FireworkEmitter] 存活烟花已达上限 %d，忽略 %s 烟花", e.cfg.MaxLive, kind)
		return false
	}

	startY := e.geometry.WaterLine
	if y > startY {
		startY = y
	}
	f := &components.Firework{
		Kind:    kind,
		State:   components.FireworkRising,
		X:       x,
		Y:       startY,
		TargetY: y,
		Color:   fireworkPalette[e.rng.Intn(len(fireworkPalette))],
		MaxLife: e.cfg.DecorativeLife,
		Alpha:   1,
		Size:    e.geometry.Scaled(e.cfg.DecorativeSize),
	}
	e.fireworks = append(e.fireworks, f)
	return true
}

// explode 状态切换 Rising -> Exploded
func (e *FireworkEmitter) explode(f *components.Firework) {
	f.State = components.FireworkExploded
	if f.Kind == components.FireworkDecorative {
		f.Life = 0
		f.Alpha = 1
		f.Fade = gween.New(1, 0, float32(f.MaxLife), ease.Linear)
		return
	}

	f.Particles = make([]components.Particle, e.cfg.BurstSize)
	minSpeed := e.geometry.Scaled(e.cfg.MinSpeed)
	maxSpeed := e.geometry.Scaled(e.cfg.MaxSpeed)
	for i := range f.Particles {
		angle := e.rng.Float64() * 2 * math.Pi
		speed := minSpeed + e.rng.Float64()*(maxSpeed-minSpeed)
		size := e.cfg.ParticleMinSize + e.rng.Float64()*(e.cfg.ParticleMaxSize-e.cfg.ParticleMinSize)
		f.Particles[i] = components.Particle{
			X:     f.X,
			Y:     f.Y,
			VX:    math.Cos(angle) * speed,
			VY:    math.Sin(angle) * speed,
			Alpha: 1,
			Size:  e.geometry.Scaled(size),
		}
	}
}

func (e *FireworkEmitter) updateBurst(f *components.Firework, dt float64) {
	gravity := e.geometry.Scaled(e.cfg.Gravity)
	// 按秒衰减，默认 0.6/s 等于 60 TPS 下每帧减 0.01
	decay := e.cfg.AlphaDecay * dt

	alive := f.Particles[:0]
	for _, p := range f.Particles {
		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.VY += gravity * dt
		p.Alpha -= decay
		if p.Alpha > 0 {
			alive = append(alive, p)
		}
	}
	f.Particles = alive
}

func (e *FireworkEmitter) updateDecorative(f *components.Firework, dt float64) {
	f.Life += dt
	if f.Fade != nil {
		alpha, _ := f.Fade.Update(float32(dt))
		f.Alpha = math.Max(0, float64(alpha))
	}
}
