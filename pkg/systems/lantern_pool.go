package systems

import (
	"container/heap"
	"container/list"
	"log"
	"math"
	"math/rand"
	"slices"
	"strings"

	"github.com/decker502/krathong/pkg/components"
	"github.com/decker502/krathong/pkg/config"
)

// LanternHandle Launch 的返回结果
type LanternHandle struct {
	Index    int    // 承载愿望的槽位
	Sequence uint64 // 本次放灯的创建序号
	Evicted  string // 池满时被替换掉的愿望；未驱逐时为空
}

// LanternPool 固定容量的水灯池
//
// 槽位数组在创建时一次性分配，之后只复用不增长。
// 空闲槽位保存在按下标排序的最小堆中，活跃槽位按创建序号排成队列，
// 因此"复用最小下标空闲槽位"和"驱逐最旧水灯"都不需要线性扫描。
type LanternPool struct {
	cfg      config.LanternConfig
	geometry components.ViewportGeometry

	lanterns []components.Lantern
	idle     idleHeap
	active   *list.List      // 活跃槽位下标，队首为创建序号最小者
	elements []*list.Element // 槽位 -> 活跃队列元素，空闲时为 nil

	nextSequence uint64
	elapsed      float64 // 累计时间，只用于计算上下浮动
	depthOrder   []*components.Lantern
}

// NewLanternPool 创建水灯池，所有水灯初始为空闲并在表面左侧错开排列
//
// 参数：
//   - cfg: 水灯配置（容量、水道数等）
//   - geometry: 当前视口几何信息
//   - rng: 随机源（速度浮动、初始相位），测试时传入固定种子
func NewLanternPool(cfg config.LanternConfig, geometry components.ViewportGeometry, rng *rand.Rand) *LanternPool {
	capacity := cfg.Capacity
	if capacity < 1 {
		capacity = 1
	}
	laneCount := cfg.LaneCount
	if laneCount < 1 {
		laneCount = 1
	}
	cfg.Capacity = capacity
	cfg.LaneCount = laneCount

	p := &LanternPool{
		cfg:          cfg,
		geometry:     geometry,
		lanterns:     make([]components.Lantern, capacity),
		idle:         make(idleHeap, 0, capacity),
		active:       list.New(),
		elements:     make([]*list.Element, capacity),
		nextSequence: 1,
		depthOrder:   make([]*components.Lantern, 0, capacity),
	}

	for i := range p.lanterns {
		l := &p.lanterns[i]
		l.Index = i
		l.Lane = i % laneCount
		l.SpeedFactor = 1 + (rng.Float64()*2-1)*cfg.SpeedVariation
		l.Phase = rng.Float64() * 2 * math.Pi
		p.idle = append(p.idle, i)
	}
	heap.Init(&p.idle)

	p.applyScale()
	for i := range p.lanterns {
		p.lanterns[i].X = p.initialX(i)
		p.updateVertical(&p.lanterns[i])
	}

	return p
}

// Capacity 返回池容量
func (p *LanternPool) Capacity() int {
	return len(p.lanterns)
}

// ActiveCount 返回携带愿望的水灯数量
func (p *LanternPool) ActiveCount() int {
	return p.active.Len()
}

// Lantern 返回指定槽位的水灯（只读使用）
func (p *LanternPool) Lantern(index int) *components.Lantern {
	if index < 0 || index >= len(p.lanterns) {
		return nil
	}
	return &p.lanterns[index]
}

// ActiveWishes 按槽位顺序返回当前所有愿望
func (p *LanternPool) ActiveWishes() []string {
	wishes := make([]string, 0, p.active.Len())
	for i := range p.lanterns {
		if !p.lanterns[i].IsIdle() {
			wishes = append(wishes, p.lanterns[i].Wish)
		}
	}
	return wishes
}

// Launch 放出一盏携带愿望的水灯
//
// 有空闲水灯时复用下标最小的一盏；池满时驱逐创建序号最小的一盏。
// 被选中的水灯重置到表面左侧的入场位置。
// 空白愿望直接忽略，返回 false。
func (p *LanternPool) Launch(wish string) (LanternHandle, bool) {
	if strings.TrimSpace(wish) == "" {
		return LanternHandle{}, false
	}

	handle := LanternHandle{}
	var index int
	if p.idle.Len() > 0 {
		index = heap.Pop(&p.idle).(int)
	} else {
		oldest := p.active.Front()
		index = oldest.Value.(int)
		handle.Evicted = p.lanterns[index].Wish
		p.active.Remove(oldest)
		p.elements[index] = nil
		log.Printf("[LanternPool] 池已满，驱逐槽位 %d (seq=%d)", index, p.lanterns[index].Sequence)
	}

	l := &p.lanterns[index]
	l.Wish = wish
	l.Sequence = p.nextSequence
	p.nextSequence++
	l.X = p.entryX()
	p.updateVertical(l)
	p.elements[index] = p.active.PushBack(index)

	handle.Index = index
	handle.Sequence = l.Sequence
	log.Printf("[LanternPool] 放灯: 槽位=%d 水道=%d seq=%d 活跃=%d/%d", index, l.Lane, l.Sequence, p.active.Len(), len(p.lanterns))
	return handle, true
}

// Update 推进所有水灯
//
// 水平位置按 speed*dt 前进；越过表面右边缘后回到入场位置，
// 同时清空愿望并释放槽位（愿望只显示一次穿越）。
// 垂直位置每帧由相位和累计时间重新计算，不做积分。
func (p *LanternPool) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	p.elapsed += dt

	for i := range p.lanterns {
		l := &p.lanterns[i]
		l.X += l.Speed * dt
		if l.X > p.geometry.SurfaceWidth {
			l.X = p.entryX()
			if !l.IsIdle() {
				p.release(i)
			}
		}
		p.updateVertical(l)
	}
}

// Reset 清空所有愿望，水灯回到初始的错开位置
// 容量和水道分配保持不变
func (p *LanternPool) Reset() {
	p.active.Init()
	p.idle = p.idle[:0]
	for i := range p.lanterns {
		l := &p.lanterns[i]
		l.Wish = ""
		l.Sequence = 0
		l.X = p.initialX(i)
		p.updateVertical(l)
		p.elements[i] = nil
		p.idle = append(p.idle, i)
	}
	heap.Init(&p.idle)
	p.nextSequence = 1
	log.Printf("[LanternPool] 重置: %d 盏水灯回到起点", len(p.lanterns))
}

// ApplyGeometry 应用新的视口几何信息
// 水平位置按缩放比例换算，尺寸、速度和水道基线随之更新
func (p *LanternPool) ApplyGeometry(g components.ViewportGeometry) {
	oldScale := p.geometry.ScaleFactor
	p.geometry = g
	if oldScale > 0 && g.ScaleFactor != oldScale {
		ratio := g.ScaleFactor / oldScale
		for i := range p.lanterns {
			p.lanterns[i].X *= ratio
		}
	}
	p.applyScale()
	for i := range p.lanterns {
		p.updateVertical(&p.lanterns[i])
	}
}

// DepthOrder 返回按垂直位置升序排列的水灯（靠后的先绘制）
// 返回的切片在下次调用时复用
func (p *LanternPool) DepthOrder() []*components.Lantern {
	p.depthOrder = p.depthOrder[:0]
	for i := range p.lanterns {
		p.depthOrder = append(p.depthOrder, &p.lanterns[i])
	}
	slices.SortStableFunc(p.depthOrder, func(a, b *components.Lantern) int {
		switch {
		case a.Y < b.Y:
			return -1
		case a.Y > b.Y:
			return 1
		}
		return 0
	})
	return p.depthOrder
}

// LaneBaseline 返回水道的基线（水灯上边缘，未叠加浮动）
func (p *LanternPool) LaneBaseline(lane int) float64 {
	height := p.geometry.Scaled(p.cfg.Height)
	return p.geometry.WaterLine - height/2 + float64(lane)*p.geometry.Scaled(p.cfg.LaneGap)
}

// BobOffset 返回指定相位在累计时间 elapsed 时的浮动偏移
func (p *LanternPool) BobOffset(phase, elapsed float64) float64 {
	return p.geometry.Scaled(p.cfg.BobAmplitude) * math.Sin(phase+elapsed*p.cfg.BobFrequency)
}

// Elapsed 返回累计时间
func (p *LanternPool) Elapsed() float64 {
	return p.elapsed
}

// InitialX 返回槽位的初始错开位置
func (p *LanternPool) InitialX(index int) float64 {
	return p.initialX(index)
}

// EntryX 返回放灯/环绕时的入场位置
func (p *LanternPool) EntryX() float64 {
	return p.entryX()
}

func (p *LanternPool) release(index int) {
	l := &p.lanterns[index]
	l.Wish = ""
	if e := p.elements[index]; e != nil {
		p.active.Remove(e)
		p.elements[index] = nil
	}
	heap.Push(&p.idle, index)
}

func (p *LanternPool) applyScale() {
	g := p.geometry
	for i := range p.lanterns {
		l := &p.lanterns[i]
		l.Width = g.Scaled(p.cfg.Width)
		l.Height = g.Scaled(p.cfg.Height)
		l.Speed = g.Scaled(p.cfg.Speed) * l.SpeedFactor
	}
}

func (p *LanternPool) updateVertical(l *components.Lantern) {
	l.Y = p.LaneBaseline(l.Lane) + p.BobOffset(l.Phase, p.elapsed)
}

func (p *LanternPool) entryX() float64 {
	return -p.geometry.Scaled(p.cfg.Width)
}

func (p *LanternPool) initialX(index int) float64 {
	return p.entryX() - float64(index)*p.geometry.Scaled(p.cfg.Spacing)
}

// idleHeap 空闲槽位最小堆（按下标）
type idleHeap []int

func (h idleHeap) Len() int           { return len(h) }
func (h idleHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idleHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *idleHeap) Push(x any) {
	*h = append(*h, x.(int))
}

func (h *idleHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
