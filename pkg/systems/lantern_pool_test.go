package systems

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/decker502/krathong/pkg/config"
)

func newTestLanternPool(t *testing.T, capacity, lanes int) *LanternPool {
	t.Helper()
	sceneCfg := config.DefaultSceneConfig()
	cfg := sceneCfg.Lanterns
	cfg.Capacity = capacity
	cfg.LaneCount = lanes
	geometry := NewViewportMapper(sceneCfg.Viewport).Recompute(1920, 1080)
	return NewLanternPool(cfg, geometry, rand.New(rand.NewSource(7)))
}

// TestLanternPoolLaunchEvictsOldest 池满后驱逐最旧的愿望
func TestLanternPoolLaunchEvictsOldest(t *testing.T) {
	pool := newTestLanternPool(t, 5, 5)

	seen := map[int]bool{}
	for i, wish := range []string{"a", "b", "c", "d", "e"} {
		h, ok := pool.Launch(wish)
		if !ok {
			t.Fatalf("Launch(%q) returned false", wish)
		}
		if h.Evicted != "" {
			t.Errorf("Launch(%q) evicted %q while idle lanterns remained", wish, h.Evicted)
		}
		if h.Index != i {
			t.Errorf("Launch(%q) used slot %d, want lowest idle slot %d", wish, h.Index, i)
		}
		seen[h.Index] = true
	}
	if len(seen) != 5 {
		t.Fatalf("five launches should occupy five distinct lanterns, got %d", len(seen))
	}
	for i := 0; i < 5; i++ {
		if lane := pool.Lantern(i).Lane; lane != i {
			t.Errorf("lantern %d lane: got %d, want %d", i, lane, i)
		}
	}

	h, ok := pool.Launch("f")
	if !ok {
		t.Fatal("Launch(\"f\") returned false")
	}
	if h.Evicted != "a" || h.Index != 0 {
		t.Errorf("sixth launch: evicted %q from slot %d, want \"a\" from slot 0", h.Evicted, h.Index)
	}

	got := pool.ActiveWishes()
	slices.Sort(got)
	want := []string{"b", "c", "d", "e", "f"}
	if !slices.Equal(got, want) {
		t.Errorf("active wishes: got %v, want %v", got, want)
	}

	l := pool.Lantern(h.Index)
	if l.X != pool.EntryX() {
		t.Errorf("evicted lantern X: got %v, want entry %v", l.X, pool.EntryX())
	}
}

// TestLanternPoolLaunchEmptyWish 空白愿望不改变状态
func TestLanternPoolLaunchEmptyWish(t *testing.T) {
	pool := newTestLanternPool(t, 3, 3)

	for _, wish := range []string{"", "   ", "\t\n"} {
		if _, ok := pool.Launch(wish); ok {
			t.Errorf("Launch(%q) should be a no-op", wish)
		}
	}
	if pool.ActiveCount() != 0 {
		t.Errorf("ActiveCount: got %d, want 0", pool.ActiveCount())
	}
	for i := 0; i < pool.Capacity(); i++ {
		if x := pool.Lantern(i).X; x != pool.InitialX(i) {
			t.Errorf("lantern %d moved to %v after empty launch", i, x)
		}
	}
}

// TestLanternPoolReusesIdleBeforeEvicting 有空闲水灯时从不驱逐
func TestLanternPoolReusesIdleBeforeEvicting(t *testing.T) {
	pool := newTestLanternPool(t, 3, 3)
	pool.Launch("a")
	pool.Launch("b")
	pool.Launch("c")

	// 让携带 "b" 的水灯越过右边缘，槽位被释放
	b := pool.Lantern(1)
	b.X = 1920 - 1
	pool.Update(1)
	if !b.IsIdle() {
		t.Fatalf("lantern 1 should be idle after wrapping, wish=%q", b.Wish)
	}

	h, ok := pool.Launch("d")
	if !ok {
		t.Fatal("Launch(\"d\") returned false")
	}
	if h.Evicted != "" {
		t.Errorf("Launch with an idle lantern evicted %q", h.Evicted)
	}
	if h.Index != 1 {
		t.Errorf("Launch used slot %d, want released slot 1", h.Index)
	}

	got := pool.ActiveWishes()
	want := []string{"a", "d", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("active wishes: got %v, want %v", got, want)
	}

	// 最旧的仍是 "a"
	if h, _ := pool.Launch("e"); h.Evicted != "a" {
		t.Errorf("next eviction: got %q, want \"a\"", h.Evicted)
	}
}

// TestLanternPoolUpdateAdvancesAndWraps 测试水平推进与环绕
func TestLanternPoolUpdateAdvancesAndWraps(t *testing.T) {
	pool := newTestLanternPool(t, 2, 2)
	pool.Launch("wish")

	l := pool.Lantern(0)
	l.X = 100
	speed := l.Speed
	pool.Update(0.5)
	if !approxEqual(l.X, 100+speed*0.5) {
		t.Errorf("X after update: got %v, want %v", l.X, 100+speed*0.5)
	}
	if l.Wish != "wish" {
		t.Errorf("wish should survive while on screen, got %q", l.Wish)
	}

	l.X = 1920 - 1
	idle := pool.Lantern(1)
	idle.X = 1920 - 1
	pool.Update(1)
	if l.X != pool.EntryX() || idle.X != pool.EntryX() {
		t.Errorf("wrapped X: got %v and %v, want %v", l.X, idle.X, pool.EntryX())
	}
	if l.Wish != "" {
		t.Errorf("wrap should clear the wish, got %q", l.Wish)
	}
	if pool.ActiveCount() != 0 {
		t.Errorf("ActiveCount after wrap: got %d, want 0", pool.ActiveCount())
	}
}

// TestLanternPoolVerticalIsDerived 垂直位置等于基线加浮动，不随帧累积漂移
func TestLanternPoolVerticalIsDerived(t *testing.T) {
	pool := newTestLanternPool(t, 4, 2)
	for i := 0; i < 120; i++ {
		pool.Update(1.0 / 60.0)
	}
	for i := 0; i < pool.Capacity(); i++ {
		l := pool.Lantern(i)
		want := pool.LaneBaseline(l.Lane) + pool.BobOffset(l.Phase, pool.Elapsed())
		if !approxEqual(l.Y, want) {
			t.Errorf("lantern %d Y: got %v, want %v", i, l.Y, want)
		}
	}
	if pool.Lantern(2).Lane != 0 || pool.Lantern(3).Lane != 1 {
		t.Errorf("lanes should be assigned round-robin")
	}
}

// TestLanternPoolReset 重置后所有水灯空闲并回到初始位置
func TestLanternPoolReset(t *testing.T) {
	pool := newTestLanternPool(t, 5, 5)
	pool.Launch("a")
	pool.Launch("b")
	pool.Launch("c")
	pool.Update(2)

	pool.Reset()

	if pool.Capacity() != 5 {
		t.Errorf("Capacity after reset: got %d, want 5", pool.Capacity())
	}
	if pool.ActiveCount() != 0 {
		t.Errorf("ActiveCount after reset: got %d, want 0", pool.ActiveCount())
	}
	for i := 0; i < pool.Capacity(); i++ {
		l := pool.Lantern(i)
		if !l.IsIdle() {
			t.Errorf("lantern %d still holds %q", i, l.Wish)
		}
		if l.X != pool.InitialX(i) {
			t.Errorf("lantern %d X: got %v, want %v", i, l.X, pool.InitialX(i))
		}
		if l.Lane != i {
			t.Errorf("lantern %d lane changed to %d", i, l.Lane)
		}
	}

	h, _ := pool.Launch("again")
	if h.Index != 0 || h.Sequence != 1 {
		t.Errorf("first launch after reset: slot %d seq %d, want slot 0 seq 1", h.Index, h.Sequence)
	}
}

// TestLanternPoolDepthOrder 绘制顺序按 Y 升序
func TestLanternPoolDepthOrder(t *testing.T) {
	pool := newTestLanternPool(t, 5, 5)
	pool.Update(0.3)

	order := pool.DepthOrder()
	if len(order) != 5 {
		t.Fatalf("DepthOrder length: got %d, want 5", len(order))
	}
	for i := 1; i < len(order); i++ {
		if order[i-1].Y > order[i].Y {
			t.Errorf("DepthOrder not ascending at %d: %v > %v", i, order[i-1].Y, order[i].Y)
		}
	}
}

// TestLanternPoolApplyGeometry 视口缩小后尺寸、速度、位置按比例换算
func TestLanternPoolApplyGeometry(t *testing.T) {
	pool := newTestLanternPool(t, 2, 2)
	l := pool.Lantern(0)
	l.X = 400
	width, speed := l.Width, l.Speed

	half := NewViewportMapper(config.DefaultSceneConfig().Viewport).Recompute(960, 540)
	pool.ApplyGeometry(half)

	if !approxEqual(l.Width, width/2) {
		t.Errorf("Width: got %v, want %v", l.Width, width/2)
	}
	if !approxEqual(l.Speed, speed/2) {
		t.Errorf("Speed: got %v, want %v", l.Speed, speed/2)
	}
	if !approxEqual(l.X, 200) {
		t.Errorf("X: got %v, want 200", l.X)
	}
	want := pool.LaneBaseline(l.Lane) + pool.BobOffset(l.Phase, pool.Elapsed())
	if !approxEqual(l.Y, want) {
		t.Errorf("Y: got %v, want %v", l.Y, want)
	}
}
