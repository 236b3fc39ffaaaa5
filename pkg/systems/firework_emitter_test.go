package systems

import (
	"math/rand"
	"testing"

	"github.com/decker502/krathong/pkg/components"
	"github.com/decker502/krathong/pkg/config"
)

func newTestFireworkEmitter(mutate func(*config.FireworkConfig)) *FireworkEmitter {
	sceneCfg := config.DefaultSceneConfig()
	cfg := sceneCfg.Fireworks
	if mutate != nil {
		mutate(&cfg)
	}
	geometry := NewViewportMapper(sceneCfg.Viewport).Recompute(1920, 1080)
	return NewFireworkEmitter(cfg, sceneCfg.Anchors, geometry, rand.New(rand.NewSource(3)))
}

// TestFireworkBurstLifecycle 测试放射烟花 Rising -> Exploded -> 移除
func TestFireworkBurstLifecycle(t *testing.T) {
	e := newTestFireworkEmitter(nil)
	if !e.SpawnAt(500, 300) {
		t.Fatal("SpawnAt returned false")
	}

	f := e.Fireworks()[0]
	e.Update(1.0)
	if f.State != components.FireworkRising {
		t.Fatalf("after 1s state: got %v, want Rising", f.State)
	}
	if len(f.Particles) != 0 {
		t.Errorf("rising firework has %d particles", len(f.Particles))
	}
	if f.Y >= 918 || f.Y <= 300 {
		t.Errorf("rising Y: got %v, want between target and water line", f.Y)
	}

	e.Update(1.0)
	if f.State != components.FireworkExploded {
		t.Fatalf("state: got %v, want Exploded", f.State)
	}
	if len(f.Particles) != 50 {
		t.Fatalf("burst size: got %d, want 50", len(f.Particles))
	}
	for i, p := range f.Particles {
		if p.Alpha != 1 {
			t.Fatalf("particle %d alpha: got %v, want 1", i, p.Alpha)
		}
		if p.X != 500 || p.Y != 300 {
			t.Fatalf("particle %d origin: got (%v, %v), want (500, 300)", i, p.X, p.Y)
		}
	}

	prev := len(f.Particles)
	for step := 0; step < 40 && e.LiveCount() > 0; step++ {
		e.Update(0.1)
		if e.LiveCount() == 0 {
			break
		}
		if len(f.Particles) > prev {
			t.Fatalf("particle count increased from %d to %d", prev, len(f.Particles))
		}
		if len(f.Particles) == 0 {
			t.Fatal("firework with no particles was not removed")
		}
		prev = len(f.Particles)
	}
	if e.LiveCount() != 0 {
		t.Errorf("firework should be removed after all particles fade, live=%d", e.LiveCount())
	}
}

// TestFireworkDecorativeFade 徽标烟花在淡出计时到期后才移除
func TestFireworkDecorativeFade(t *testing.T) {
	e := newTestFireworkEmitter(nil)
	e.SpawnDecorative(500, 918)

	f := e.Fireworks()[0]
	e.Update(0.01)
	if f.State != components.FireworkExploded {
		t.Fatalf("state: got %v, want Exploded", f.State)
	}
	if len(f.Particles) != 0 {
		t.Errorf("decorative firework should not own particles, got %d", len(f.Particles))
	}

	lastAlpha := f.Alpha
	for i := 0; i < 3; i++ {
		e.Update(0.5)
		if e.LiveCount() != 1 {
			t.Fatalf("decorative firework removed early at life %.2f", f.Life)
		}
		if f.Alpha >= lastAlpha {
			t.Errorf("alpha should decrease: %v -> %v", lastAlpha, f.Alpha)
		}
		lastAlpha = f.Alpha
	}

	e.Update(0.5)
	if e.LiveCount() != 0 {
		t.Errorf("decorative firework should be removed after life %.2f >= %.2f", f.Life, f.MaxLife)
	}
}

// TestFireworkLiveCap 存活数量上限
func TestFireworkLiveCap(t *testing.T) {
	e := newTestFireworkEmitter(func(c *config.FireworkConfig) { c.MaxLive = 3 })

	accepted := 0
	for i := 0; i < 5; i++ {
		if e.SpawnAt(float64(100*i), 200) {
			accepted++
		}
	}
	if accepted != 3 || e.LiveCount() != 3 {
		t.Errorf("accepted %d live %d, want 3/3", accepted, e.LiveCount())
	}
}

// TestFireworkTickBatches 周期批次按累加器触发并清零
func TestFireworkTickBatches(t *testing.T) {
	tests := []struct {
		name       string
		decorative bool
		wantBatch  int
	}{
		{"仅放射烟花", false, 3},
		{"含徽标烟花", true, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestFireworkEmitter(func(c *config.FireworkConfig) { c.Decorative = tt.decorative })

			if n := e.Tick(4.9); n != 0 {
				t.Fatalf("Tick before interval spawned %d", n)
			}
			if n := e.Tick(0.2); n != tt.wantBatch {
				t.Fatalf("Tick crossing interval spawned %d, want %d", n, tt.wantBatch)
			}
			if n := e.Tick(4.9); n != 0 {
				t.Errorf("accumulator not reset, spawned %d", n)
			}
			if n := e.Tick(0.2); n != tt.wantBatch {
				t.Errorf("second batch spawned %d, want %d", n, tt.wantBatch)
			}

			// 第一个锚点 (0.2, 0.2) 映射到 (384, 216)
			f := e.Fireworks()[0]
			if f.X != 384 || f.TargetY != 216 {
				t.Errorf("first anchor: got (%v, %v), want (384, 216)", f.X, f.TargetY)
			}
		})
	}
}

// TestFireworkReset 重置清除所有烟花
func TestFireworkReset(t *testing.T) {
	e := newTestFireworkEmitter(nil)
	e.SpawnAt(100, 100)
	e.SpawnDecorative(200, 200)
	e.Tick(4)

	e.Reset()
	if e.LiveCount() != 0 {
		t.Errorf("LiveCount after Reset: got %d, want 0", e.LiveCount())
	}
	if n := e.Tick(1.5); n != 0 {
		t.Errorf("batch timer should restart from zero, spawned %d", n)
	}
}

// TestFireworkParticleAlphaDecay 默认衰减在 60 TPS 下等于每帧 0.01
func TestFireworkParticleAlphaDecay(t *testing.T) {
	e := newTestFireworkEmitter(nil)
	f := &components.Firework{
		State:     components.FireworkExploded,
		Particles: []components.Particle{{X: 500, Y: 300, Alpha: 1}},
	}

	tests := []struct {
		name   string
		frames int
		want   float64
	}{
		{"一帧", 1, 0.99},
		{"再59帧", 59, 0.40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < tt.frames; i++ {
				e.updateBurst(f, 1.0/60.0)
			}
			if len(f.Particles) != 1 {
				t.Fatalf("particle pruned early, %d left", len(f.Particles))
			}
			if !approxEqual(f.Particles[0].Alpha, tt.want) {
				t.Errorf("alpha: got %v, want %v", f.Particles[0].Alpha, tt.want)
			}
		})
	}

	for i := 0; i < 45; i++ {
		e.updateBurst(f, 1.0/60.0)
	}
	if len(f.Particles) != 0 {
		t.Errorf("particle should be pruned once alpha reaches zero, %d left", len(f.Particles))
	}
}
