package scenes

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// TestLoadingSceneFlow 逐帧加载、淡出后切换到水灯场景
func TestLoadingSceneFlow(t *testing.T) {
	svc := newTestServices(t)
	loading := NewLoadingScene(svc)
	svc.SceneManager.SwitchTo(loading)
	svc.SceneManager.Resize(800, 600)

	total := len(loading.tasks)
	for i := 1; i <= total; i++ {
		svc.SceneManager.Update(1.0 / 60.0)
		want := float64(i) / float64(total)
		if loading.Progress() != want {
			t.Fatalf("progress after %d frames: got %v, want %v", i, loading.Progress(), want)
		}
	}
	if loading.target != nil {
		t.Fatal("lantern scene should be created on the frame after loading completes")
	}

	svc.SceneManager.Update(1.0 / 60.0)
	if loading.target == nil {
		t.Fatal("lantern scene was not created")
	}
	if g := loading.target.Simulation().Geometry; g.SurfaceWidth != 800 {
		t.Errorf("lantern scene should receive the current size, got width %v", g.SurfaceWidth)
	}

	screen := ebiten.NewImage(800, 600)
	prev := loading.Alpha()
	for i := 0; i < 30 && svc.SceneManager.GetCurrentScene() == loading; i++ {
		svc.SceneManager.Update(0.1)
		svc.SceneManager.Draw(screen)
		if loading.Alpha() > prev {
			t.Fatalf("splash alpha increased: %v -> %v", prev, loading.Alpha())
		}
		prev = loading.Alpha()
	}

	if _, ok := svc.SceneManager.GetCurrentScene().(*LanternScene); !ok {
		t.Fatalf("current scene: got %T, want *LanternScene", svc.SceneManager.GetCurrentScene())
	}
	if loading.assets.Font == nil {
		t.Error("missing font file should fall back to the built-in font")
	}
	for i, img := range loading.assets.Images.Lanterns {
		if img != nil {
			t.Errorf("lantern image %d should be nil for a missing file", i)
		}
	}
}

// TestLoadingSceneStepsTargetDuringFade 淡出期间水灯场景继续运动
func TestLoadingSceneStepsTargetDuringFade(t *testing.T) {
	svc := newTestServices(t)
	svc.Config.Splash.FadeDuration = 1
	loading := NewLoadingScene(svc)
	svc.SceneManager.SwitchTo(loading)

	for i := 0; i <= len(loading.tasks); i++ {
		svc.SceneManager.Update(1.0 / 60.0)
	}
	if loading.target == nil {
		t.Fatal("lantern scene was not created")
	}
	sim := loading.target.Simulation()
	startX := sim.Vehicle.Vehicle().X

	for i := 0; i < 10; i++ {
		svc.SceneManager.Update(0.02)
	}
	if svc.SceneManager.GetCurrentScene() != loading {
		t.Fatalf("fade should still be running, current scene %T", svc.SceneManager.GetCurrentScene())
	}
	if sim.Elapsed <= 0 {
		t.Errorf("simulation elapsed during fade: got %v, want > 0", sim.Elapsed)
	}
	if sim.Vehicle.Vehicle().X <= startX {
		t.Errorf("vehicle should move during fade: start %v, now %v", startX, sim.Vehicle.Vehicle().X)
	}
}

// TestLoadingSceneNoFade 淡出时长为 0 时直接切换
func TestLoadingSceneNoFade(t *testing.T) {
	svc := newTestServices(t)
	svc.Config.Splash.FadeDuration = 0
	loading := NewLoadingScene(svc)
	svc.SceneManager.SwitchTo(loading)

	for i := 0; i <= len(loading.tasks); i++ {
		svc.SceneManager.Update(1.0 / 60.0)
	}
	if _, ok := svc.SceneManager.GetCurrentScene().(*LanternScene); !ok {
		t.Fatalf("current scene: got %T, want *LanternScene", svc.SceneManager.GetCurrentScene())
	}
}

// TestLoadSceneAssets 同步加载在资源缺失时返回空图片与内置字体
func TestLoadSceneAssets(t *testing.T) {
	svc := newTestServices(t)
	assets := LoadSceneAssets(svc)

	if len(assets.Images.Lanterns) != len(svc.Config.Assets.Lanterns) {
		t.Errorf("lantern slots: got %d, want %d", len(assets.Images.Lanterns), len(svc.Config.Assets.Lanterns))
	}
	if assets.Images.Vehicle != nil || assets.Images.Logo != nil {
		t.Error("missing images should be nil")
	}
	if assets.Font == nil || assets.CaptionFont == nil {
		t.Error("fonts should fall back to the built-in font")
	}
	if svc.Audio.HasSong() {
		t.Error("missing song should leave audio silent")
	}
}
