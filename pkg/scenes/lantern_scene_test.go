package scenes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/krathong/pkg/config"
	"github.com/decker502/krathong/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
)

// newTestServices 创建不依赖磁盘资源与音频设备的协作者
func newTestServices(t *testing.T) *game.Services {
	t.Helper()

	cfg := config.DefaultSceneConfig()
	cfg.Seed = 42
	dir := t.TempDir()
	missing := func(name string) string { return filepath.Join(dir, "missing", name) }
	cfg.Assets.Lanterns = []string{missing("kt1.png"), missing("kt2.png")}
	cfg.Assets.Vehicle = missing("tuktuk.png")
	cfg.Assets.Logo = missing("logo.png")
	cfg.Assets.Song = missing("song.mp3")
	cfg.Assets.Font = missing("font.ttf")
	cfg.Export.FileName = filepath.Join(dir, "krathong_wishes.csv")

	journal, err := game.NewWishJournal(nil)
	if err != nil {
		t.Fatalf("NewWishJournal(nil) error: %v", err)
	}
	rm := game.NewResourceManager(nil)

	return &game.Services{
		Config:       cfg,
		SceneManager: game.NewSceneManager(),
		Resources:    rm,
		Audio:        game.NewAudioManager(rm, nil),
		Journal:      journal,
	}
}

// TestLanternSceneLaunchWish 放灯、空愿望提示与计数
func TestLanternSceneLaunchWish(t *testing.T) {
	svc := newTestServices(t)
	scene := NewLanternScene(svc, SceneAssets{})
	ui := svc.Config.UI

	tests := []struct {
		name        string
		wish        string
		wantOK      bool
		wantToast   string
		wantSession int
	}{
		{"空愿望", "", false, ui.ToastEmpty, 0},
		{"只有空白", "   ", false, ui.ToastEmpty, 0},
		{"泰文愿望", "ขอให้มีความสุข", true, ui.ToastSent, 1},
		{"英文愿望", "good health", true, ui.ToastSent, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene.WishInput().Open()
			if got := scene.LaunchWish(tt.wish); got != tt.wantOK {
				t.Fatalf("LaunchWish(%q): got %v, want %v", tt.wish, got, tt.wantOK)
			}
			if scene.Toast().Message != tt.wantToast {
				t.Errorf("toast: got %q, want %q", scene.Toast().Message, tt.wantToast)
			}
			if svc.Journal.SessionCount() != tt.wantSession {
				t.Errorf("SessionCount: got %d, want %d", svc.Journal.SessionCount(), tt.wantSession)
			}
			// 成功后输入框关闭，失败时保持打开
			if scene.WishInput().Input().IsFocused == tt.wantOK {
				t.Errorf("input focused: got %v, want %v", scene.WishInput().Input().IsFocused, !tt.wantOK)
			}
		})
	}

	if got, want := scene.CounterLabel(), fmt.Sprintf(ui.CounterFormat, 2); got != want {
		t.Errorf("CounterLabel: got %q, want %q", got, want)
	}
	if scene.Simulation().Lanterns.ActiveCount() != 2 {
		t.Errorf("ActiveCount: got %d, want 2", scene.Simulation().Lanterns.ActiveCount())
	}
}

// TestLanternSceneOverflow 超出容量时替换最早的愿望
func TestLanternSceneOverflow(t *testing.T) {
	svc := newTestServices(t)
	scene := NewLanternScene(svc, SceneAssets{})
	capacity := scene.Simulation().Lanterns.Capacity()

	for i := 0; i <= capacity; i++ {
		if !scene.LaunchWish(fmt.Sprintf("wish %d", i)) {
			t.Fatalf("LaunchWish %d failed", i)
		}
	}

	if got := scene.Simulation().Lanterns.ActiveCount(); got != capacity {
		t.Errorf("ActiveCount: got %d, want %d", got, capacity)
	}
	for _, w := range scene.Simulation().Lanterns.ActiveWishes() {
		if w == "wish 0" {
			t.Error("the oldest wish should have been evicted")
		}
	}
	if svc.Journal.Count() != capacity+1 {
		t.Errorf("journal keeps every wish: got %d, want %d", svc.Journal.Count(), capacity+1)
	}
}

// TestLanternSceneReset 重置清空场景与会话计数，但保留愿望记录
func TestLanternSceneReset(t *testing.T) {
	svc := newTestServices(t)
	scene := NewLanternScene(svc, SceneAssets{})
	scene.LaunchWish("a")
	scene.SpawnFireworkAt(100, 100)
	scene.WishInput().Open()

	scene.ResetScene()

	if scene.Simulation().Lanterns.ActiveCount() != 0 {
		t.Error("lanterns should be idle after reset")
	}
	if scene.Simulation().Fireworks.LiveCount() != 0 {
		t.Error("fireworks should be cleared after reset")
	}
	if scene.WishInput().Input().IsFocused {
		t.Error("input should be closed after reset")
	}
	if svc.Journal.SessionCount() != 0 || svc.Journal.Count() != 1 {
		t.Errorf("journal after reset: session=%d count=%d, want 0/1", svc.Journal.SessionCount(), svc.Journal.Count())
	}
}

// TestLanternSceneExport 导出结果提示
func TestLanternSceneExport(t *testing.T) {
	svc := newTestServices(t)
	scene := NewLanternScene(svc, SceneAssets{})
	ui := svc.Config.UI
	path := svc.Config.Export.FileName

	if err := scene.ExportWishes(); !errors.Is(err, game.ErrNoWishes) {
		t.Fatalf("empty export: got %v, want ErrNoWishes", err)
	}
	if scene.Toast().Message != ui.ToastNoWishes {
		t.Errorf("toast: got %q, want %q", scene.Toast().Message, ui.ToastNoWishes)
	}

	scene.LaunchWish("ขอให้รวย")
	if err := scene.ExportWishes(); err != nil {
		t.Fatalf("ExportWishes() error: %v", err)
	}
	if want := fmt.Sprintf(ui.ToastExported, path); scene.Toast().Message != want {
		t.Errorf("toast: got %q, want %q", scene.Toast().Message, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}

// TestLanternSceneFireworkTap 只有水面以上的点击会放烟花
func TestLanternSceneFireworkTap(t *testing.T) {
	svc := newTestServices(t)
	scene := NewLanternScene(svc, SceneAssets{})
	water := scene.Simulation().Geometry.WaterLine

	if scene.HandleTap(200, water+1) {
		t.Error("tap below the water line should not spawn a firework")
	}
	if !scene.HandleTap(200, water/2) {
		t.Error("tap above the water line should spawn a firework")
	}
	if scene.Simulation().Fireworks.LiveCount() != 1 {
		t.Errorf("LiveCount: got %d, want 1", scene.Simulation().Fireworks.LiveCount())
	}
}

// TestLanternSceneResizeAndDraw 尺寸变化转发给模拟；缺失资源时绘制不崩溃
func TestLanternSceneResizeAndDraw(t *testing.T) {
	svc := newTestServices(t)
	svc.Verbose = true
	scene := NewLanternScene(svc, SceneAssets{})

	scene.Resize(960, 540)
	if g := scene.Simulation().Geometry; g.SurfaceWidth != 960 || g.SurfaceHeight != 540 {
		t.Errorf("geometry after resize: %vx%v", g.SurfaceWidth, g.SurfaceHeight)
	}

	scene.LaunchWish("draw me")
	scene.SpawnFireworkAt(100, 100)
	for i := 0; i < 120; i++ {
		scene.Update(1.0 / 60.0)
	}
	scene.Draw(ebiten.NewImage(960, 540))

	if !scene.SaveOnExit() {
		t.Error("SaveOnExit in degraded mode should succeed")
	}
	if scene.ToggleMusic() {
		t.Error("ToggleMusic with default settings should turn music off")
	}
}
