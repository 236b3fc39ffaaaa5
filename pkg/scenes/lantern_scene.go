package scenes

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/krathong/pkg/components"
	"github.com/decker502/krathong/pkg/game"
	"github.com/decker502/krathong/pkg/systems"
	"github.com/decker502/krathong/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// LanternScene 水灯主场景
//
// 持有模拟状态与各渲染/交互系统，把键盘、鼠标和触摸输入翻译为场景操作：
//   - Enter 打开输入框，再次 Enter 放出水灯，Esc 取消
//   - R 重置场景，M 切换音乐，E 导出愿望 CSV
//   - 点击或触摸水面以上区域，在该处放一朵烟花
type LanternScene struct {
	services *game.Services

	sim       *systems.Simulation
	render    *systems.RenderSystem
	hud       *systems.HUDRenderSystem
	wishInput *systems.WishInputSystem
	toast     *systems.ToastSystem
}

// NewLanternScene 创建水灯场景
//
// 参数：
//   - svc: 共享协作者（Config 必须非 nil）
//   - assets: 已加载的资源，缺失项使用占位图形
func NewLanternScene(svc *game.Services, assets SceneAssets) *LanternScene {
	cfg := svc.Config
	width := float64(cfg.Window.Width)
	height := float64(cfg.Window.Height)

	s := &LanternScene{
		services: svc,
		sim:      systems.NewSimulation(cfg, width, height, nil),
		render:   systems.NewRenderSystem(cfg, assets.Images, assets.CaptionFont),
		hud:      systems.NewHUDRenderSystem(assets.Font),
		wishInput: systems.NewWishInputSystem(&components.WishInputComponent{
			MaxLength:   cfg.UI.MaxWishLength,
			Placeholder: cfg.UI.Placeholder,
		}),
		toast: systems.NewToastSystem(),
	}
	return s
}

// Simulation 返回模拟状态
func (s *LanternScene) Simulation() *systems.Simulation {
	return s.sim
}

// Toast 返回当前提示消息
func (s *LanternScene) Toast() *components.ToastComponent {
	return s.toast.Toast()
}

// WishInput 返回愿望输入框系统
func (s *LanternScene) WishInput() *systems.WishInputSystem {
	return s.wishInput
}

// Update 处理输入并推进模拟
func (s *LanternScene) Update(deltaTime float64) {
	s.handleInput(deltaTime)
	s.toast.Update(deltaTime)
	s.sim.Step(deltaTime)
}

func (s *LanternScene) handleInput(deltaTime float64) {
	if s.wishInput.Input().IsFocused {
		switch action, wish := s.wishInput.Update(deltaTime); action {
		case systems.WishInputSubmit:
			s.LaunchWish(wish)
		case systems.WishInputCancel:
			s.wishInput.Close()
		}
		return
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter):
		s.wishInput.Open()
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		s.ResetScene()
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		s.ToggleMusic()
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		s.ExportWishes()
	}

	if clicked, x, y := utils.IsJustTouchedOrClicked(); clicked {
		s.HandleTap(float64(x), float64(y))
	}
}

// HandleTap 处理一次点击或触摸
//
// 移动端点击输入框区域会打开输入框；水面以上的点击放出一朵烟花。
//
// 返回：
//   - bool: 是否产生了动作
func (s *LanternScene) HandleTap(x, y float64) bool {
	if utils.IsMobile() {
		g := s.sim.Geometry
		bx, by, bw, bh := systems.InputBoxRect(g.SurfaceWidth, g.SurfaceHeight)
		if utils.PointInRect(x, y, bx, by, bw, bh) {
			s.wishInput.Open()
			return true
		}
	}
	return s.SpawnFireworkAt(x, y)
}

// SpawnFireworkAt 在水面以上的点放出一朵烟花
func (s *LanternScene) SpawnFireworkAt(x, y float64) bool {
	if y >= s.sim.Geometry.WaterLine {
		return false
	}
	return s.sim.Fireworks.SpawnAt(x, y)
}

// LaunchWish 放出一盏携带愿望的水灯
//
// 空白愿望不会放出水灯，只显示提示并保持输入框打开。
//
// 返回：
//   - bool: 是否成功放出
func (s *LanternScene) LaunchWish(wish string) bool {
	ui := s.services.Config.UI

	handle, ok := s.sim.Launch(wish)
	if !ok {
		s.toast.Show(ui.ToastEmpty, ui.ToastDuration)
		return false
	}

	if handle.Evicted != "" {
		log.Printf("[LanternScene] 水灯池已满，替换最早的愿望: %q", handle.Evicted)
	}
	if s.services.Journal != nil {
		if _, err := s.services.Journal.Record(wish); err != nil {
			log.Printf("[LanternScene] Warning: 愿望记录保存失败: %v", err)
		}
	}

	s.wishInput.Close()
	s.toast.Show(ui.ToastSent, ui.ToastDuration)
	return true
}

// ResetScene 重置水灯、烟花和嘟嘟车，并清零本次会话计数
// 已保存的愿望记录不受影响
func (s *LanternScene) ResetScene() {
	s.sim.Reset()
	s.wishInput.Close()
	s.toast.Show("", 0)
	if s.services.Journal != nil {
		s.services.Journal.ResetSession()
	}
}

// ToggleMusic 切换背景音乐
func (s *LanternScene) ToggleMusic() bool {
	if s.services.Audio == nil {
		return false
	}
	return s.services.Audio.ToggleMusic()
}

// ExportWishes 导出愿望记录为 CSV，并显示结果提示
func (s *LanternScene) ExportWishes() error {
	ui := s.services.Config.UI
	if s.services.Journal == nil {
		s.toast.Show(ui.ToastNoWishes, ui.ToastDuration)
		return game.ErrNoWishes
	}

	path := s.services.Config.Export.FileName
	err := s.services.Journal.ExportCSV(path)
	switch {
	case errors.Is(err, game.ErrNoWishes):
		s.toast.Show(ui.ToastNoWishes, ui.ToastDuration)
	case err != nil:
		log.Printf("[LanternScene] 导出失败: %v", err)
		s.toast.Show(err.Error(), ui.ToastDuration)
	default:
		s.toast.Show(fmt.Sprintf(ui.ToastExported, path), ui.ToastDuration)
	}
	return err
}

// CounterLabel 返回计数器文本
func (s *LanternScene) CounterLabel() string {
	count := 0
	if s.services.Journal != nil {
		count = s.services.Journal.SessionCount()
	}
	return fmt.Sprintf(s.services.Config.UI.CounterFormat, count)
}

// Resize 视口尺寸变化
func (s *LanternScene) Resize(width, height float64) {
	s.sim.Resize(width, height)
}

// SaveOnExit 保存设置与愿望记录
func (s *LanternScene) SaveOnExit() bool {
	return s.services.SaveAll()
}

// Draw 绘制场景与界面层
func (s *LanternScene) Draw(screen *ebiten.Image) {
	s.render.Draw(screen, s.sim)

	ui := s.services.Config.UI
	hint := ui.HintDesktop
	if utils.IsMobile() {
		hint = ui.HintMobile
	}
	if !s.wishInput.Input().IsFocused {
		s.hud.DrawHint(screen, hint)
	}
	s.hud.DrawCounter(screen, s.CounterLabel())
	s.hud.DrawInputBox(screen, s.wishInput.Input())
	s.hud.DrawToast(screen, s.toast.Toast())

	if s.services.Verbose {
		s.drawDebug(screen)
	}
}

func (s *LanternScene) drawDebug(screen *ebiten.Image) {
	g := s.sim.Geometry
	msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nlanterns: %d/%d  fireworks: %d\nsurface: %.0fx%.0f  scale: %.3f",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		s.sim.Lanterns.ActiveCount(), s.sim.Lanterns.Capacity(), s.sim.Fireworks.LiveCount(),
		g.SurfaceWidth, g.SurfaceHeight, g.ScaleFactor)
	ebitenutil.DebugPrintAt(screen, msg, 8, int(g.SurfaceHeight)-56)
}
