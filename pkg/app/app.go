// Package app 提供应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/decker502/krathong/pkg/config"
	"github.com/decker502/krathong/pkg/game"
	"github.com/decker502/krathong/pkg/scenes"
	"github.com/decker502/krathong/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出与调试信息
	Verbose bool
	// ConfigPath 场景配置文件路径，为空时使用内嵌的 data/scene.yaml
	ConfigPath string
	// SkipSplash 跳过启动画面，同步加载资源后直接进入场景
	SkipSplash bool
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneConfig  *config.SceneConfig
	sceneManager *game.SceneManager
	services     *game.Services
	clock        *game.FrameClock
	verbose      bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = config.DefaultSceneConfigPath
	}
	sceneConfig, err := config.LoadSceneConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("场景配置加载失败: %w", err)
	}

	verbose := cfg.Verbose || sceneConfig.Logging.Verbose
	if !verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}
	log.Printf("[Config] 加载场景配置: %s", configPath)

	services := newServices(sceneConfig, verbose)
	if services.Settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	if cfg.SkipSplash || !sceneConfig.Splash.Enabled {
		log.Printf("[App] SkipSplash enabled, loading assets synchronously")
		assets := scenes.LoadSceneAssets(services)
		services.SceneManager.SwitchTo(scenes.NewLanternScene(services, assets))
		services.Audio.PlayMusic()
	} else {
		services.SceneManager.SwitchTo(scenes.NewLoadingScene(services))
	}

	return &App{
		sceneConfig:  sceneConfig,
		sceneManager: services.SceneManager,
		services:     services,
		clock:        game.NewFrameClock(sceneConfig.Frame.MaxDelta),
		verbose:      verbose,
	}, nil
}

// newServices 创建场景共享的协作者
// 存储不可用时进入降级模式（仅内存），不会阻止启动
func newServices(sceneConfig *config.SceneConfig, verbose bool) *game.Services {
	if err := utils.EnsureStorageDir("wishes", "settings"); err != nil {
		log.Printf("[App] Warning: %v", err)
	}

	gdataManager, err := gdata.Open(gdata.Config{AppName: sceneConfig.Storage.AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata 初始化失败，愿望与设置仅保存在内存中: %v", err)
		gdataManager = nil
	}

	settingsManager, _ := game.NewSettingsManager(gdataManager)
	journal, _ := game.NewWishJournal(gdataManager)

	audioContext := audio.NewContext(48000)
	resourceManager := game.NewResourceManager(audioContext)
	audioManager := game.NewAudioManager(resourceManager, settingsManager)
	log.Printf("[App] AudioManager initialized")

	return &game.Services{
		Config:       sceneConfig,
		SceneManager: game.NewSceneManager(),
		Resources:    resourceManager,
		Settings:     settingsManager,
		Audio:        audioManager,
		Journal:      journal,
		Verbose:      verbose,
	}
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次），dt 由帧时钟按真实时间计算
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			w, h := a.sceneConfig.Window.Width, a.sceneConfig.Window.Height
			ebiten.SetWindowSize(w, h)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", w, h)
			a.pendingWindowSizeReset = false
		}
	}

	if ebiten.IsWindowBeingClosed() {
		a.SaveOnExit()
		log.Printf("[App] Window closed, state saved")
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	a.sceneManager.Update(a.clock.Tick(time.Now()))
	return nil
}

// toggleFullscreen F11 切换全屏，并记录到设置
func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	if fullscreen {
		ebiten.SetFullscreen(true)
	} else {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	}

	if a.services.Settings != nil {
		a.services.Settings.SetFullscreen(fullscreen)
	}
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 绘制表面跟随窗口尺寸，并把变化通知当前场景
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < 1 {
		outsideWidth = 1
	}
	if outsideHeight < 1 {
		outsideHeight = 1
	}
	a.sceneManager.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// SceneConfig 返回已加载的场景配置
func (a *App) SceneConfig() *config.SceneConfig {
	return a.sceneConfig
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// SaveOnExit 保存设置与愿望记录
func (a *App) SaveOnExit() bool {
	return a.services.SaveAll()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
