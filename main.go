package main

import (
	"errors"
	"flag"
	"log"

	"github.com/decker502/krathong/pkg/app"
	"github.com/decker502/krathong/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志与调试信息")
	configPath := flag.String("config", "", "场景配置文件路径（默认使用内嵌的 data/scene.yaml）")
	skipSplash := flag.Bool("skip-splash", false, "跳过启动画面")
	assetsRoot := flag.String("assets", "", "assets/ 所在目录（默认当前目录）")
	flag.Parse()

	embedded.Init(dataFS, *assetsRoot)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		SkipSplash: *skipSplash,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	window := gameApp.SceneConfig().Window
	ebiten.SetWindowSize(window.Width, window.Height)
	ebiten.SetWindowTitle(window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(gameApp); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
