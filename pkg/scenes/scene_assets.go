package scenes

import (
	"fmt"
	"log"

	"github.com/decker502/krathong/pkg/game"
	"github.com/decker502/krathong/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// SceneAssets 水灯场景使用的资源
// 每一项都可能为 nil，渲染系统会使用占位图形或跳过文字
type SceneAssets struct {
	Images      systems.SceneImages
	Font        *text.GoTextFace // 界面文字
	CaptionFont *text.GoTextFace // 水灯上的愿望
}

// loadTask 一项资源加载任务
type loadTask struct {
	name string
	run  func()
}

// newLoadTasks 按配置生成加载任务列表，任务结果写入 assets
// 字体排在最前，启动画面可以尽早用上场景字体
func newLoadTasks(svc *game.Services, assets *SceneAssets) []loadTask {
	cfg := svc.Config
	rm := svc.Resources

	tasks := []loadTask{
		{name: "font", run: func() {
			if rm == nil {
				return
			}
			assets.Font = rm.LoadFontOrDefault(cfg.Assets.Font, cfg.UI.FontSize)
			assets.CaptionFont = rm.LoadFontOrDefault(cfg.Assets.Font, cfg.UI.CaptionFontSize)
		}},
	}

	assets.Images.Lanterns = make([]*ebiten.Image, len(cfg.Assets.Lanterns))
	for i, path := range cfg.Assets.Lanterns {
		tasks = append(tasks, loadTask{name: fmt.Sprintf("lantern %d", i+1), run: func() {
			if rm != nil {
				assets.Images.Lanterns[i] = rm.LoadOptionalImage(path)
			}
		}})
	}

	tasks = append(tasks,
		loadTask{name: "vehicle", run: func() {
			if rm != nil {
				assets.Images.Vehicle = rm.LoadOptionalImage(cfg.Assets.Vehicle)
			}
		}},
		loadTask{name: "logo", run: func() {
			if rm != nil {
				assets.Images.Logo = rm.LoadOptionalImage(cfg.Assets.Logo)
			}
		}},
		loadTask{name: "song", run: func() {
			if svc.Audio != nil {
				svc.Audio.LoadSong(cfg.Assets.Song)
			}
		}},
	)
	return tasks
}

// LoadSceneAssets 同步加载全部资源（跳过启动画面时使用）
func LoadSceneAssets(svc *game.Services) SceneAssets {
	var assets SceneAssets
	for _, task := range newLoadTasks(svc, &assets) {
		task.run()
	}
	log.Printf("[Scenes] 资源加载完成: %d 张水灯图片", countLoaded(assets.Images.Lanterns))
	return assets
}

func countLoaded(images []*ebiten.Image) int {
	n := 0
	for _, img := range images {
		if img != nil {
			n++
		}
	}
	return n
}
