package game

import (
	"log"

	"github.com/decker502/krathong/pkg/config"
)

// Services 场景共享的协作者
//
// 由 app 包在启动时创建一次，传给各个场景。
// 除 Config 与 SceneManager 外的字段都可以为 nil，场景需按降级模式处理。
type Services struct {
	Config       *config.SceneConfig
	SceneManager *SceneManager
	Resources    *ResourceManager
	Settings     *SettingsManager
	Audio        *AudioManager
	Journal      *WishJournal

	// Verbose 为 true 时场景绘制调试信息
	Verbose bool
}

// SaveAll 尽力保存设置与愿望记录
//
// 返回：
//   - bool: 全部保存成功（或无需保存）时为 true
func (s *Services) SaveAll() bool {
	ok := true
	if s.Settings != nil {
		if err := s.Settings.Save(); err != nil {
			log.Printf("[Services] Warning: %v", err)
			ok = false
		}
	}
	if s.Journal != nil {
		if err := s.Journal.Save(); err != nil {
			log.Printf("[Services] Warning: %v", err)
			ok = false
		}
	}
	return ok
}
