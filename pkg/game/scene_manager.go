package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneManager manages which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time,
// and forwards surface size changes to scenes implementing Resizable.
type SceneManager struct {
	currentScene Scene

	width, height float64 // 最近一次通知的表面尺寸，0 表示尚未知
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SwitchTo changes the active scene to the provided scene.
// 如果已知表面尺寸，新场景会立即收到一次 Resize。
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
	if scene == nil {
		return
	}
	log.Printf("[SceneManager] 切换场景: %T", scene)
	if r, ok := scene.(Resizable); ok && sm.width > 0 && sm.height > 0 {
		r.Resize(sm.width, sm.height)
	}
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Resize 记录新的表面尺寸并转发给当前场景
// 尺寸未变化时不转发
func (sm *SceneManager) Resize(width, height float64) {
	if width == sm.width && height == sm.height {
		return
	}
	sm.width, sm.height = width, height
	if r, ok := sm.currentScene.(Resizable); ok {
		r.Resize(width, height)
	}
}

// Size 返回最近一次通知的表面尺寸
func (sm *SceneManager) Size() (float64, float64) {
	return sm.width, sm.height
}

// SaveOnExit 如果当前场景实现了 Saveable，则保存其状态
func (sm *SceneManager) SaveOnExit() bool {
	if s, ok := sm.currentScene.(Saveable); ok {
		return s.SaveOnExit()
	}
	return true
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
