package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioManager 背景音乐管理器
// 职责：
//   - 管理场景唯一的循环背景音乐
//   - 从 SettingsManager 读取音量与开关，并在切换时写回
//
// 歌曲加载失败时进入静音模式：ToggleMusic 仍然翻转设置，但不会播放任何声音
type AudioManager struct {
	resourceManager *ResourceManager
	settingsManager *SettingsManager // 可为 nil

	songPath string
	player   *audio.Player // 加载失败时为 nil
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - rm: ResourceManager 实例（用于加载音频文件，可为 nil）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(rm *ResourceManager, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		resourceManager: rm,
		settingsManager: sm,
	}
}

// LoadSong 加载背景音乐
//
// 返回：
//   - bool: 是否加载成功（失败时保持静音模式）
func (am *AudioManager) LoadSong(path string) bool {
	am.songPath = path
	if am.resourceManager == nil || path == "" {
		return false
	}

	if cached := am.resourceManager.GetAudioPlayer(path); cached != nil {
		am.player = cached
		return true
	}

	player, err := am.resourceManager.LoadAudio(path)
	if err != nil {
		log.Printf("[AudioManager] Warning: 背景音乐不可用，进入静音模式: %v", err)
		am.player = nil
		return false
	}
	am.player = player
	return true
}

// HasSong 是否已加载背景音乐
func (am *AudioManager) HasSong() bool {
	return am.player != nil
}

// MusicEnabled 返回设置中的音乐开关（无设置管理器时视为开启）
func (am *AudioManager) MusicEnabled() bool {
	if am.settingsManager == nil {
		return true
	}
	return am.settingsManager.GetSettings().MusicEnabled
}

// PlayMusic 按设置播放背景音乐
//
// 返回：
//   - bool: 是否正在播放
func (am *AudioManager) PlayMusic() bool {
	if am.player == nil || !am.MusicEnabled() {
		return false
	}
	if am.player.IsPlaying() {
		return true
	}

	volume := am.musicVolume()
	am.player.SetVolume(volume)
	am.player.Play()
	log.Printf("[AudioManager] Playing music: %s (volume: %.2f)", am.songPath, volume)
	return true
}

// StopMusic 暂停背景音乐（保留播放位置）
func (am *AudioManager) StopMusic() {
	if am.player != nil {
		am.player.Pause()
	}
}

// IsPlaying 背景音乐是否正在播放
func (am *AudioManager) IsPlaying() bool {
	return am.player != nil && am.player.IsPlaying()
}

// ToggleMusic 切换音乐开关并返回新的开关状态
func (am *AudioManager) ToggleMusic() bool {
	enabled := !am.MusicEnabled()
	if am.settingsManager != nil {
		am.settingsManager.SetMusicEnabled(enabled)
	}

	if enabled {
		am.PlayMusic()
	} else {
		am.StopMusic()
	}
	log.Printf("[AudioManager] Music enabled: %v", enabled)
	return enabled
}

// SetMusicVolume 设置音乐音量并立即应用
func (am *AudioManager) SetMusicVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetMusicVolume(volume)
	}
	if am.player != nil {
		am.player.SetVolume(am.musicVolume())
	}
}

func (am *AudioManager) musicVolume() float64 {
	if am.settingsManager == nil {
		return DefaultSettings().MusicVolume
	}
	return am.settingsManager.GetSettings().MusicVolume
}
