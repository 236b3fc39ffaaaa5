package game

import (
	"path/filepath"
	"testing"
)

// TestAudioManagerSilentMode 歌曲缺失时静音，但开关仍然可以切换
func TestAudioManagerSilentMode(t *testing.T) {
	sm, _ := NewSettingsManager(nil)
	am := NewAudioManager(NewResourceManager(testAudioContext), sm)

	if am.LoadSong(filepath.Join(t.TempDir(), "loykrathong.mp3")) {
		t.Fatal("LoadSong should fail for a missing file")
	}
	if am.HasSong() {
		t.Error("HasSong: got true, want false")
	}
	if am.PlayMusic() {
		t.Error("PlayMusic in silent mode should return false")
	}

	tests := []struct {
		name string
		want bool
	}{
		{"第一次切换关闭", false},
		{"第二次切换打开", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := am.ToggleMusic(); got != tt.want {
				t.Errorf("ToggleMusic: got %v, want %v", got, tt.want)
			}
			if sm.GetSettings().MusicEnabled != tt.want {
				t.Errorf("settings MusicEnabled: got %v, want %v", sm.GetSettings().MusicEnabled, tt.want)
			}
			if am.IsPlaying() {
				t.Error("silent mode should never be playing")
			}
		})
	}
}

// TestAudioManagerReusesCachedSong 资源管理器已缓存的歌曲不会重新读取
func TestAudioManagerReusesCachedSong(t *testing.T) {
	rm := NewResourceManager(testAudioContext)
	path := "assets/audio/loykrathong.mp3"
	player := testAudioContext.NewPlayerFromBytes(make([]byte, 4096))
	rm.audioCache[path] = player

	am := NewAudioManager(rm, nil)
	if !am.LoadSong(path) {
		t.Fatal("LoadSong should succeed for a cached song")
	}
	if !am.HasSong() || am.player != player {
		t.Error("AudioManager should use the cached player")
	}
	am.StopMusic()
}

// TestAudioManagerNilCollaborators 没有资源与设置管理器时不崩溃
func TestAudioManagerNilCollaborators(t *testing.T) {
	am := NewAudioManager(nil, nil)
	if am.LoadSong("assets/audio/song.mp3") {
		t.Error("LoadSong without resource manager should fail")
	}
	if !am.MusicEnabled() {
		t.Error("MusicEnabled without settings should default to true")
	}
	am.SetMusicVolume(0.2)
	am.StopMusic()
	if got := am.ToggleMusic(); !got {
		t.Errorf("ToggleMusic without settings: got %v, want true", got)
	}
}
