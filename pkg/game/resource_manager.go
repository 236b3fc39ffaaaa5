package game

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/decker502/krathong/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontKey is the font cache key of the built-in Go Regular face.
const DefaultFontKey = "<goregular>"

// ResourceManager is responsible for loading and caching scene assets
// (lantern, vehicle and logo images, the background song and fonts).
//
// Every asset is optional. Callers that can live without an asset use the
// LoadOptional* helpers, which log the failure and return nil so the renderer
// can draw a vector placeholder instead.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. All loading happens on the game
// loop goroutine (the loading scene loads one asset per frame).
//
// Usage:
//
//	audioContext := audio.NewContext(48000)
//	rm := NewResourceManager(audioContext)
//	img := rm.LoadOptionalImage("assets/images/tuktuk.png")
//	if img == nil {
//	    // draw a placeholder rectangle
//	}
type ResourceManager struct {
	imageCache    map[string]*ebiten.Image    // Cache for loaded images: path -> Image
	audioCache    map[string]*audio.Player    // Cache for loaded audio players: path -> Player
	audioContext  *audio.Context              // Global audio context, may be nil (audio disabled)
	fontFaceCache map[string]*text.GoTextFace // Cache for Ebitengine v2 text faces

	defaultFontSource *text.GoTextFaceSource // Lazily parsed built-in fallback font
}

// NewResourceManager creates and initializes a new ResourceManager instance.
//
// Parameters:
//   - audioContext: The global audio context. May be nil, in which case
//     LoadAudio always fails and music stays silent.
func NewResourceManager(audioContext *audio.Context) *ResourceManager {
	return &ResourceManager{
		imageCache:    make(map[string]*ebiten.Image),
		audioCache:    make(map[string]*audio.Player),
		audioContext:  audioContext,
		fontFaceCache: make(map[string]*text.GoTextFace),
	}
}

// readResource reads a resource through the embedded package when it knows
// the path, falling back to the file system otherwise.
func readResource(path string) ([]byte, error) {
	if embedded.IsInitialized() && embedded.Exists(path) {
		return embedded.ReadFile(path)
	}
	return os.ReadFile(path)
}

// LoadImage loads an image file from the specified path and caches it for future use.
// Supported formats: PNG and JPEG.
//
// Returns:
//   - A pointer to the loaded ebiten.Image.
//   - An error if the file cannot be read or decoded.
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[path]; exists {
		return cachedImage, nil
	}

	data, err := readResource(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[path] = ebitenImg
	return ebitenImg, nil
}

// LoadOptionalImage loads an image and returns nil instead of an error.
// An empty path also returns nil.
func (rm *ResourceManager) LoadOptionalImage(path string) *ebiten.Image {
	if path == "" {
		return nil
	}
	img, err := rm.LoadImage(path)
	if err != nil {
		log.Printf("[ResourceManager] 图片不可用，使用占位图形: %v", err)
		return nil
	}
	return img
}

// GetImage retrieves a previously loaded image from the cache, or nil.
func (rm *ResourceManager) GetImage(path string) *ebiten.Image {
	return rm.imageCache[path]
}

// LoadAudio loads an audio file and wraps it in an infinite loop, which is
// what the background song needs. Supported formats: MP3 (.mp3) and OGG Vorbis (.ogg).
//
// Returns:
//   - A pointer to the audio player (ready to play, but not started).
//   - An error if the audio context is missing, or the file cannot be read,
//     decoded, or the format is unsupported.
func (rm *ResourceManager) LoadAudio(path string) (*audio.Player, error) {
	if cachedPlayer := rm.GetAudioPlayer(path); cachedPlayer != nil {
		return cachedPlayer, nil
	}
	if rm.audioContext == nil {
		return nil, fmt.Errorf("audio context not available for %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".mp3" && ext != ".ogg" {
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg)", ext)
	}

	// Keep the whole file in memory so the stream can seek without an open handle
	audioData, err := readResource(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", path, err)
	}
	reader := bytes.NewReader(audioData)

	var stream interface {
		io.ReadSeeker
		Length() int64
	}
	switch ext {
	case ".mp3":
		decodedStream, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio %s: %w", path, err)
		}
		stream = decodedStream
	case ".ogg":
		decodedStream, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio %s: %w", path, err)
		}
		stream = decodedStream
	}

	loopStream := audio.NewInfiniteLoop(stream, stream.Length())
	player, err := rm.audioContext.NewPlayer(loopStream)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", path, err)
	}

	rm.audioCache[path] = player
	return player, nil
}

// GetAudioPlayer retrieves a previously loaded audio player from the cache, or nil.
func (rm *ResourceManager) GetAudioPlayer(path string) *audio.Player {
	return rm.audioCache[path]
}

// LoadFont loads a TrueType/OpenType font and creates a text face with the given size.
// The face is cached under a key combining path and size.
func (rm *ResourceManager) LoadFont(path string, size float64) (*text.GoTextFace, error) {
	if cachedFace := rm.GetFont(path, size); cachedFace != nil {
		return cachedFace, nil
	}

	fontData, err := readResource(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
	}

	source, err := text.NewGoTextFaceSource(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %s: %w", path, err)
	}

	face := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[fontCacheKey(path, size)] = face
	return face, nil
}

// LoadDefaultFont returns a face of the built-in Go Regular font.
// It is cached under DefaultFontKey, so GetFont(DefaultFontKey, size) finds it.
func (rm *ResourceManager) LoadDefaultFont(size float64) (*text.GoTextFace, error) {
	if cachedFace := rm.GetFont(DefaultFontKey, size); cachedFace != nil {
		return cachedFace, nil
	}

	if rm.defaultFontSource == nil {
		source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			return nil, fmt.Errorf("failed to parse built-in font: %w", err)
		}
		rm.defaultFontSource = source
	}

	face := &text.GoTextFace{
		Source:    rm.defaultFontSource,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[fontCacheKey(DefaultFontKey, size)] = face
	return face, nil
}

// LoadFontOrDefault loads the font at path, falling back to the built-in font.
// Returns nil only when both fail.
func (rm *ResourceManager) LoadFontOrDefault(path string, size float64) *text.GoTextFace {
	if path != "" {
		face, err := rm.LoadFont(path, size)
		if err == nil {
			return face
		}
		log.Printf("[ResourceManager] 字体不可用，使用内置字体: %v", err)
	}

	face, err := rm.LoadDefaultFont(size)
	if err != nil {
		log.Printf("[ResourceManager] Warning: %v", err)
		return nil
	}
	return face
}

// GetFont retrieves a previously loaded font face from the cache, or nil.
func (rm *ResourceManager) GetFont(path string, size float64) *text.GoTextFace {
	return rm.fontFaceCache[fontCacheKey(path, size)]
}

func fontCacheKey(path string, size float64) string {
	return fmt.Sprintf("%s:%.1f", path, size)
}
