// Package embedded 提供内嵌配置与磁盘资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// 内嵌的 data/ 目录必须声明在项目根目录（embed.go）。
// 图片、音频、字体等 assets/ 资源不内嵌，运行时从磁盘按需读取；
// 缺失的资源由调用方降级为占位图形。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	dataFS      fs.FS
	assetsFS    fs.FS
	initialized bool
)

// Init 初始化资源文件系统
//
// 参数：
//   - data: 内嵌的 data/ 文件系统（根目录下包含 "data/..." 路径）
//   - assetsRoot: assets/ 所在的磁盘目录，为空时使用当前工作目录
func Init(data fs.FS, assetsRoot string) {
	if assetsRoot == "" {
		assetsRoot = "."
	}
	dataFS = data
	assetsFS = os.DirFS(assetsRoot)
	initialized = true
}

// InitFS 使用给定的文件系统初始化（移动端把 assets/ 一并内嵌时使用）
//
// 参数：
//   - data: 包含 "data/..." 路径的文件系统
//   - assets: 包含 "assets/..." 路径的文件系统
func InitFS(data, assets fs.FS) {
	dataFS = data
	assetsFS = assets
	initialized = true
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径分隔符并移除 "./" 前缀（fs.FS 只接受正斜杠路径）
func normalize(path string) string {
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, "./")
}

// pick 根据路径前缀选择文件系统
// 路径必须以 "assets/" 或 "data/" 开头
func pick(path string) (fs.FS, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	switch {
	case strings.HasPrefix(path, "data/"):
		if dataFS == nil {
			return nil, fmt.Errorf("data filesystem not available")
		}
		return dataFS, nil
	case strings.HasPrefix(path, "assets/"):
		return assetsFS, nil
	}
	return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'assets/' or 'data/')", path)
}

// Open 根据路径前缀选择正确的文件系统并打开文件
func Open(path string) (fs.File, error) {
	path = normalize(path)
	fsys, err := pick(path)
	if err != nil {
		return nil, err
	}
	return fsys.Open(path)
}

// ReadFile 根据路径前缀选择正确的文件系统并读取文件内容
func ReadFile(path string) ([]byte, error) {
	path = normalize(path)
	fsys, err := pick(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(fsys, path)
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob 匹配文件
// 路径模式必须以 "assets/" 或 "data/" 开头
func Glob(pattern string) ([]string, error) {
	pattern = normalize(pattern)
	fsys, err := pick(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(fsys, pattern)
}
