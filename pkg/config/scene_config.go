package config

import (
	"fmt"
	"os"

	"github.com/decker502/krathong/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultSceneConfigPath 内嵌场景配置文件路径
const DefaultSceneConfigPath = "data/scene.yaml"

// SceneConfig 场景配置（data/scene.yaml）
//
// 所有长度单位均为"逻辑像素"（以 1920×1080 舞台为基准），
// 运行时乘以 ViewportGeometry.ScaleFactor 得到屏幕像素。
type SceneConfig struct {
	Viewport  ViewportConfig  `yaml:"viewport"`
	Lanterns  LanternConfig   `yaml:"lanterns"`
	Vehicle   VehicleConfig   `yaml:"vehicle"`
	Fireworks FireworkConfig  `yaml:"fireworks"`
	Frame     FrameConfig     `yaml:"frame"`
	Assets    AssetConfig     `yaml:"assets"`
	UI        UIConfig        `yaml:"ui"`
	Storage   StorageConfig   `yaml:"storage"`
	Window    WindowConfig    `yaml:"window"`
	Water     WaterConfig     `yaml:"water"`
	Anchors   []AnchorConfig  `yaml:"anchors"`
	Logging   LoggingConfig   `yaml:"logging"`
	Splash    SplashConfig    `yaml:"splash"`
	Export    ExportConfig    `yaml:"export"`
	Seed      int64           `yaml:"seed"` // 随机种子，0 表示使用当前时间
}

// ViewportConfig 视口映射参数
type ViewportConfig struct {
	LogicalWidth   float64 `yaml:"logicalWidth"`   // 逻辑舞台宽度（背景图原始尺寸）
	LogicalHeight  float64 `yaml:"logicalHeight"`  // 逻辑舞台高度
	WaterLineRatio float64 `yaml:"waterLineRatio"` // 水面线占表面高度的比例
	RoadMode       string  `yaml:"roadMode"`       // "ratio" 或 "offset"
	RoadLineRatio  float64 `yaml:"roadLineRatio"`  // ratio 模式：道路距舞台底部的比例
	RoadOffset     float64 `yaml:"roadOffset"`     // offset 模式：道路距表面底部的像素
}

// 道路线计算模式
const (
	RoadModeRatio  = "ratio"
	RoadModeOffset = "offset"
)

// LanternConfig 水灯（กระทง）池参数
type LanternConfig struct {
	Capacity       int     `yaml:"capacity"`       // 池容量（固定）
	LaneCount      int     `yaml:"laneCount"`      // 水道数量
	LaneGap        float64 `yaml:"laneGap"`        // 相邻水道的垂直间距
	Spacing        float64 `yaml:"spacing"`        // 初始错开间距
	Width          float64 `yaml:"width"`          // 水灯宽度
	Height         float64 `yaml:"height"`         // 水灯高度
	Speed          float64 `yaml:"speed"`          // 水平速度（逻辑像素/秒）
	SpeedVariation float64 `yaml:"speedVariation"` // 速度随机浮动比例（±）
	BobAmplitude   float64 `yaml:"bobAmplitude"`   // 上下浮动幅度
	BobFrequency   float64 `yaml:"bobFrequency"`   // 上下浮动角频率（弧度/秒）
	CaptionLimit   int     `yaml:"captionLimit"`   // 愿望显示的最大字符数
}

// VehicleConfig 嘟嘟车参数
type VehicleConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Speed       float64 `yaml:"speed"`       // 逻辑像素/秒
	RoadOffset  float64 `yaml:"roadOffset"`  // 相对道路线的垂直修正
	StartOffset float64 `yaml:"startOffset"` // 起始位置 = -(width + startOffset)
}

// FireworkConfig 烟花发射器参数
type FireworkConfig struct {
	Interval        float64 `yaml:"interval"`        // 周期发射间隔（秒）
	MaxLive         int     `yaml:"maxLive"`         // 同时存活烟花上限
	BurstSize       int     `yaml:"burstSize"`       // 每次爆炸粒子数
	AscentRate      float64 `yaml:"ascentRate"`      // 上升速度（逻辑像素/秒）
	MinSpeed        float64 `yaml:"minSpeed"`        // 粒子初速度下限
	MaxSpeed        float64 `yaml:"maxSpeed"`        // 粒子初速度上限
	Gravity         float64 `yaml:"gravity"`         // 重力加速度（逻辑像素/秒²）
	AlphaDecay      float64 `yaml:"alphaDecay"`      // 透明度衰减（每秒）
	ParticleMinSize float64 `yaml:"particleMinSize"` // 粒子半径下限
	ParticleMaxSize float64 `yaml:"particleMaxSize"` // 粒子半径上限
	Decorative      bool    `yaml:"decorative"`      // 周期批次中是否包含徽标烟花
	DecorativeLife  float64 `yaml:"decorativeLife"`  // 徽标烟花淡出时长（秒）
	DecorativeSize  float64 `yaml:"decorativeSize"`  // 徽标尺寸
}

// FrameConfig 帧调度参数
type FrameConfig struct {
	MaxDelta float64 `yaml:"maxDelta"` // dt 上限（秒）
}

// AssetConfig 资源路径（均为可选，缺失时使用占位图形）
type AssetConfig struct {
	Lanterns []string `yaml:"lanterns"`
	Vehicle  string   `yaml:"vehicle"`
	Logo     string   `yaml:"logo"`
	Song     string   `yaml:"song"`
	Font     string   `yaml:"font"`
}

// UIConfig 界面文本与字号
type UIConfig struct {
	FontSize        float64 `yaml:"fontSize"`
	CaptionFontSize float64 `yaml:"captionFontSize"`
	MaxWishLength   int     `yaml:"maxWishLength"`
	ToastDuration   float64 `yaml:"toastDuration"`
	ToastSent       string  `yaml:"toastSent"`
	ToastEmpty      string  `yaml:"toastEmpty"`
	ToastNoWishes   string  `yaml:"toastNoWishes"`
	ToastExported   string  `yaml:"toastExported"`
	CounterFormat   string  `yaml:"counterFormat"`
	Placeholder     string  `yaml:"placeholder"`
	HintDesktop     string  `yaml:"hintDesktop"` // 桌面端操作提示
	HintMobile      string  `yaml:"hintMobile"`  // 移动端操作提示
}

// StorageConfig 持久化参数
type StorageConfig struct {
	AppName string `yaml:"appName"` // gdata 应用名
}

// WindowConfig 窗口参数
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// WaterConfig 水波纹参数
type WaterConfig struct {
	Lines      int     `yaml:"lines"`      // 波纹线条数
	LineGap    float64 `yaml:"lineGap"`    // 线条间距
	WaveHeight float64 `yaml:"waveHeight"` // 振幅
	WaveLength float64 `yaml:"waveLength"` // 波长系数
	WaveSpeed  float64 `yaml:"waveSpeed"`  // 相位速度
}

// AnchorConfig 周期烟花锚点（相对舞台的比例坐标）
type AnchorConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// LoggingConfig 日志参数
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// SplashConfig 启动画面参数
type SplashConfig struct {
	Enabled      bool    `yaml:"enabled"`
	FadeDuration float64 `yaml:"fadeDuration"`
	Title        string  `yaml:"title"`
}

// ExportConfig CSV 导出参数
type ExportConfig struct {
	FileName string `yaml:"fileName"`
}

// DefaultSceneConfig 返回默认场景配置
func DefaultSceneConfig() *SceneConfig {
	return &SceneConfig{
		Viewport: ViewportConfig{
			LogicalWidth:   1920,
			LogicalHeight:  1080,
			WaterLineRatio: 0.85,
			RoadMode:       RoadModeRatio,
			RoadLineRatio:  0.18,
			RoadOffset:     200,
		},
		Lanterns: LanternConfig{
			Capacity:       5,
			LaneCount:      5,
			LaneGap:        14,
			Spacing:        300,
			Width:          80,
			Height:         80,
			Speed:          7,
			SpeedVariation: 0.15,
			BobAmplitude:   5,
			BobFrequency:   1.6,
			CaptionLimit:   10,
		},
		Vehicle: VehicleConfig{
			Width:       150,
			Height:      100,
			Speed:       40,
			RoadOffset:  10,
			StartOffset: 0,
		},
		Fireworks: FireworkConfig{
			Interval:        5,
			MaxLive:         12,
			BurstSize:       50,
			AscentRate:      420,
			MinSpeed:        40,
			MaxSpeed:        160,
			Gravity:         180,
			AlphaDecay:      0.6, // 60 TPS 下每帧 0.01
			ParticleMinSize: 1,
			ParticleMaxSize: 3,
			Decorative:      true,
			DecorativeLife:  100.0 / 60.0,
			DecorativeSize:  100,
		},
		Frame: FrameConfig{
			MaxDelta: 0.033,
		},
		Assets: AssetConfig{
			Lanterns: []string{
				"assets/images/kt1.png",
				"assets/images/kt2.png",
				"assets/images/kt3.png",
				"assets/images/kt4.png",
				"assets/images/kt5.png",
			},
			Vehicle: "assets/images/tuktuk.png",
			Logo:    "assets/images/logo.png",
			Song:    "assets/audio/song.mp3",
			Font:    "assets/fonts/Chonburi-Regular.ttf",
		},
		UI: UIConfig{
			FontSize:        20,
			CaptionFontSize: 14,
			MaxWishLength:   80,
			ToastDuration:   3,
			ToastSent:       "คำอธิษฐานของคุณถูกส่งไปแล้ว",
			ToastEmpty:      "กรุณาพิมพ์คำอธิษฐานก่อนปล่อยกระทง",
			ToastNoWishes:   "ยังไม่มีคำอธิษฐานที่ถูกบันทึก",
			ToastExported:   "บันทึกไฟล์ %s แล้ว",
			CounterFormat:   "ลอยแล้ว %d ใบ",
			Placeholder:     "พิมพ์คำอธิษฐาน...",
			HintDesktop:     "Enter: ลอยกระทง   M: เพลง   E: บันทึก CSV   R: เริ่มใหม่",
			HintMobile:      "แตะด้านล่างเพื่อพิมพ์คำอธิษฐาน",
		},
		Storage: StorageConfig{
			AppName: "loy_krathong",
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Loy Krathong",
		},
		Water: WaterConfig{
			Lines:      5,
			LineGap:    5,
			WaveHeight: 5,
			WaveLength: 30,
			WaveSpeed:  0.5,
		},
		Anchors: []AnchorConfig{
			{X: 0.2, Y: 0.2},
			{X: 0.5, Y: 0.1},
			{X: 0.8, Y: 0.2},
		},
		Splash: SplashConfig{
			Enabled:      true,
			FadeDuration: 1.0,
			Title:        "ลอยกระทง",
		},
		Export: ExportConfig{
			FileName: "krathong_wishes.csv",
		},
	}
}

// LoadSceneConfig 加载场景配置
//
// 参数：
//   - path: 配置文件路径。以 "data/" 开头时优先从内嵌资源读取，
//     否则从磁盘读取。
//
// 返回：
//   - *SceneConfig: 以默认值为底、YAML 覆盖后的配置
//   - error: 读取、解析或校验失败
func LoadSceneConfig(path string) (*SceneConfig, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config %s: %w", path, err)
	}
	return ParseSceneConfig(data)
}

// ParseSceneConfig 解析 YAML 数据为场景配置（未出现的字段保持默认值）
func ParseSceneConfig(data []byte) (*SceneConfig, error) {
	cfg := DefaultSceneConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}
	return cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	if embedded.IsInitialized() && embedded.Exists(path) {
		return embedded.ReadFile(path)
	}
	return os.ReadFile(path)
}

// Validate 验证配置的有效性
func (c *SceneConfig) Validate() error {
	v := c.Viewport
	if v.LogicalWidth <= 0 || v.LogicalHeight <= 0 {
		return fmt.Errorf("viewport logical size must be positive, got %.0fx%.0f", v.LogicalWidth, v.LogicalHeight)
	}
	if v.WaterLineRatio <= 0 || v.WaterLineRatio > 1 {
		return fmt.Errorf("viewport.waterLineRatio must be in (0, 1], got %.3f", v.WaterLineRatio)
	}
	switch v.RoadMode {
	case RoadModeRatio:
		if v.RoadLineRatio < 0 || v.RoadLineRatio > 1 {
			return fmt.Errorf("viewport.roadLineRatio must be in [0, 1], got %.3f", v.RoadLineRatio)
		}
	case RoadModeOffset:
		if v.RoadOffset < 0 {
			return fmt.Errorf("viewport.roadOffset must be >= 0, got %.1f", v.RoadOffset)
		}
	default:
		return fmt.Errorf("viewport.roadMode must be %q or %q, got %q", RoadModeRatio, RoadModeOffset, v.RoadMode)
	}

	l := c.Lanterns
	if l.Capacity <= 0 {
		return fmt.Errorf("lanterns.capacity must be > 0, got %d", l.Capacity)
	}
	if l.LaneCount <= 0 {
		return fmt.Errorf("lanterns.laneCount must be > 0, got %d", l.LaneCount)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("lanterns size must be positive")
	}
	if l.Speed < 0 {
		return fmt.Errorf("lanterns.speed must be >= 0, got %.1f", l.Speed)
	}
	if l.SpeedVariation < 0 || l.SpeedVariation >= 1 {
		return fmt.Errorf("lanterns.speedVariation must be in [0, 1), got %.2f", l.SpeedVariation)
	}
	if l.CaptionLimit <= 0 {
		return fmt.Errorf("lanterns.captionLimit must be > 0, got %d", l.CaptionLimit)
	}

	if c.Vehicle.Width <= 0 || c.Vehicle.Height <= 0 {
		return fmt.Errorf("vehicle size must be positive")
	}

	f := c.Fireworks
	if f.Interval <= 0 {
		return fmt.Errorf("fireworks.interval must be > 0, got %.2f", f.Interval)
	}
	if f.MaxLive <= 0 {
		return fmt.Errorf("fireworks.maxLive must be > 0, got %d", f.MaxLive)
	}
	if f.BurstSize <= 0 {
		return fmt.Errorf("fireworks.burstSize must be > 0, got %d", f.BurstSize)
	}
	if f.AscentRate <= 0 {
		return fmt.Errorf("fireworks.ascentRate must be > 0, got %.1f", f.AscentRate)
	}
	if f.MinSpeed < 0 || f.MaxSpeed < f.MinSpeed {
		return fmt.Errorf("fireworks speed range invalid: [%.1f, %.1f]", f.MinSpeed, f.MaxSpeed)
	}
	if f.ParticleMinSize < 0 || f.ParticleMaxSize < f.ParticleMinSize {
		return fmt.Errorf("fireworks particle size range invalid: [%.1f, %.1f]", f.ParticleMinSize, f.ParticleMaxSize)
	}
	if f.AlphaDecay <= 0 {
		return fmt.Errorf("fireworks.alphaDecay must be > 0, got %.3f", f.AlphaDecay)
	}
	if f.DecorativeLife <= 0 {
		return fmt.Errorf("fireworks.decorativeLife must be > 0, got %.3f", f.DecorativeLife)
	}

	if c.Frame.MaxDelta <= 0 {
		return fmt.Errorf("frame.maxDelta must be > 0, got %.3f", c.Frame.MaxDelta)
	}

	for i, a := range c.Anchors {
		if a.X < 0 || a.X > 1 || a.Y < 0 || a.Y > 1 {
			return fmt.Errorf("anchors[%d] must be within [0, 1], got (%.2f, %.2f)", i, a.X, a.Y)
		}
	}

	return nil
}
