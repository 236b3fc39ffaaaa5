// Package main validates a scene config file and reports which optional
// assets it references are missing (missing assets fall back to placeholders).
//
// Usage:
//
//	go run ./cmd/validate_config [path/to/scene.yaml]
//
// Without an argument the config at data/scene.yaml is validated.
// Exit status is 1 when the config fails to parse or validate.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/decker502/krathong/pkg/config"
	"github.com/decker502/krathong/pkg/embedded"
)

func main() {
	assetsRoot := flag.String("assets", "", "assets/ 所在目录（默认当前目录）")
	flag.Parse()

	path := config.DefaultSceneConfigPath
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	embedded.Init(os.DirFS("."), *assetsRoot)

	cfg, err := config.LoadSceneConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ %s\n", path)
	fmt.Printf("   viewport: %.0fx%.0f, water %.2f, road %s\n",
		cfg.Viewport.LogicalWidth, cfg.Viewport.LogicalHeight, cfg.Viewport.WaterLineRatio, cfg.Viewport.RoadMode)
	fmt.Printf("   lanterns: %d in %d lanes, fireworks: every %.1fs, max %d live\n",
		cfg.Lanterns.Capacity, cfg.Lanterns.LaneCount, cfg.Fireworks.Interval, cfg.Fireworks.MaxLive)

	missing := 0
	for _, asset := range assetPaths(cfg.Assets) {
		if asset == "" {
			continue
		}
		if !embedded.Exists(asset) {
			fmt.Printf("⚠️  missing asset (placeholder will be used): %s\n", asset)
			missing++
		}
	}
	if missing == 0 {
		fmt.Println("   all assets present")
	}
}

func assetPaths(a config.AssetConfig) []string {
	paths := append([]string{}, a.Lanterns...)
	return append(paths, a.Vehicle, a.Logo, a.Song, a.Font)
}
