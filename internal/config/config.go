package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "editor.yaml"

type Config struct {
	AssetDir     string        `yaml:"asset_dir"`
	StartLevel   string        `yaml:"start_level"`
	LevelDirs    []string      `yaml:"level_dirs"`
	WatchLevels  bool          `yaml:"watch_levels"`
	LoadTimeout  time.Duration `yaml:"load_timeout"`
	PickDistance float32       `yaml:"pick_distance"`
	Window       WindowConfig  `yaml:"window"`
	Camera       CameraConfig  `yaml:"camera"`
}

type WindowConfig struct {
	Width     int32  `yaml:"width"`
	Height    int32  `yaml:"height"`
	Title     string `yaml:"title"`
	TargetFPS int32  `yaml:"target_fps"`
}

type CameraConfig struct {
	PanScale    float32 `yaml:"pan_scale"`
	LookSpeed   float32 `yaml:"look_speed"`
	MinDistance float32 `yaml:"min_distance"`
	MaxDistance float32 `yaml:"max_distance"`
}

func Default() Config {
	return Config{
		AssetDir:     "assets",
		StartLevel:   "levels/level_1.json",
		LevelDirs:    []string{"levels"},
		WatchLevels:  true,
		LoadTimeout:  10 * time.Second,
		PickDistance: 1000,
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			Title:     "hovercourse editor",
			TargetFPS: 60,
		},
		Camera: CameraConfig{
			PanScale:    0.05,
			LookSpeed:   0.1,
			MinDistance: 2,
			MaxDistance: 200,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.AssetDir == "":
		return errors.New("asset_dir is empty")
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d", c.Window.Width, c.Window.Height)
	case c.LoadTimeout < 0:
		return fmt.Errorf("negative load_timeout %s", c.LoadTimeout)
	case c.PickDistance <= 0:
		return fmt.Errorf("pick_distance must be positive, got %v", c.PickDistance)
	case c.Camera.MinDistance > c.Camera.MaxDistance:
		return fmt.Errorf("camera min_distance %v exceeds max_distance %v", c.Camera.MinDistance, c.Camera.MaxDistance)
	}
	return nil
}
