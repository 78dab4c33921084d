package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Mode            string  `mapstructure:"mode"`
	InputPath       string  `mapstructure:"input"`
	DPI             int     `mapstructure:"dpi"`
	CalibrationPath string  `mapstructure:"calibration"`
	CalibrationDir  string  `mapstructure:"calibration_dir"`
	OutputImage     string  `mapstructure:"output"`
	ResultsPath     string  `mapstructure:"results"`
	PointsPath      string  `mapstructure:"points"`
	Lat             float64 `mapstructure:"lat"`
	Lon             float64 `mapstructure:"lon"`
	Threshold       int     `mapstructure:"threshold"`
	Workers         int     `mapstructure:"workers"`
	ClampPolicy     string  `mapstructure:"clamp"`
	TieBreak        string  `mapstructure:"tie_break"`
	MarkerRadius    int     `mapstructure:"marker_radius"`
	MarkerBorder    int     `mapstructure:"marker_border"`
	QRCode          bool    `mapstructure:"qr"`
	ShowStats       bool    `mapstructure:"stats"`
	LogLevel        string  `mapstructure:"log_level"`
	LogFormat       string  `mapstructure:"log_format"`
	BuildVersion    string  `mapstructure:"-"`
}

// Load reads configuration from defaults, an optional YAML file and MOLLMAP_*
// environment variables. overrides (typically explicitly set CLI flags) win
// over everything else.
func Load(path string, overrides map[string]any) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("mode", "locate")
	v.SetDefault("input", "")
	v.SetDefault("dpi", 150)
	v.SetDefault("calibration", "")
	v.SetDefault("calibration_dir", "calibrations")
	v.SetDefault("output", "")
	v.SetDefault("results", "")
	v.SetDefault("points", "")
	v.SetDefault("lat", 0.0)
	v.SetDefault("lon", 0.0)
	v.SetDefault("threshold", 230)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("clamp", "none")
	v.SetDefault("tie_break", "first")
	v.SetDefault("marker_radius", 5)
	v.SetDefault("marker_border", 2)
	v.SetDefault("qr", false)
	v.SetDefault("stats", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	// Config file: explicit path must exist, the implicit one is optional
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("mollmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		_ = v.ReadInConfig() // OK if missing
	}

	// Environment variables: MOLLMAP_TIE_BREAK → tie_break
	v.SetEnvPrefix("MOLLMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	switch c.Mode {
	case "calibrate", "locate":
	default:
		errs = append(errs, fmt.Sprintf("mode must be calibrate or locate, got %q", c.Mode))
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		errs = append(errs, fmt.Sprintf("threshold must be 0-255, got %d", c.Threshold))
	}
	if c.Workers <= 0 {
		errs = append(errs, "workers must be positive")
	}
	if c.DPI <= 0 {
		errs = append(errs, "dpi must be positive")
	}
	if c.MarkerRadius <= 0 {
		errs = append(errs, "marker_radius must be positive")
	}
	if c.MarkerBorder < 0 || c.MarkerBorder > c.MarkerRadius {
		errs = append(errs, fmt.Sprintf("marker_border must be 0-%d, got %d", c.MarkerRadius, c.MarkerBorder))
	}
	if c.PointsPath == "" && (c.Lat < -90 || c.Lat > 90) {
		errs = append(errs, fmt.Sprintf("lat must be -90..90, got %v", c.Lat))
	}
	if c.PointsPath == "" && (c.Lon < -180 || c.Lon > 180) {
		errs = append(errs, fmt.Sprintf("lon must be -180..180, got %v", c.Lon))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
