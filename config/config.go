// Package config handles engine configuration loading and management.
package config

// Config holds all engine settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
}

// RendererConfig holds GPU rendering settings.
type RendererConfig struct {
	VSync bool `yaml:"vsync"`
	// MSAASamples is the multisample count for the color target (1 or 4).
	MSAASamples int `yaml:"msaa_samples"`
	// UseMultiDrawIndirectCount bounds the indirect draw loop with the
	// GPU-written draw count buffer when the adapter supports it. When
	// false the renderer encodes the full fixed-capacity command range and
	// relies on zeroed commands being no-ops.
	UseMultiDrawIndirectCount bool `yaml:"use_multi_draw_indirect_count"`
	// ForceFallbackAdapter requests a software adapter, useful for CI.
	ForceFallbackAdapter bool `yaml:"force_fallback_adapter"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "demogine",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
		},
		Renderer: RendererConfig{
			VSync:                     true,
			MSAASamples:               4,
			UseMultiDrawIndirectCount: false,
			ForceFallbackAdapter:      false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
