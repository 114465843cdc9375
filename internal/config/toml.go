// Package config provides configuration persistence and TOML parsing.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/linux-brat/BClicker/internal/keys"
	"github.com/linux-brat/BClicker/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	CPSPresets     []int          `toml:"cps_presets"`
	SelectedPreset int            `toml:"selected_preset"`
	CustomCPS      int            `toml:"custom_cps_value"`
	UsingCustomCPS bool           `toml:"using_custom_cps"`
	SelectedButton string         `toml:"selected_button"`
	SoundEnabled   bool           `toml:"sound_enabled"`
	ToggleKeybind  keys.Combo     `toml:"toggle_keybind"`
	Statistics     StatisticsFile `toml:"statistics"`
}

// StatisticsFile maps persisted lifetime counters.
type StatisticsFile struct {
	TotalClicks      uint64 `toml:"total_clicks"`
	SessionClicks    uint64 `toml:"session_clicks"`
	TotalSessions    uint64 `toml:"total_sessions"`
	LastSessionStart int64  `toml:"last_session_start"`
	SessionDuration  int64  `toml:"session_duration_secs"`
}

// Default returns the configuration used on first run and as the
// fallback when the file on disk cannot be read.
func Default() FileConfig {
	return FileConfig{
		CPSPresets:     []int{20, 30, 40, 50},
		SelectedPreset: 0,
		CustomCPS:      0, // 0 means no custom rate set
		UsingCustomCPS: false,
		SelectedButton: model.ButtonPrimary.String(),
		SoundEnabled:   true,
		ToggleKeybind:  keys.DefaultCombo(),
	}
}

// Load reads the config at path. A missing or unreadable file yields
// defaults with a logged warning, never an error: startup must not fail
// on a corrupt config.
func Load(path string, logger *slog.Logger) FileConfig {
	if path == "" {
		return Default()
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to stat config, using defaults", "path", path, "err", err)
		}
		return Default()
	}
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		logger.Warn("failed to decode config, using defaults", "path", path, "err", err)
		return Default()
	}
	if err := cfg.normalize(); err != nil {
		logger.Warn("config contains invalid values, using defaults", "path", path, "err", err)
		return Default()
	}
	return cfg
}

// Save writes the config atomically: a temp file in the target directory
// is renamed over the destination, so a crash mid-write leaves the old
// file intact.
func Save(path string, cfg FileConfig) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpName := tmp.Name()
	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

func (c *FileConfig) normalize() error {
	if len(c.CPSPresets) == 0 {
		c.CPSPresets = Default().CPSPresets
	}
	for _, p := range c.CPSPresets {
		if p < model.MinRate || p > model.MaxRate {
			return fmt.Errorf("preset %d out of range [%d, %d]", p, model.MinRate, model.MaxRate)
		}
	}
	if c.SelectedPreset < 0 || c.SelectedPreset >= len(c.CPSPresets) {
		c.SelectedPreset = 0
	}
	// A zero custom rate means none was ever set; only a present value is
	// range-checked.
	if c.CustomCPS == 0 {
		c.UsingCustomCPS = false
	} else if c.CustomCPS < model.MinRate || c.CustomCPS > model.MaxRate {
		return fmt.Errorf("custom rate %d out of range [%d, %d]", c.CustomCPS, model.MinRate, model.MaxRate)
	}
	if _, err := model.ParseTarget(c.SelectedButton); err != nil {
		return err
	}
	if !c.ToggleKeybind.Valid() {
		c.ToggleKeybind = keys.DefaultCombo()
	}
	return nil
}

// RateConfig converts the persisted rate fields into the runtime form.
func (c FileConfig) RateConfig() model.RateConfig {
	presets := make([]int, len(c.CPSPresets))
	copy(presets, c.CPSPresets)
	return model.RateConfig{
		Presets:        presets,
		SelectedPreset: c.SelectedPreset,
		Custom:         c.CustomCPS,
		UsingCustom:    c.UsingCustomCPS,
	}
}

// Target parses the persisted button name. Config is normalized on load,
// so this cannot fail on a loaded config.
func (c FileConfig) Target() model.Target {
	t, err := model.ParseTarget(c.SelectedButton)
	if err != nil {
		return model.ButtonPrimary
	}
	return t
}

// StatisticsModel converts the persisted counters into the runtime form.
func (c FileConfig) StatisticsModel() model.Statistics {
	return model.Statistics{
		TotalClicks:      c.Statistics.TotalClicks,
		SessionClicks:    c.Statistics.SessionClicks,
		TotalSessions:    c.Statistics.TotalSessions,
		LastSessionStart: c.Statistics.LastSessionStart,
		SessionDuration:  uint64(c.Statistics.SessionDuration),
	}
}

// ApplyRuntime copies runtime state back into the persisted form before
// saving.
func (c *FileConfig) ApplyRuntime(rate model.RateConfig, target model.Target, stats model.Statistics) {
	c.CPSPresets = make([]int, len(rate.Presets))
	copy(c.CPSPresets, rate.Presets)
	c.SelectedPreset = rate.SelectedPreset
	c.CustomCPS = rate.Custom
	c.UsingCustomCPS = rate.UsingCustom
	c.SelectedButton = target.String()
	c.Statistics = StatisticsFile{
		TotalClicks:      stats.TotalClicks,
		SessionClicks:    stats.SessionClicks,
		TotalSessions:    stats.TotalSessions,
		LastSessionStart: stats.LastSessionStart,
		SessionDuration:  int64(stats.SessionDuration),
	}
}
