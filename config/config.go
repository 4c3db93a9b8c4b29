package config

import (
	"cockpitview/log"
	"cockpitview/ui/scale"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	ConfigFileName = "config.json"

	// ConfigDirEnv overrides the configuration directory.
	ConfigDirEnv = "COCKPIT_CONFIG_DIR"

	defaultSettingsKey = "cockpit-settings"
)

// GetConfigDir returns the path to the application's configuration directory
func GetConfigDir() (string, error) {
	if dir := GetEnv(ConfigDirEnv, ""); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config home directory: %w", err)
	}
	return filepath.Join(homeDir, ".cockpitview"), nil
}

// Config represents the application configuration. Cockpit display settings
// are kept separately in a Store; this file holds the engine's constants.
type Config struct {
	// CropTolerance is how far the crop-tolerant scale may exceed the contain scale.
	CropTolerance float64 `json:"crop_tolerance"`
	// ResizeDelayMs is the trailing-edge delay (ms) before a burst of resize events is recomputed.
	ResizeDelayMs int `json:"resize_delay_ms"`
	// CellWidthPx and CellHeightPx convert terminal cells into physical pixels for the preview.
	CellWidthPx  int `json:"cell_width_px"`
	CellHeightPx int `json:"cell_height_px"`
	// SettingsKey is the key under which cockpit settings are persisted.
	SettingsKey string `json:"settings_key"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CropTolerance: scale.DefaultTolerance,
		ResizeDelayMs: 16,
		CellWidthPx:   8,
		CellHeightPx:  16,
		SettingsKey:   defaultSettingsKey,
	}
}

// ResizeDelay returns ResizeDelayMs as a duration.
func (c *Config) ResizeDelay() time.Duration {
	return time.Duration(c.ResizeDelayMs) * time.Millisecond
}

// normalize replaces nonsensical values with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.CropTolerance < 0 {
		log.WarningLog.Printf("crop_tolerance %v is negative, using %v", c.CropTolerance, def.CropTolerance)
		c.CropTolerance = def.CropTolerance
	}
	if c.ResizeDelayMs < 0 {
		c.ResizeDelayMs = def.ResizeDelayMs
	}
	if c.CellWidthPx <= 0 {
		c.CellWidthPx = def.CellWidthPx
	}
	if c.CellHeightPx <= 0 {
		c.CellHeightPx = def.CellHeightPx
	}
	if c.SettingsKey == "" {
		c.SettingsKey = def.SettingsKey
	}
}

func LoadConfig() *Config {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultConfig()
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Create and save default config if file doesn't exist
			defaultCfg := DefaultConfig()
			if saveErr := saveConfig(defaultCfg); saveErr != nil {
				log.WarningLog.Printf("failed to save default config: %v", saveErr)
			}
			return defaultCfg
		}

		log.WarningLog.Printf("failed to get config file: %v", err)
		return DefaultConfig()
	}

	// Start from defaults so fields missing from older files keep sane values.
	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		preview := string(data)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		log.ErrorLog.Printf("failed to parse config file at %s: %v\nConfig content preview: %s", configPath, err, preview)

		// Backup the corrupted config before falling back to defaults
		backupPath := configPath + ".corrupt." + time.Now().Format("20060102-150405")
		if backupErr := os.WriteFile(backupPath, data, 0644); backupErr == nil {
			log.InfoLog.Printf("Backed up corrupted config to: %s", backupPath)
		}

		return DefaultConfig()
	}

	config.normalize()
	return config
}

// saveConfig saves the configuration to disk
func saveConfig(config *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveConfig exports the saveConfig function for use by other packages
func SaveConfig(config *Config) error {
	return saveConfig(config)
}
