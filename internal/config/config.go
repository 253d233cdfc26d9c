package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all application configuration
type Config struct {
	// Overlay settings
	Overlay OverlayConfig `json:"overlay"`

	// Hotkeys maps a trigger name to a binding such as "Alt+Ctrl+Shift+L".
	// Missing entries fall back to the built-in bindings.
	Hotkeys map[string]string `json:"hotkeys"`

	// Debug switches logging to the development encoder
	Debug bool `json:"debug"`
}

// OverlayConfig holds overlay window settings
type OverlayConfig struct {
	X               int    `json:"x"`
	Y               int    `json:"y"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	FollowMode      string `json:"follow_mode"`  // "None", "ActiveWindow", "MouseCenter", "MouseFrameBound"
	CaptureMode     string `json:"capture_mode"` // "SafeMode2" ... "SafeMode60", "FastMode"
	FollowSubWindow bool   `json:"follow_sub_window"`
}

// Service manages configuration persistence
type Service struct {
	config   *Config
	filePath string
}

// New creates a new config service
func New() (*Service, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return NewAt(filepath.Join(homeDir, ".liveframe"))
}

// NewAt creates a config service backed by config.json in dir
func NewAt(dir string) (*Service, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(dir, "config.json")

	service := &Service{
		filePath: configPath,
		config:   getDefaultConfig(),
	}

	// Load existing config if it exists, otherwise create a default config file
	if _, err := os.Stat(configPath); err == nil {
		if err := service.Load(); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		if err := service.Save(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	return service, nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Overlay: OverlayConfig{
			X:           100,
			Y:           100,
			Width:       640,
			Height:      360,
			FollowMode:  "None",
			CaptureMode: "SafeMode2",
		},
		Hotkeys: map[string]string{},
	}
}

// Get returns the current configuration
func (s *Service) Get() *Config {
	return s.config
}

// Load loads configuration from file
func (s *Service) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, s.config)
}

// Save saves configuration to file
func (s *Service) Save() error {
	data, err := json.MarshalIndent(s.config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.filePath, data, 0644)
}

// Path returns the full path to the configuration file
func (s *Service) Path() string {
	return s.filePath
}

// UpdateOverlay updates overlay configuration
func (s *Service) UpdateOverlay(overlay OverlayConfig) error {
	s.config.Overlay = overlay
	return s.Save()
}
