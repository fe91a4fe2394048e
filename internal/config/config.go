package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the desktop and HTTP front ends.
type Config struct {
	DashboardAddr string
	MaxUploadMB   int
	HistogramBins int
	AssetsHost    string
	ReportDir     string // default folder of the desktop save dialog
}

// MaxUploadBytes is the request body limit of the dashboard.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Load reads .env files (when present) and then the environment. Variables
// already set in the environment win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
		log.Println("No .env file found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DashboardAddr: getEnvOrDefault("DRONE_DASHBOARD_ADDR", ":8080"),
		AssetsHost:    getEnvOrDefault("DRONE_ECHARTS_ASSETS_HOST", ""),
		ReportDir:     getEnvOrDefault("DRONE_REPORT_DIR", os.TempDir()),
	}

	var err error
	if cfg.MaxUploadMB, err = getEnvPositiveInt("DRONE_MAX_UPLOAD_MB", 32); err != nil {
		return nil, err
	}
	if cfg.HistogramBins, err = getEnvPositiveInt("DRONE_HISTOGRAM_BINS", 20); err != nil {
		return nil, err
	}
	if cfg.AssetsHost != "" && !strings.HasSuffix(cfg.AssetsHost, "/") {
		cfg.AssetsHost += "/"
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvPositiveInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got '%s'", key, value)
	}
	return n, nil
}
