package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the tracker.
type Config struct {
	ListenAddr       string
	DatabasePath     string
	CompetitorsPath  string
	AnalysisWindow   time.Duration
	PerplexityAPIKey string
	PerplexityModel  string
	GeminiAPIKey     string
	GeminiModel      string
	LLMTemperature   float64
	LLMMaxTokens     int

	Competitors []CompetitorConfig
}

// CompetitorConfig describes one tracked competitor from the YAML file.
type CompetitorConfig struct {
	Name            string   `yaml:"name"`
	Website         string   `yaml:"website"`
	Keywords        []string `yaml:"keywords"`
	BusinessContext string   `yaml:"business_context"`
}

type competitorsFile struct {
	Competitors []CompetitorConfig `yaml:"competitors"`
}

// FromEnv creates a configuration instance sourced from environment
// variables, loading the competitors YAML file when present.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:       getEnv("TRACKER_LISTEN_ADDR", ":8080"),
		DatabasePath:     getEnv("TRACKER_DB_PATH", "competitors.db"),
		CompetitorsPath:  getEnv("TRACKER_COMPETITORS_FILE", "competitors.yaml"),
		AnalysisWindow:   7 * 24 * time.Hour,
		PerplexityAPIKey: getEnv("PERPLEXITY_API_KEY", ""),
		PerplexityModel:  getEnv("PERPLEXITY_MODEL", "llama-3.1-sonar-large-128k-online"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		LLMTemperature:   0.4,
		LLMMaxTokens:     1500,
	}

	if window := os.Getenv("TRACKER_WINDOW_DAYS"); window != "" {
		var days int
		if _, err := fmt.Sscanf(window, "%d", &days); err != nil {
			return Config{}, fmt.Errorf("parse TRACKER_WINDOW_DAYS: %w", err)
		}
		cfg.AnalysisWindow = time.Duration(days) * 24 * time.Hour
	}

	if temp := os.Getenv("TRACKER_LLM_TEMPERATURE"); temp != "" {
		if _, err := fmt.Sscanf(temp, "%f", &cfg.LLMTemperature); err != nil {
			return Config{}, fmt.Errorf("parse TRACKER_LLM_TEMPERATURE: %w", err)
		}
	}

	if tokens := os.Getenv("TRACKER_LLM_MAX_TOKENS"); tokens != "" {
		if _, err := fmt.Sscanf(tokens, "%d", &cfg.LLMMaxTokens); err != nil {
			return Config{}, fmt.Errorf("parse TRACKER_LLM_MAX_TOKENS: %w", err)
		}
	}

	competitors, err := loadCompetitors(cfg.CompetitorsPath)
	if err != nil {
		return Config{}, err
	}
	cfg.Competitors = competitors

	return cfg, nil
}

// loadCompetitors reads the tracked-competitor list. A missing file is not
// an error; competitors can also live in the database.
func loadCompetitors(path string) ([]CompetitorConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var file competitorsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var out []CompetitorConfig
	for _, c := range file.Competitors {
		if c.Name == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
