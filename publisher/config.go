package publisher

import (
	"encoding/json"
	"errors"
	"os"
)

// Config holds the WordPress credentials plus the optional collaborator
// settings the rest of the pipeline needs.
type Config struct {
	WordpressURL  string     `json:"wordpress_url"`
	WordpressUser string     `json:"wordpress_user"`
	WordpressPass string     `json:"wordpress_pass"`
	TelegramToken string     `json:"telegram_token,omitempty"`
	LLM           *LLMConfig `json:"llm,omitempty"`
	ScratchDir    string     `json:"scratch_dir,omitempty"`
	// AutoPublish skips the operator's featured-image choice and
	// publishes immediately with the first illustration featured.
	AutoPublish     bool `json:"auto_publish,omitempty"`
	ConcurrentBatch bool `json:"concurrent_batch,omitempty"`
}

// LLMConfig configures the model collaborator.
type LLMConfig struct {
	Provider   string `json:"provider,omitempty"`
	Model      string `json:"model,omitempty"`
	ImageModel string `json:"image_model,omitempty"`
	APIKey     string `json:"api_key,omitempty"`
	BaseURL    string `json:"base_url,omitempty"`
}

// LoadConfig reads JSON config from disk.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.WordpressURL == "" || cfg.WordpressUser == "" || cfg.WordpressPass == "" {
		return Config{}, errors.New("config must include wordpress_url, wordpress_user and wordpress_pass")
	}
	return cfg, nil
}
