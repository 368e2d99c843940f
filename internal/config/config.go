package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Classifier backends
const (
	BackendArtifact = "artifact"
	BackendRemote   = "remote"
	BackendGemini   = "gemini"
)

// Feedback store backends
const (
	StoreFirestore = "firestore"
	StoreSQLite    = "sqlite"
)

// DefaultAppID tags feedback records when no tenant is configured.
const DefaultAppID = "default-app-id"

// LogConfig controls logger level and encoding
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// Config holds application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Mode string `yaml:"mode"` // gin mode: debug, release, test
	} `yaml:"server"`

	Log LogConfig `yaml:"log"`

	Classifier struct {
		Backend      string `yaml:"backend"`
		ArtifactPath string `yaml:"artifact_path"`

		Remote struct {
			URL     string        `yaml:"url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"remote"`

		Gemini struct {
			APIKey            string        `yaml:"api_key"`
			ModelName         string        `yaml:"model_name"`
			MaxRetries        int           `yaml:"max_retries"`
			RetryDelay        time.Duration `yaml:"retry_delay"`
			RequestsPerMinute int           `yaml:"requests_per_minute"`
		} `yaml:"gemini"`
	} `yaml:"classifier"`

	Feedback struct {
		Backend string `yaml:"backend"`
		AppID   string `yaml:"app_id"`

		Firestore struct {
			CredentialsJSON string `yaml:"credentials_json"`
			CredentialsFile string `yaml:"credentials_file"`
			Collection      string `yaml:"collection"`
		} `yaml:"firestore"`

		SQLite struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
	} `yaml:"feedback"`
}

// LoadConfig loads configuration from a YAML file. A missing file is not an
// error: defaults and environment overrides are applied on their own.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults + env only
	case err != nil:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	default:
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	config.expandEnv()
	config.applyEnvOverrides()
	config.setDefaults()

	return config, nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "5000"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}

	if c.Classifier.Backend == "" {
		c.Classifier.Backend = BackendArtifact
	}
	if c.Classifier.ArtifactPath == "" {
		c.Classifier.ArtifactPath = "models/spam_pipeline.json"
	}
	if c.Classifier.Remote.Timeout == 0 {
		c.Classifier.Remote.Timeout = 30 * time.Second
	}
	if c.Classifier.Gemini.ModelName == "" {
		c.Classifier.Gemini.ModelName = "gemini-1.5-flash"
	}
	if c.Classifier.Gemini.MaxRetries <= 0 {
		c.Classifier.Gemini.MaxRetries = 3
	}
	if c.Classifier.Gemini.RetryDelay <= 0 {
		c.Classifier.Gemini.RetryDelay = 2 * time.Second
	}
	if c.Classifier.Gemini.RequestsPerMinute == 0 {
		c.Classifier.Gemini.RequestsPerMinute = 15
	}

	if c.Feedback.Backend == "" {
		c.Feedback.Backend = StoreFirestore
	}
	if c.Feedback.AppID == "" {
		c.Feedback.AppID = DefaultAppID
	}
	if c.Feedback.Firestore.Collection == "" {
		c.Feedback.Firestore.Collection = "spam_feedback"
	}
	if c.Feedback.SQLite.Path == "" {
		c.Feedback.SQLite.Path = "./data/feedback.db"
	}
}

// expandEnv resolves ${VAR} references in secrets and paths
func (c *Config) expandEnv() {
	c.Classifier.ArtifactPath = os.ExpandEnv(c.Classifier.ArtifactPath)
	c.Classifier.Remote.URL = os.ExpandEnv(c.Classifier.Remote.URL)
	c.Classifier.Gemini.APIKey = os.ExpandEnv(c.Classifier.Gemini.APIKey)
	c.Feedback.AppID = os.ExpandEnv(c.Feedback.AppID)
	c.Feedback.Firestore.CredentialsJSON = os.ExpandEnv(c.Feedback.Firestore.CredentialsJSON)
	c.Feedback.Firestore.CredentialsFile = os.ExpandEnv(c.Feedback.Firestore.CredentialsFile)
	c.Feedback.SQLite.Path = os.ExpandEnv(c.Feedback.SQLite.Path)
}

func (c *Config) applyEnvOverrides() {
	overrides := map[string]*string{
		"PORT":            &c.Server.Port,
		"LOG_LEVEL":       &c.Log.Level,
		"MODEL_PATH":      &c.Classifier.ArtifactPath,
		"GEMINI_API_KEY":  &c.Classifier.Gemini.APIKey,
		"APP_ID":          &c.Feedback.AppID,
		"FIREBASE_CONFIG": &c.Feedback.Firestore.CredentialsJSON,
	}
	for key, field := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*field = v
		}
	}
}
