package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/guardian/secure-contact/internal/history"
	"github.com/guardian/secure-contact/internal/paramstore"
)

const DefaultStage = "DEV"

// Config is built once at process start and treated as immutable for the
// duration of a run.
type Config struct {
	Stage   string
	Profile string // shared credentials profile; empty means instance credentials
	Region  string

	// resolved from Parameter Store
	SecureDropURL  string
	BucketName     string
	WebhookURL     string
	EmailSender    string
	EmailRecipient string

	TableName      string
	DynamoEndpoint string // local endpoint for DEV; empty for AWS stages

	SocksAddr string
	LogDir    string
	BuildDir  string

	Attempts      int
	Backoff       time.Duration
	WindowSeconds int64
	RecentLimit   int
}

// LoadDotEnv loads a .env file when present; absence is not an error.
func LoadDotEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}

// Stage resolves the deployment stage: STAGE env first, then the first line
// of the stage file, then DEV.
func Stage(stageFile string) string {
	if s := strings.TrimSpace(os.Getenv("STAGE")); s != "" {
		return s
	}
	if b, err := os.ReadFile(stageFile); err == nil {
		line, _, _ := strings.Cut(string(b), "\n")
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return DefaultStage
}

// FromEnv builds the environment-derived part of the configuration.
// Parameter Store fields stay empty until LoadParameters runs.
func FromEnv(stage string) Config {
	cfg := Config{
		Stage:         stage,
		Region:        "eu-west-1",
		TableName:     "MonitorHistory-" + stage,
		SocksAddr:     "127.0.0.1:9050",
		LogDir:        "logs",
		BuildDir:      "build",
		Attempts:      5,
		Backoff:       60 * time.Second,
		WindowSeconds: history.DefaultWindowSeconds,
		RecentLimit:   history.DefaultRecentLimit,
	}

	if stage == DefaultStage {
		// DEV runs against developer credentials and a local DynamoDB
		cfg.Profile = "infosec"
		cfg.DynamoEndpoint = "http://localhost:8000"
	}

	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Region = v
	}
	if v := os.Getenv("SOCKS_ADDR"); v != "" {
		cfg.SocksAddr = v
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("BUILD_DIR"); v != "" {
		cfg.BuildDir = v
	}
	if v := os.Getenv("DYNAMO_ENDPOINT"); v != "" {
		cfg.DynamoEndpoint = v
	}
	if v := os.Getenv("RETRY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Attempts = n
		}
	}
	if v := os.Getenv("RETRY_BACKOFF_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			cfg.Backoff = time.Duration(ms) * time.Millisecond
		}
	}
	return cfg
}

// LoadParameters resolves the Parameter Store half of the configuration.
// Any missing parameter is fatal for the run: the caller must not proceed
// to probe or publish without it.
func (c *Config) LoadParameters(ctx context.Context, params paramstore.Fetcher) error {
	prefix := fmt.Sprintf("/secure-contact/%s/", c.Stage)
	lookups := []struct {
		name string
		dst  *string
	}{
		{prefix + "securedrop-public-bucket", &c.BucketName},
		{prefix + "prodmon-webhook", &c.WebhookURL},
		{prefix + "prodmon-sender", &c.EmailSender},
		{prefix + "prodmon-recipient", &c.EmailRecipient},
		{"securedrop-url", &c.SecureDropURL},
	}
	for _, l := range lookups {
		v, err := params.Fetch(ctx, l.name)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		*l.dst = v
	}
	return nil
}
