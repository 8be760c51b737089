package main

import (
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/guardian/secure-contact/internal/config"
	"github.com/guardian/secure-contact/internal/history/memory"
	"github.com/guardian/secure-contact/internal/logging"
	"github.com/guardian/secure-contact/internal/pages"
	"github.com/guardian/secure-contact/internal/preview"
)

func main() {
	config.LoadDotEnv()
	cfg := config.FromEnv(config.Stage("/etc/stage"))

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	url := os.Getenv("SECUREDROP_URL")
	if url == "" {
		url = "samplesecuredrop.onion"
	}
	if err := pages.Build(cfg.BuildDir, url, cfg.Stage); err != nil {
		logger.Fatal("page_build_failed", zap.Error(err))
	}

	addr := os.Getenv("PREVIEW_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	srv := preview.NewServer(logger, memory.New(), cfg.BuildDir)
	logger.Info("preview_listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		logger.Fatal("preview_server_failed", zap.Error(err))
	}
}
