// ownkvd is the ownkv storage daemon: a public-key-addressed key-value
// store served over HTTP.
package main

import (
	"errors"
	"flag"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ownkv/ownkv-go/config"
	"github.com/ownkv/ownkv-go/index"
	"github.com/ownkv/ownkv-go/logger"
	"github.com/ownkv/ownkv-go/server"
)

func main() {
	configPath := flag.String("config", "", "config file path (default {datadir}/config)")
	dataDir := flag.String("data-dir", "", "override data directory")
	addr := flag.String("addr", "", "override listen address")
	backend := flag.String("backend", "", "override index backend (memory or bolt)")
	logLevel := flag.String("log-level", "", "override log level")
	flag.Parse()

	cfg := loadConfig(*configPath, *dataDir)
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger.Init(cfg.LogLevel, cfg.LogFile)

	if err := config.ValidateConfig(cfg); err != nil {
		logrus.WithFields(logrus.Fields{
			"error": err,
		}).Fatal("main: Invalid configuration")
	}

	idx, cleanup, err := openIndex(cfg)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"error": err,
		}).Fatal("main: Index init error")
	}
	defer cleanup()

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	server.New(idx, cfg.MaxBodyBytes).Register(router)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	logrus.WithFields(logrus.Fields{
		"addr":    cfg.ListenAddr,
		"backend": cfg.Backend,
	}).Info("main: Starting web server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithFields(logrus.Fields{
			"error": err,
		}).Fatal("main: Server error")
	}
}

// loadConfig loads the config file, tolerating a missing file by falling
// back to defaults.
func loadConfig(path, dataDir string) config.Config {
	if path == "" {
		dir := dataDir
		if dir == "" {
			dir = config.DefaultDataDir()
		}
		path = config.ConfigPath(dir)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		logrus.WithFields(logrus.Fields{
			"error": err,
			"path":  path,
		}).Fatal("main: Config load error")
	}

	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg
}

// openIndex builds the configured index backend. The returned cleanup
// closes any underlying database.
func openIndex(cfg config.Config) (index.Index, func(), error) {
	switch cfg.Backend {
	case config.BackendBolt:
		b, err := index.OpenBoltIndex(filepath.Join(cfg.DataDir, "index.db"))
		if err != nil {
			return nil, nil, err
		}
		return b, func() { _ = b.Close() }, nil
	default:
		return index.NewMemIndex(), func() {}, nil
	}
}
