package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/colorscope/colorscope/internal/auth"
	"github.com/colorscope/colorscope/internal/config"
	"github.com/colorscope/colorscope/internal/logger"
	"github.com/colorscope/colorscope/internal/server"
	"github.com/colorscope/colorscope/internal/service"
	"github.com/colorscope/colorscope/internal/transport"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = `colorscope - name the color at the center of an image

Usage:
  colorscope [command]

Commands:
  serve              Run the HTTP API (default)
  mcp                Run the MCP tool server on stdin/stdout
  analyze <file>     Analyze an image file and print the result as JSON
  token <subject>    Issue an access token for the HTTP API

Options:
  --version, -v      Print version information
  --help, -h         Print this help message

Environment variables:
  HOST, PORT               Listen address (default 0.0.0.0:5000)
  REQUEST_TIMEOUT          HTTP read/write timeout (default 30s)
  MAX_UPLOAD_SIZE          Request body limit in bytes (default 10485760)
  ROI_HALF_WIDTH           Sampling half width (default 6)
  TOKEN_SECRET             Enables bearer token checks when set
  TOKEN_TTL                Lifetime of issued tokens (default 24h)
  LOG_LEVEL                debug, info, warn or error (default info)

Settings may also be placed in a .env file in the working directory.
`

func main() {
	cmd := "serve"
	var args []string
	if len(os.Args) > 1 {
		cmd, args = os.Args[1], os.Args[2:]
	}

	switch cmd {
	case "--version", "-v", "version":
		fmt.Printf("colorscope %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		fmt.Print(usage)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	// Logs always go to stderr; stdout carries MCP traffic and command output.
	logger.Configure(cfg.LogLevel, os.Stderr)
	transport.Version = Version
	server.Version = Version

	switch cmd {
	case "serve":
		err = runServe(cfg)
	case "mcp":
		err = runMCP(cfg)
	case "analyze":
		err = runAnalyze(cfg, args)
	case "token":
		err = runToken(cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.WithError(err).WithField("command", cmd).Error("Command failed")
		os.Exit(1)
	}
}

func runServe(cfg *config.Config) error {
	gin.SetMode(gin.ReleaseMode)

	var authorizer auth.Authorizer = auth.AllowAll{}
	if cfg.AuthEnabled() {
		authorizer = auth.NewTokenAuthorizer(cfg.TokenSecret)
	} else {
		logger.Logger.Warn("TOKEN_SECRET is not set; analysis routes are open")
	}

	srv := &http.Server{
		Addr: cfg.ServerAddress(),
		Handler: transport.NewHandler(transport.Options{
			Service:       service.NewColorService(cfg.ROIHalfWidth, logger.Logger),
			Authorizer:    authorizer,
			Logger:        logger.Logger,
			MaxUploadSize: cfg.MaxUploadSize,
		}),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"address": cfg.ServerAddress(),
			"timeout": cfg.RequestTimeout,
			"version": Version,
		}).Info("Starting HTTP server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}

	logger.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Logger.Info("Server exited")
	return nil
}

func runMCP(cfg *config.Config) error {
	logger.WithFields(logrus.Fields{
		"version": Version,
		"commit":  GitCommit,
	}).Debug("Starting MCP server")

	svc := service.NewColorService(cfg.ROIHalfWidth, logger.Logger)
	return server.New(svc, logger.Logger).Run()
}

func runAnalyze(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: colorscope analyze <file>")
	}
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	svc := service.NewColorService(cfg.ROIHalfWidth, logger.Logger)
	result, err := svc.AnalyzeUpload(filepath.Base(path), data, cfg.ROIHalfWidth)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func runToken(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: colorscope token <subject>")
	}
	if !cfg.AuthEnabled() {
		return errors.New("TOKEN_SECRET must be set to issue tokens")
	}

	token, err := auth.IssueToken(cfg.TokenSecret, args[0], cfg.TokenTTL)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
