package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/zombor/receipt-ledger/internal/catalog"
	"github.com/zombor/receipt-ledger/internal/config"
	"github.com/zombor/receipt-ledger/internal/ledger"
	"github.com/zombor/receipt-ledger/internal/receipt"
	"github.com/zombor/receipt-ledger/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	if _, err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Parse("receipt-ledger", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	slog.SetDefault(config.NewLogger(cfg, os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize scanner based on type
	var scanner scanning.Scanner
	switch cfg.Scanner {
	case config.ScannerGemini:
		slog.Info("Initializing Gemini scanner...", "model", cfg.GeminiModel, "key", cfg.GeminiKey)
		g, err := scanning.NewGemini(ctx, cfg.GeminiKey.Value(), cfg.GeminiModel, catalog.Categories.Items())
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
		if err := g.CredentialErr(); err != nil {
			slog.Warn("AI extraction disabled, receipts must be entered manually", "error", err)
		}
		scanner = g
	case config.ScannerOllama:
		slog.Info("Initializing Ollama scanner...", "url", cfg.OllamaURL, "model", cfg.OllamaModel)
		scanner, err = scanning.NewOllama(cfg.OllamaURL, cfg.OllamaModel, catalog.Categories.Items())
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	}
	defer scanner.Close()

	writer := openLedger(ctx, cfg)
	defer writer.Close()

	service := receipt.NewService(scanner, writer)

	basicAuth := receipt.BasicAuth{
		Username: cfg.AuthUser,
		Password: cfg.AuthPass,
	}
	server := receipt.NewServer(service, basicAuth)

	addr := fmt.Sprintf(":%d", cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(addr)
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version)
	if cfg.AuthUser != "" || cfg.AuthPass != "" {
		slog.Info("Basic auth enabled", "user", cfg.AuthUser)
	}

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}

	slog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to shut down cleanly", "error", err)
	}
}

// openLedger builds the configured ledger writer. A sheets ledger that cannot be set up
// still lets the server start; every submission then reports why.
func openLedger(ctx context.Context, cfg config.Config) ledger.Writer {
	switch cfg.Ledger {
	case config.LedgerLocal:
		slog.Info("Opening local ledger...", "path", cfg.LedgerDB)
		local, err := ledger.NewLocal(cfg.LedgerDB)
		if err != nil {
			slog.Error("Failed to open local ledger", "error", err)
			os.Exit(1)
		}
		return local
	default:
		slog.Info("Connecting to Google Sheets ledger...", "credentials", cfg.CredentialsFile)
		sheets, err := ledger.NewSheets(ctx, cfg.CredentialsFile, cfg.SheetLink)
		if err != nil {
			level := slog.LevelError
			if errors.Is(err, ledger.ErrMissingCredential) {
				level = slog.LevelWarn
			}
			slog.Log(ctx, level, "Ledger unavailable, submissions will fail until it is configured", "error", err)
			return ledger.Unavailable(err)
		}
		slog.Info("Ledger ready", "spreadsheet_id", sheets.SpreadsheetID())
		return sheets
	}
}
