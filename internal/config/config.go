// Package config turns flags, environment variables and an optional .env file into a Config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

// EnvPrefix is prepended to every flag name when looking up environment variables
const EnvPrefix = "RECEIPT_LEDGER"

// Scanner and ledger backends
const (
	ScannerGemini = "gemini"
	ScannerOllama = "ollama"

	LedgerSheets = "sheets"
	LedgerLocal  = "local"
)

// Config is the process configuration, built once at start and handed to each component
type Config struct {
	Port     int
	AuthUser string
	AuthPass string

	Scanner     string
	GeminiKey   Credential
	GeminiModel string
	OllamaURL   string
	OllamaModel string

	Ledger          string
	SheetLink       string
	CredentialsFile string
	LedgerDB        string

	LogLevel  slog.Level
	LogFormat string

	ShowVersion bool
}

// Credential is a secret that may be absent. The zero value is absent.
type Credential struct {
	value string
}

// NewCredential wraps a secret; blank input yields an absent credential
func NewCredential(value string) Credential {
	return Credential{value: strings.TrimSpace(value)}
}

// Present reports whether a value was configured
func (c Credential) Present() bool {
	return c.value != ""
}

// Value returns the raw secret
func (c Credential) Value() string {
	return c.value
}

// String never reveals the secret
func (c Credential) String() string {
	if !c.Present() {
		return "<absent>"
	}
	return "<redacted>"
}

// LogValue keeps the secret out of structured logs
func (c Credential) LogValue() slog.Value {
	return slog.StringValue(c.String())
}

// LoadDotEnv loads variables from a .env file without overriding ones already set.
// A missing file is not an error.
func LoadDotEnv(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("loading %s: %w", path, err)
	}
	return true, nil
}

// Parse reads the configuration from args and the environment
func Parse(name string, args []string) (Config, error) {
	fs := ff.NewFlagSet(name)
	var (
		port            = fs.IntLong("port", 8080, "HTTP server port")
		authUser        = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass        = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		scannerType     = fs.StringLong("scanner", ScannerGemini, "Scanner type: 'gemini' or 'ollama'")
		geminiKey       = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY / GOOGLE_API_KEY env var)")
		geminiModel     = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		ollamaURL       = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel     = fs.StringLong("ollama-model", "llava", "Ollama model name")
		ledgerType      = fs.StringLong("ledger", LedgerSheets, "Ledger backend: 'sheets' or 'local'")
		sheetLink       = fs.StringLong("sheet-link", "", "Google Sheets link or spreadsheet ID of the ledger")
		credentialsFile = fs.StringLong("credentials", "service_account.json", "Google service account key file")
		ledgerDB        = fs.StringLong("ledger-db", "ledger.db", "Local ledger file (ledger=local)")
		logLevel        = fs.StringLong("log-level", "info", "Log level: debug, info, warn, error")
		logFormat       = fs.StringLong("log-format", "text", "Log format: text or json")
		showVersion     = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix(EnvPrefix)); err != nil {
		return Config{}, fmt.Errorf("%s\n%w", ffhelp.Flags(fs), err)
	}

	key := *geminiKey
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	if key == "" {
		key = os.Getenv("GOOGLE_API_KEY")
	}

	link := *sheetLink
	if link == "" {
		link = os.Getenv("SHEET_LINK")
	}

	level, err := parseLevel(*logLevel)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:            *port,
		AuthUser:        *authUser,
		AuthPass:        *authPass,
		Scanner:         strings.ToLower(strings.TrimSpace(*scannerType)),
		GeminiKey:       NewCredential(key),
		GeminiModel:     *geminiModel,
		OllamaURL:       *ollamaURL,
		OllamaModel:     *ollamaModel,
		Ledger:          strings.ToLower(strings.TrimSpace(*ledgerType)),
		SheetLink:       strings.TrimSpace(link),
		CredentialsFile: *credentialsFile,
		LedgerDB:        *ledgerDB,
		LogLevel:        level,
		LogFormat:       strings.ToLower(strings.TrimSpace(*logFormat)),
		ShowVersion:     *showVersion,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated options. Missing secrets are not errors: the app degrades instead.
func (c Config) Validate() error {
	switch c.Scanner {
	case ScannerGemini, ScannerOllama:
	default:
		return fmt.Errorf("invalid scanner type %q: valid are gemini or ollama", c.Scanner)
	}
	switch c.Ledger {
	case LedgerSheets, LedgerLocal:
	default:
		return fmt.Errorf("invalid ledger backend %q: valid are sheets or local", c.Ledger)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: valid are text or json", c.LogFormat)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
