// Command ledger-doctor checks what the configured credentials can reach:
// the Gemini models usable with the API key, and the spreadsheets shared with the service account.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/zombor/receipt-ledger/internal/catalog"
	"github.com/zombor/receipt-ledger/internal/config"
	"github.com/zombor/receipt-ledger/internal/ledger"
	"github.com/zombor/receipt-ledger/internal/scanning"
)

const usage = `usage: ledger-doctor <models|sheets> [flags]

  models   list the Gemini models the API key can use for content generation
  sheets   list the spreadsheets shared with the service account
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if _, err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := ff.NewFlagSet("ledger-doctor")
	var (
		geminiKey       = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		credentialsFile = fs.StringLong("credentials", "service_account.json", "Google service account key file")
		timeout         = fs.DurationLong("timeout", 30*time.Second, "Timeout for the check")
	)
	if err := ff.Parse(fs, os.Args[2:], ff.WithEnvVarPrefix(config.EnvPrefix)); err != nil {
		fmt.Fprintf(os.Stderr, "%s%s\n", usage, ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "models":
		key := *geminiKey
		if key == "" {
			key = os.Getenv("GEMINI_API_KEY")
		}
		err = listModels(ctx, key)
	case "sheets":
		err = listSheets(ctx, *credentialsFile)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func listModels(ctx context.Context, key string) error {
	g, err := scanning.NewGemini(ctx, key, "", catalog.Categories.Items())
	if err != nil {
		return err
	}
	defer g.Close()

	names, err := g.ListModels(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No models support generateContent for this key.")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func listSheets(ctx context.Context, credentialsFile string) error {
	if _, err := os.Stat(credentialsFile); err != nil {
		return fmt.Errorf("%w: %s: %w", ledger.ErrMissingCredential, credentialsFile, err)
	}

	files, err := ledger.ListSpreadsheets(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveMetadataReadonlyScope),
	)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No spreadsheets are shared with this service account.")
		return nil
	}
	for _, f := range files {
		fmt.Printf("%s\t%s\n", f.ID, f.Name)
	}
	return nil
}
