package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheets writes the ledger to the first worksheet of a Google spreadsheet
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
	timeout       time.Duration
}

// NewSheets authenticates with a service account key file. The client is built once and
// reused for every submission.
func NewSheets(ctx context.Context, credentialsFile, link string) (*Sheets, error) {
	if strings.TrimSpace(credentialsFile) == "" {
		return nil, fmt.Errorf("%w: no service account key file configured", ErrMissingCredential)
	}
	if _, err := os.Stat(credentialsFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrMissingCredential, credentialsFile)
		}
		return nil, fmt.Errorf("%w: %w", ErrMissingCredential, err)
	}

	return NewSheetsFromOptions(ctx, link,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
}

// NewSheetsFromOptions builds the writer from explicit client options
func NewSheetsFromOptions(ctx context.Context, link string, opts ...option.ClientOption) (*Sheets, error) {
	id, err := SpreadsheetID(link)
	if err != nil {
		return nil, err
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: creating sheets client: %w", ErrMissingCredential, err)
	}

	return &Sheets{
		svc:           svc,
		spreadsheetID: id,
		timeout:       30 * time.Second,
	}, nil
}

// SpreadsheetID returns the ID the writer appends to
func (s *Sheets) SpreadsheetID() string {
	return s.spreadsheetID
}

// Append writes the header row when the worksheet is empty, then the row
func (s *Sheets) Append(ctx context.Context, row Row) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	title, err := s.firstWorksheet(ctx)
	if err != nil {
		return err
	}

	first, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, quoteSheet(title)+"!1:1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: reading header row: %w", ErrConnection, describe(err, s.spreadsheetID))
	}

	if isEmpty(first.Values) {
		if err := s.appendValues(ctx, title, headerValues()); err != nil {
			return fmt.Errorf("%w: writing header row: %w", ErrWrite, describe(err, s.spreadsheetID))
		}
	}

	if err := s.appendValues(ctx, title, row.Values()); err != nil {
		return fmt.Errorf("%w: appending row: %w", ErrWrite, describe(err, s.spreadsheetID))
	}
	return nil
}

func (s *Sheets) firstWorksheet(ctx context.Context) (string, error) {
	ss, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: opening spreadsheet: %w", ErrConnection, describe(err, s.spreadsheetID))
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", fmt.Errorf("%w: spreadsheet %s has no worksheets", ErrConnection, s.spreadsheetID)
	}
	return ss.Sheets[0].Properties.Title, nil
}

func (s *Sheets) appendValues(ctx context.Context, title string, values []interface{}) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{values}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, quoteSheet(title)+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// Close is a no-op; the sheets client holds no resources of its own
func (s *Sheets) Close() error {
	return nil
}

// quoteSheet quotes a worksheet title for A1 notation
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func isEmpty(values [][]interface{}) bool {
	for _, row := range values {
		for _, v := range row {
			if s, ok := v.(string); !ok || strings.TrimSpace(s) != "" {
				return false
			}
		}
	}
	return true
}

// describe turns common API failures into messages a user can act on
func describe(err error, spreadsheetID string) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	switch gerr.Code {
	case http.StatusNotFound:
		return fmt.Errorf("spreadsheet %s not found: %w", spreadsheetID, err)
	case http.StatusForbidden:
		return fmt.Errorf("spreadsheet %s is not shared with the service account: %w", spreadsheetID, err)
	}
	return err
}
