// Package ledger appends confirmed expense rows to the shared spreadsheet.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrMissingCredential means the service account key is absent or unreadable
	ErrMissingCredential = errors.New("missing ledger credential")

	// ErrConnection means the spreadsheet is misconfigured, unreachable or not found
	ErrConnection = errors.New("ledger unreachable")

	// ErrWrite means the store rejected the append
	ErrWrite = errors.New("ledger write rejected")
)

// DateLayout is the only date format: ledger cells, the review form and the AI reply all use it
const DateLayout = "2006-01-02"

// Header is the first row of an empty ledger
var Header = []string{"Date", "Vendor", "Category", "Line-item", "Amount", "Payer", "Description", "Receipt-number"}

// Row is one confirmed expense
type Row struct {
	Date          time.Time       `json:"date"`
	Vendor        string          `json:"vendor"`
	Category      string          `json:"category"`
	Project       string          `json:"project"`
	Amount        decimal.Decimal `json:"amount"`
	Payer         string          `json:"payer"`
	Description   string          `json:"description"`
	ReceiptNumber string          `json:"receipt_number"`
}

// Cells returns the row as text in Header order
func (r Row) Cells() []string {
	return []string{
		r.Date.Format(DateLayout),
		r.Vendor,
		r.Category,
		r.Project,
		r.Amount.StringFixed(2),
		r.Payer,
		r.Description,
		r.ReceiptNumber,
	}
}

// Values returns the row in Header order with the amount as a number, so spreadsheets can sum it
func (r Row) Values() []interface{} {
	cells := r.Cells()
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	values[4] = r.Amount.Round(2).InexactFloat64()
	return values
}

// Writer appends rows to a ledger
type Writer interface {
	// Append makes sure the ledger has a header and adds exactly one row
	Append(ctx context.Context, row Row) error
	// Close releases the underlying client
	Close() error
}

type unavailable struct {
	err error
}

// Unavailable returns a Writer that fails every append with err. It lets the app start
// (and keep accepting manual entry) when the ledger could not be configured.
func Unavailable(err error) Writer {
	return unavailable{err: err}
}

func (u unavailable) Append(context.Context, Row) error {
	return u.err
}

func (u unavailable) Close() error {
	return nil
}

func headerValues() []interface{} {
	values := make([]interface{}, len(Header))
	for i, h := range Header {
		values[i] = h
	}
	return values
}
