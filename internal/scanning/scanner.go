package scanning

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrMissingCredential means the provider key is absent or malformed; no request was made
	ErrMissingCredential = errors.New("missing AI provider credential")

	// ErrExtraction means the provider failed or its reply could not be parsed
	ErrExtraction = errors.New("receipt extraction failed")

	// ErrUnsupportedDocument means the payload is not an accepted receipt kind
	ErrUnsupportedDocument = errors.New("unsupported document")
)

// ExtractedFields is the partial record returned by the AI provider. Any field may be nil.
type ExtractedFields struct {
	Vendor        *string          `json:"trgovina,omitempty"`
	Amount        *decimal.Decimal `json:"znesek,omitempty"`
	Date          *string          `json:"datum,omitempty"` // expected YYYY-MM-DD, unvalidated
	ReceiptNumber *string          `json:"st_racuna,omitempty"`
	Category      *string          `json:"vrsta_odhodka,omitempty"`
}

// Scanner defines the interface for receipt scanning operations
type Scanner interface {
	// ScanReceipt sends the document to the provider and returns whatever fields it could read
	ScanReceipt(ctx context.Context, doc Document) (*ExtractedFields, error)
	// Close closes the scanner and releases resources
	Close() error
}
