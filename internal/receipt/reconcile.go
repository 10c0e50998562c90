package receipt

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zombor/receipt-ledger/internal/catalog"
	"github.com/zombor/receipt-ledger/internal/ledger"
	"github.com/zombor/receipt-ledger/internal/scanning"
)

// Baseline returns the defaults used when nothing was extracted
func Baseline(now time.Time) FormDefaults {
	y, m, d := now.Date()
	return FormDefaults{
		Date:   time.Date(y, m, d, 0, 0, 0, 0, now.Location()),
		Amount: decimal.Zero,
	}
}

// Reconcile merges AI-extracted fields into defaults. Absent or invalid fields keep their default.
// It has no side effects.
func Reconcile(fields *scanning.ExtractedFields, defaults FormDefaults, categories catalog.List) FormDefaults {
	out := defaults
	if fields == nil {
		return out
	}

	if fields.Vendor != nil {
		out.Vendor = *fields.Vendor
		out.Suggested.Vendor = true
	}

	if fields.Amount != nil {
		out.Amount = *fields.Amount
		out.Suggested.Amount = true
	}

	if fields.Date != nil {
		if date, err := time.ParseInLocation(ledger.DateLayout, strings.TrimSpace(*fields.Date), defaults.Date.Location()); err == nil {
			out.Date = date
			out.Suggested.Date = true
		}
	}

	if fields.ReceiptNumber != nil {
		out.ReceiptNumber = *fields.ReceiptNumber
		out.Suggested.ReceiptNumber = true
	}

	if fields.Category != nil {
		if i, ok := categories.Index(*fields.Category); ok {
			out.CategoryIndex = i
			out.Suggested.Category = true
		}
	}

	return out
}
