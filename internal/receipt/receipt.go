package receipt

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zombor/receipt-ledger/internal/ledger"
)

// Suggested marks the form fields that were filled in by the AI and need a human re-check
type Suggested struct {
	Vendor        bool `json:"vendor"`
	Amount        bool `json:"amount"`
	Date          bool `json:"date"`
	ReceiptNumber bool `json:"receipt_number"`
	Category      bool `json:"category"`
}

// Any reports whether at least one field came from the AI
func (s Suggested) Any() bool {
	return s.Vendor || s.Amount || s.Date || s.ReceiptNumber || s.Category
}

// FormDefaults are the values the review form starts with. Every field has a usable zero state.
type FormDefaults struct {
	Date          time.Time
	Vendor        string
	Amount        decimal.Decimal
	ReceiptNumber string
	CategoryIndex int
	Description   string
	ProjectIndex  int
	PayerIndex    int
	Suggested     Suggested
}

type formDefaultsJSON struct {
	Date          string    `json:"date"`
	Vendor        string    `json:"vendor"`
	Amount        string    `json:"amount"`
	ReceiptNumber string    `json:"receipt_number"`
	CategoryIndex int       `json:"category_index"`
	Description   string    `json:"description"`
	ProjectIndex  int       `json:"project_index"`
	PayerIndex    int       `json:"payer_index"`
	Suggested     Suggested `json:"suggested"`
}

// MarshalJSON renders the date and amount the way the form inputs expect them
func (f FormDefaults) MarshalJSON() ([]byte, error) {
	return json.Marshal(formDefaultsJSON{
		Date:          f.Date.Format(ledger.DateLayout),
		Vendor:        f.Vendor,
		Amount:        f.Amount.StringFixed(2),
		ReceiptNumber: f.ReceiptNumber,
		CategoryIndex: f.CategoryIndex,
		Description:   f.Description,
		ProjectIndex:  f.ProjectIndex,
		PayerIndex:    f.PayerIndex,
		Suggested:     f.Suggested,
	})
}

// Notice levels
const (
	NoticeInfo    = "info"
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// Notice is a transient, user-visible message
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Draft is what the review form renders: defaults plus what happened while producing them
type Draft struct {
	ID          string       `json:"id"`
	Defaults    FormDefaults `json:"defaults"`
	Notices     []Notice     `json:"notices"`
	Media       string       `json:"media,omitempty"`
	Pages       int          `json:"pages,omitempty"`
	Preview     []byte       `json:"preview,omitempty"` // base64 in JSON
	PreviewType string       `json:"preview_type,omitempty"`
}

// Submission is the reviewed form, posted once
type Submission struct {
	DraftID       string          `json:"draft_id"`
	Date          string          `json:"date"`
	Vendor        string          `json:"vendor"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Project       string          `json:"project"`
	Payer         string          `json:"payer"`
	Description   string          `json:"description"`
	ReceiptNumber string          `json:"receipt_number"`
}

// ReferenceLists are the select options of the form
type ReferenceLists struct {
	Categories []string `json:"categories"`
	Projects   []string `json:"projects"`
	Payers     []string `json:"payers"`
}
