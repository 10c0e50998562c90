package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zombor/receipt-ledger/internal/catalog"
	"github.com/zombor/receipt-ledger/internal/ledger"
	"github.com/zombor/receipt-ledger/internal/scanning"
)

// ErrInvalidSubmission means the reviewed form cannot become a ledger row
var ErrInvalidSubmission = errors.New("invalid submission")

// IDGenerator generates draft IDs used to correlate a scan with its submission in the logs
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service runs the scan, review and submit workflow
type Service struct {
	scanner     scanning.Scanner
	ledger      ledger.Writer
	categories  catalog.List
	projects    catalog.List
	payers      catalog.List
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with the standard lists, ID generator and time source
func NewService(scanner scanning.Scanner, writer ledger.Writer) *Service {
	return NewServiceWithDeps(scanner, writer, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(scanner scanning.Scanner, writer ledger.Writer, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		scanner:     scanner,
		ledger:      writer,
		categories:  catalog.Categories,
		projects:    catalog.Projects,
		payers:      catalog.Payers,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// Reference returns the select options of the review form
func (s *Service) Reference() ReferenceLists {
	return ReferenceLists{
		Categories: s.categories.Items(),
		Projects:   s.projects.Items(),
		Payers:     s.payers.Items(),
	}
}

// Blank returns a draft for manual entry
func (s *Service) Blank() Draft {
	return Draft{
		ID:       s.idGenerator.Generate(),
		Defaults: Baseline(s.timeSource.Now()),
		Notices:  []Notice{},
	}
}

// Scan asks the AI to read the document and reconciles the answer into form defaults.
// It never fails: provider problems become notices and the baseline defaults stand.
func (s *Service) Scan(ctx context.Context, doc scanning.Document) Draft {
	draft := s.Blank()
	draft.Media = string(doc.Media)
	draft.Pages = doc.Pages

	if preview, previewType, err := doc.Preview(); err != nil {
		slog.Warn("Failed to render preview", "draft_id", draft.ID, "filename", doc.Filename, "error", err)
	} else {
		draft.Preview = preview
		draft.PreviewType = previewType
	}

	slog.Info("Scanning receipt",
		"draft_id", draft.ID,
		"filename", doc.Filename,
		"source", doc.Source,
		"content_type", doc.ContentType,
		"pages", doc.Pages,
	)

	fields, err := s.scanner.ScanReceipt(ctx, doc)
	switch {
	case errors.Is(err, scanning.ErrMissingCredential):
		slog.Warn("Skipping AI extraction", "draft_id", draft.ID, "error", err)
		draft.Notices = append(draft.Notices, Notice{
			Level:   NoticeWarning,
			Message: "The AI API key is missing or invalid. Please fill in the form manually.",
		})
		return draft
	case err != nil:
		slog.Error("Failed to scan receipt",
			"draft_id", draft.ID,
			"filename", doc.Filename,
			"content_type", doc.ContentType,
			"file_size", len(doc.Data),
			"error", err,
		)
		draft.Notices = append(draft.Notices, Notice{
			Level:   NoticeWarning,
			Message: fmt.Sprintf("The AI could not read the receipt (%v). Please fill in the form manually.", err),
		})
		return draft
	}

	draft.Defaults = Reconcile(fields, draft.Defaults, s.categories)
	if draft.Defaults.Suggested.Any() {
		draft.Notices = append(draft.Notices, Notice{
			Level:   NoticeInfo,
			Message: "The AI filled in the highlighted fields. Check them before saving.",
		})
	} else {
		draft.Notices = append(draft.Notices, Notice{
			Level:   NoticeWarning,
			Message: "The AI found nothing usable on the receipt. Please fill in the form manually.",
		})
	}
	return draft
}

// BuildRow validates a submission and turns it into a ledger row
func (s *Service) BuildRow(sub Submission) (ledger.Row, error) {
	date, err := time.Parse(ledger.DateLayout, strings.TrimSpace(sub.Date))
	if err != nil {
		return ledger.Row{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrInvalidSubmission, sub.Date)
	}
	if !scanning.AmountInRange(sub.Amount) {
		return ledger.Row{}, fmt.Errorf("%w: amount is out of range", ErrInvalidSubmission)
	}
	if !s.categories.Contains(sub.Category) {
		return ledger.Row{}, fmt.Errorf("%w: unknown category %q", ErrInvalidSubmission, sub.Category)
	}
	if !s.projects.Contains(sub.Project) {
		return ledger.Row{}, fmt.Errorf("%w: unknown line item %q", ErrInvalidSubmission, sub.Project)
	}
	if !s.payers.Contains(sub.Payer) {
		return ledger.Row{}, fmt.Errorf("%w: unknown payer %q", ErrInvalidSubmission, sub.Payer)
	}

	return ledger.Row{
		Date:          date,
		Vendor:        strings.TrimSpace(sub.Vendor),
		Category:      sub.Category,
		Project:       sub.Project,
		Amount:        sub.Amount,
		Payer:         sub.Payer,
		Description:   strings.TrimSpace(sub.Description),
		ReceiptNumber: strings.TrimSpace(sub.ReceiptNumber),
	}, nil
}

// Submit appends exactly one row. A failed append is not retried; the user resubmits.
func (s *Service) Submit(ctx context.Context, sub Submission) (ledger.Row, error) {
	row, err := s.BuildRow(sub)
	if err != nil {
		return ledger.Row{}, err
	}

	if err := s.ledger.Append(ctx, row); err != nil {
		slog.Error("Failed to append ledger row", "draft_id", sub.DraftID, "error", err)
		return ledger.Row{}, fmt.Errorf("appending to ledger: %w", err)
	}

	slog.Info("Appended ledger row",
		"draft_id", sub.DraftID,
		"date", row.Date.Format(ledger.DateLayout),
		"vendor", row.Vendor,
		"amount", row.Amount.StringFixed(2),
		"category", row.Category,
	)
	return row, nil
}
