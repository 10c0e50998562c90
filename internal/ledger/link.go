package ledger

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	sheetURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	sheetIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// SpreadsheetID extracts the spreadsheet ID from a share link, a markdown link wrapping one,
// or a bare ID
func SpreadsheetID(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", fmt.Errorf("%w: sheet link is not configured", ErrConnection)
	}
	if m := sheetURLPattern.FindStringSubmatch(link); m != nil {
		return m[1], nil
	}
	if sheetIDPattern.MatchString(link) {
		return link, nil
	}
	return "", fmt.Errorf("%w: %q is not a Google Sheets link", ErrConnection, link)
}
