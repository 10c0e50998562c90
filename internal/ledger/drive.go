package ledger

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// SpreadsheetFile is a spreadsheet the service account can open
type SpreadsheetFile struct {
	ID   string
	Name string
}

// ListSpreadsheets returns every spreadsheet shared with the authenticated account.
// An empty result usually means the ledger was not shared with the service account email.
func ListSpreadsheets(ctx context.Context, opts ...option.ClientOption) ([]SpreadsheetFile, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: creating drive client: %w", ErrMissingCredential, err)
	}

	var files []SpreadsheetFile
	err = svc.Files.List().
		Q(fmt.Sprintf("mimeType='%s' and trashed=false", spreadsheetMimeType)).
		Fields("nextPageToken, files(id, name)").
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				files = append(files, SpreadsheetFile{ID: f.Id, Name: f.Name})
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("%w: listing spreadsheets: %w", ErrConnection, err)
	}
	return files, nil
}
