package scanning

import (
	"bytes"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu would otherwise write a config.yml under the user's config dir
	api.DisableConfigDir()
}

// Source is where the document bytes came from
type Source string

const (
	SourceCamera Source = "camera"
	SourceUpload Source = "upload"
)

// ParseSource maps form input to a Source, defaulting to upload
func ParseSource(s string) Source {
	if strings.EqualFold(strings.TrimSpace(s), string(SourceCamera)) {
		return SourceCamera
	}
	return SourceUpload
}

// MediaType tags a document as an image or a PDF
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaPDF   MediaType = "pdf"
)

// uploadTypes are the kinds accepted from the file picker
var uploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// Document is an immutable receipt payload. It is never persisted.
type Document struct {
	Filename    string
	ContentType string
	Media       MediaType
	Source      Source
	Data        []byte
	Pages       int
}

// NewDocument validates the payload and tags it with its media type
func NewDocument(filename, contentType string, data []byte, source Source) (Document, error) {
	if len(data) == 0 {
		return Document{}, fmt.Errorf("%w: empty file", ErrUnsupportedDocument)
	}

	ct := resolveContentType(filename, contentType, data)

	switch source {
	case SourceCamera:
		if !strings.HasPrefix(ct, "image/") {
			return Document{}, fmt.Errorf("%w: camera capture must be an image, got %s", ErrUnsupportedDocument, ct)
		}
	default:
		source = SourceUpload
		if !uploadTypes[ct] {
			return Document{}, fmt.Errorf("%w: %s (supported: pdf, jpg, jpeg, png)", ErrUnsupportedDocument, ct)
		}
	}

	doc := Document{
		Filename:    sanitizeFilename(filename),
		ContentType: ct,
		Media:       MediaImage,
		Source:      source,
		Data:        data,
		Pages:       1,
	}

	if ct == "application/pdf" {
		doc.Media = MediaPDF
		doc.Pages = pdfPageCount(data)
	}

	return doc, nil
}

// pdfPageCount returns 0 when pdfcpu cannot read the file; the provider may still manage
func pdfPageCount(data []byte) int {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	n, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		slog.Warn("Could not read PDF page count", "error", err)
		return 0
	}
	return n
}

// resolveContentType normalizes the declared type and falls back to the extension, then sniffing
func resolveContentType(filename, contentType string, data []byte) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	}
	if ct == "image/jpg" || ct == "image/pjpeg" {
		ct = "image/jpeg"
	}
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}

	if isHEICFormat(data) {
		return "image/heic"
	}
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return sniffed
}

var (
	filenameJunk   = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	filenameSpaces = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	base = filenameJunk.ReplaceAllString(base, "")
	base = filenameSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}
	return base + ext
}
