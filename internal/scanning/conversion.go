package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// pdfToImage renders the first page of a PDF as PNG
func pdfToImage(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	// Most receipts are a single page
	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// imageToPNG converts any supported image format to PNG
func imageToPNG(imageData []byte, mimeType string) ([]byte, error) {
	var img image.Image
	var err error

	// Go's image package does not read HEIC, which phone cameras often produce
	if isHEICFormat(imageData) || isHEICMimeType(mimeType) {
		img, err = heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(imageData))
		if err != nil {
			if strings.Contains(err.Error(), "unknown format") {
				return nil, fmt.Errorf("%w: supported images are JPEG, PNG, GIF, HEIC, HEIF: %w", ErrUnsupportedDocument, err)
			}
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// isHEICFormat checks for an ftyp box with a HEIC-family brand at offset 4
func isHEICFormat(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "heif", "mif1", "msf1":
		return true
	}
	return false
}

// isHEICMimeType checks if the MIME type indicates HEIC/HEIF format
func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// imagePayload returns the image as the provider expects it: the format suffix ("png", "jpeg")
// and the bytes. JPEG and PNG pass through untouched; everything else becomes PNG.
func imagePayload(doc Document) (string, []byte, error) {
	switch doc.ContentType {
	case "image/jpeg":
		return "jpeg", doc.Data, nil
	case "image/png":
		return "png", doc.Data, nil
	}
	data, err := imageToPNG(doc.Data, doc.ContentType)
	if err != nil {
		return "", nil, fmt.Errorf("converting image to PNG: %w", err)
	}
	return "png", data, nil
}

// rasterize returns a PNG (or JPEG) for providers that only read images
func rasterize(doc Document) (string, []byte, error) {
	if doc.Media == MediaPDF {
		data, err := pdfToImage(doc.Data)
		if err != nil {
			return "", nil, fmt.Errorf("converting PDF to image: %w", err)
		}
		return "png", data, nil
	}
	return imagePayload(doc)
}

// Preview returns an image the browser can display next to the review form
func (d Document) Preview() ([]byte, string, error) {
	format, data, err := rasterize(d)
	if err != nil {
		return nil, "", err
	}
	return data, "image/" + format, nil
}
