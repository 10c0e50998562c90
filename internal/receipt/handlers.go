package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/zombor/receipt-ledger/internal/ledger"
	"github.com/zombor/receipt-ledger/internal/scanning"
)

// maxUploadSize bounds the multipart form; phone photos stay well below it
const maxUploadSize = int64(20 << 20)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON writes v with the given status
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// jsonError writes an {"error": message} body
func jsonError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}

// handleIndex serves the HTML interface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleStaticCSS serves the CSS file
func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	w.Write(appCSS)
}

// handleStaticJS serves the JavaScript file
func (s *Server) handleStaticJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(appJS)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReference returns the select options
func (s *Server) handleReference(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Reference())
}

// handleBlankDraft returns today's defaults for manual entry
func (s *Server) handleBlankDraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Blank())
}

// handleScanReceipt reads the uploaded document and returns a prefilled draft
func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorMsg = "File is too large. Maximum size is 20MB."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if errors.Is(err, http.ErrMissingFile) {
			errorMsg = "No file was selected. Please take a photo or choose a file."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	source := scanning.ParseSource(r.FormValue("source"))
	doc, err := scanning.NewDocument(header.Filename, header.Header.Get("Content-Type"), data, source)
	if err != nil {
		slog.Warn("Rejected document", "filename", header.Filename, "source", source, "error", err)
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, s.service.Scan(r.Context(), doc))
}

// handleSubmit appends the reviewed form to the ledger
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		slog.Error("Error decoding submission", "error", err)
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	row, err := s.service.Submit(r.Context(), sub)
	if err != nil {
		jsonError(w, err.Error(), submitStatus(err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"row": row.Cells(),
		"notice": Notice{
			Level:   NoticeSuccess,
			Message: "Saved to the ledger.",
		},
	})
}

func submitStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidSubmission):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrMissingCredential), errors.Is(err, ledger.ErrConnection):
		return http.StatusServiceUnavailable
	case errors.Is(err, ledger.ErrWrite):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
