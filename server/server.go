// Package server exposes the analysis pipeline over HTTP: an upload form,
// the analyze endpoint, a vocabulary API, and operational endpoints.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/wortlupe/wortlupe/engine"
	"github.com/wortlupe/wortlupe/extract"
	"github.com/wortlupe/wortlupe/render"
)

const defaultMaxUpload = 32 << 20

// Server handles HTTP requests for document analysis.
type Server struct {
	analyzer   *engine.Analyzer
	logger     *slog.Logger
	maxUpload  int64
	httpClient *http.Client
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxUpload caps multipart upload size in bytes.
func WithMaxUpload(limit int64) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxUpload = limit
		}
	}
}

// WithFetchClient sets the HTTP client used to download submitted URLs.
func WithFetchClient(client *http.Client) Option {
	return func(s *Server) {
		s.httpClient = client
	}
}

// NewServer creates a server around an analyzer.
func NewServer(analyzer *engine.Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer:  analyzer,
		logger:    slog.Default(),
		maxUpload: defaultMaxUpload,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler builds the route table. CORS defaults allow simple cross-origin
// GETs and POSTs so the API is usable from local frontends.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/vocab", s.handleVocab)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	return cors.Default().Handler(mux)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// VocabResponse is the JSON response for GET /api/vocab.
type VocabResponse struct {
	Count   int               `json:"count"`
	Entries map[string]string `json:"entries"`
}

// handleIndex serves the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexPage)
}

// handleAnalyze handles POST /analyze. Inputs in precedence order: an
// uploaded file, a URL to fetch, pasted text. The first one present wins.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "parse_error", "Failed to parse multipart form: "+err.Error())
		return
	}

	doc, status, errCode, errMsg := s.extractInput(r)
	if errCode != "" {
		writeJSONError(w, status, errCode, errMsg)
		return
	}

	if strings.TrimSpace(doc.Text) == "" {
		writeJSONError(w, http.StatusBadRequest, "empty_input", "No text to analyze")
		return
	}

	body, err := s.analyzer.AnalyzeText(r.Context(), doc.Text)
	if err != nil {
		s.logger.Error("analysis failed", "error", err)
		writeJSONError(w, http.StatusBadGateway, "tagger_unavailable", "Tagging service request failed: "+err.Error())
		return
	}

	title := doc.Title
	if title == "" {
		title = "Wortlupe"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, render.Page(title, body))
}

// extractInput pulls the document out of the multipart form. A non-empty
// errCode means the request was rejected with the given status.
func (s *Server) extractInput(r *http.Request) (doc extract.Document, status int, errCode, errMsg string) {
	file, header, err := r.FormFile("file")
	if err == nil {
		defer func() { _ = file.Close() }()
		doc, status, errCode, errMsg = extractUpload(file, header)
		return doc, status, errCode, errMsg
	}

	if rawURL := strings.TrimSpace(r.FormValue("url")); rawURL != "" {
		doc, err := extract.FromURL(r.Context(), s.httpClient, rawURL)
		if err != nil {
			return extract.Document{}, http.StatusBadGateway, "fetch_error", err.Error()
		}
		return doc, 0, "", ""
	}

	if text := r.FormValue("text_input"); strings.TrimSpace(text) != "" {
		return extract.Document{
			Title: "Pasted Text",
			Text:  extract.NormalizeText(text),
		}, 0, "", ""
	}

	return extract.Document{}, http.StatusBadRequest, "no_input", "Provide a file, a URL, or pasted text"
}

// extractUpload dispatches an uploaded file on its extension.
func extractUpload(file multipart.File, header *multipart.FileHeader) (extract.Document, int, string, string) {
	ext := strings.ToLower(filepath.Ext(header.Filename))

	switch ext {
	case ".pdf":
		return extract.Document{}, http.StatusUnsupportedMediaType, "invalid_type",
			"PDF upload is not supported, convert to text first"
	case ".html", ".htm":
		doc, err := extract.FromHTML(file, nil)
		if err != nil {
			return extract.Document{}, http.StatusBadRequest, "extract_error", err.Error()
		}
		if doc.Title == "" {
			doc.Title = uploadTitle(header.Filename)
		}
		return doc, 0, "", ""
	default:
		data, err := io.ReadAll(file)
		if err != nil {
			return extract.Document{}, http.StatusBadRequest, "read_error", "Failed to read upload: "+err.Error()
		}
		return extract.Document{
			Title: uploadTitle(header.Filename),
			Text:  extract.NormalizeText(string(data)),
		}, 0, "", ""
	}
}

// uploadTitle derives a display title from an uploaded filename.
func uploadTitle(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// handleVocab handles GET /api/vocab - dump the vocabulary store.
func (s *Server) handleVocab(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries := s.analyzer.Store().Snapshot()
	writeJSON(w, http.StatusOK, VocabResponse{
		Count:   len(entries),
		Entries: entries,
	})
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// indexPage is the upload form served at the root.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Wortlupe</title>
<style>
body { font-family: 'Georgia', serif; background: #fdfdfd; color: #222; max-width: 640px; margin: 60px auto; padding: 0 20px; }
h1 { font-size: 1.6em; }
form { margin-top: 30px; }
label { display: block; font-size: 13px; text-transform: uppercase; letter-spacing: 1px; color: #888; margin: 18px 0 6px; }
textarea { width: 100%; height: 160px; font-family: inherit; font-size: 16px; padding: 8px; box-sizing: border-box; }
input[type=text] { width: 100%; font-size: 16px; padding: 8px; box-sizing: border-box; }
button { margin-top: 20px; font-size: 16px; padding: 10px 24px; background: #ffeb3b; border: 1px solid #ccc; border-radius: 4px; cursor: pointer; }
button:hover { background: #fff59d; }
</style>
</head>
<body>
<h1>Wortlupe &mdash; German Reading Assistant</h1>
<p>Paste German text, upload a document, or point at an article URL. Every word becomes clickable with its meaning and grammar.</p>
<form action="/analyze" method="post" enctype="multipart/form-data">
<label for="text_input">Paste text</label>
<textarea id="text_input" name="text_input" placeholder="Der Hund läuft schnell."></textarea>
<label for="file">Or upload a file (.txt, .md, .html)</label>
<input type="file" id="file" name="file">
<label for="url">Or fetch an article</label>
<input type="text" id="url" name="url" placeholder="https://www.dw.com/de/...">
<button type="submit">Analyze</button>
</form>
</body>
</html>
`
