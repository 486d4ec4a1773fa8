package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"webclone/internal/domain/entity"
	"webclone/internal/infrastructure/preview"
)

type errorResponse struct {
	Error string `json:"error"`
}

type fetchSiteRequest struct {
	// URL is decoded loosely so a non-string value can be told apart from a
	// malformed body.
	URL             any      `json:"url"`
	WaitForLazyLoad *bool    `json:"waitForLazyLoad"`
	MaxWaitTime     *float64 `json:"maxWaitTime"`
}

type generateCloneRequest struct {
	Layout     *entity.LayoutSummary `json:"layout"`
	Screenshot string                `json:"screenshot"`
	APIKey     string                `json:"apiKey"`
}

type previewRequest struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

// POST /api/fetch-site
func (h *Handler) handleFetchSite(w http.ResponseWriter, r *http.Request) {
	var req fetchSiteRequest
	if !h.decode(w, r, &req) {
		return
	}

	rawURL, ok := req.URL.(string)
	if !ok || strings.TrimSpace(rawURL) == "" {
		writeError(w, http.StatusBadRequest, "Invalid URL")
		return
	}

	capReq := entity.NewCaptureRequest(rawURL)
	if req.WaitForLazyLoad != nil {
		capReq.WaitForLazyLoad = *req.WaitForLazyLoad
	}
	if req.MaxWaitTime != nil && *req.MaxWaitTime > 0 {
		capReq.MaxWaitTime = time.Duration(*req.MaxWaitTime * float64(time.Millisecond))
	}

	result, err := h.capture.Capture(r.Context(), capReq)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidURL):
			writeError(w, http.StatusBadRequest, "Invalid URL")
		case errors.Is(err, entity.ErrEmptyContent):
			writeError(w, http.StatusInternalServerError, "Page content is empty or failed to load.")
		default:
			h.logger.Error("capture failed", "url", rawURL, "error", err)
			writeError(w, http.StatusInternalServerError, messageOr(err, "Failed to fetch site"))
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// POST /api/generate-clone
func (h *Handler) handleGenerateClone(w http.ResponseWriter, r *http.Request) {
	var req generateCloneRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.synth.Synthesize(r.Context(), entity.SynthesisRequest{
		Layout:     req.Layout,
		Screenshot: req.Screenshot,
		APIKey:     req.APIKey,
	})
	if err != nil {
		var perr *entity.ProviderError
		switch {
		case errors.Is(err, entity.ErrMissingInput):
			writeError(w, http.StatusBadRequest, "Missing layout or screenshot")
		case errors.Is(err, entity.ErrMissingCredential):
			writeError(w, http.StatusBadRequest, "Missing OpenAI API key")
		case errors.As(err, &perr):
			writeError(w, http.StatusInternalServerError, messageOr(perr, "Failed to generate code"))
		default:
			h.logger.Error("clone generation failed", "error", err)
			writeError(w, http.StatusInternalServerError, messageOr(err, "Failed to generate code"))
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// POST /api/preview
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !h.decode(w, r, &req) {
		return
	}

	doc, err := preview.Document(req.HTML, req.CSS)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func messageOr(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
