/*
handlers.go - HTTP API handlers for the fiscal file engine

PURPOSE:
  Exposes the file generator via a small REST surface. Handles HTTP
  request/response, query parsing, and delegates to the generator.

ENDPOINTS:
  GET /api/health                      Liveness probe
  GET /api/sintegra?start=&end=        Generate and download the file
                                       for [start, end] (YYYY-MM-DD)

RESPONSE FORMAT:
  The export endpoint streams the fixed-width file as an attachment.
  The payload is pure 7-bit ASCII, so the charset declaration is
  us-ascii rather than UTF-8.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Missing or malformed query parameters
  - 422: Data-quality failures (supplier without tax id, bad CFOP)
  - 500: Structural or storage errors

SEE ALSO:
  - generator/generator.go: The driver behind the export endpoint
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/sintegra-engine/domain"
	"github.com/warp/sintegra-engine/generator"
	"github.com/warp/sintegra-engine/logging"
)

var log = logging.GetLogger("api")

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	View domain.View
}

// NewHandler creates a new handler reading from the given view.
func NewHandler(view domain.View) *Handler {
	return &Handler{View: view}
}

// =============================================================================
// EXPORT
// =============================================================================

// Export generates the fiscal file for the requested period and sends
// it as a download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	start, err := parseDateParam(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start parameter (use YYYY-MM-DD)", err)
		return
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end parameter (use YYYY-MM-DD)", err)
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end must not precede start", nil)
		return
	}

	data, err := generator.Generate(r.Context(), h.View, start, end)
	if err != nil {
		if generator.IsDataQuality(err) {
			writeError(w, http.StatusUnprocessableEntity, "Period data cannot be filed", err)
			return
		}
		log.Errorw("generation failed", "error", err, "start", start, "end", end)
		writeError(w, http.StatusInternalServerError, "Failed to generate file", err)
		return
	}

	filename := fmt.Sprintf("sintegra_%s.txt", start.Format("200601"))
	w.Header().Set("Content-Type", "text/plain; charset=us-ascii")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Health is a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing %s", name)
	}
	return time.Parse("2006-01-02", raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}
