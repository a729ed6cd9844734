package feed

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/bluebird1313/reporder/internal/domain"
	"github.com/bluebird1313/reporder/internal/repository"
	"github.com/bluebird1313/reporder/internal/service"
)

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Handler exposes the ingest endpoints: the brand sales webhook, direct feed
// upload and a manual sync trigger.
type Handler struct {
	feeds   *Service
	metrics *service.MetricsService
}

func NewHandler(feeds *Service, metrics *service.MetricsService) *Handler {
	return &Handler{feeds: feeds, metrics: metrics}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/webhook/brand-sales", h.handleBrandSales).Methods(http.MethodPost)
	r.HandleFunc("/feed/upload", h.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/feed/sync", h.handleSync).Methods(http.MethodPost)
}

type brandSalesPayload struct {
	StoreID      string          `json:"store_id"`
	Brand        string          `json:"brand"`
	Date         string          `json:"date"`
	AOSales      decimal.Decimal `json:"ao_sales"`
	PrebookSales decimal.Decimal `json:"prebook_sales"`
	TotalUnits   int             `json:"total_units"`
}

func (p brandSalesPayload) validate() error {
	if p.StoreID == "" {
		return errors.New("store_id is required")
	}
	if p.Brand == "" {
		return errors.New("brand is required")
	}
	if !dateFormat.MatchString(p.Date) {
		return errors.New("date must be formatted YYYY-MM-DD")
	}
	return nil
}

func (h *Handler) handleBrandSales(w http.ResponseWriter, r *http.Request) {
	var payload brandSalesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if err := payload.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be a real calendar day")
		return
	}

	metric := &domain.SalesMetric{
		StoreID:      payload.StoreID,
		Brand:        payload.Brand,
		Date:         date,
		AOSales:      payload.AOSales,
		PrebookSales: payload.PrebookSales,
		TotalUnits:   payload.TotalUnits,
	}

	if err := h.metrics.RecordBrandSales(r.Context(), metric); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"metric":  metric,
	})
}

// handleUpload ingests one feed file posted as the raw request body.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("filename")
	if fileName == "" {
		fileName = "upload.csv"
	}

	summary, err := h.feeds.SyncReader(r.Context(), "upload", fileName, r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"summary": summary,
	})
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.feeds.SyncAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"summaries": summaries,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	log.Error().Int("status", status).Msg(message)
	writeJSON(w, status, map[string]string{"error": message})
}
