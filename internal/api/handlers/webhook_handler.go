package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/TWRT/memory-relay/internal/models"
	"github.com/TWRT/memory-relay/internal/service"
)

const maxWebhookBody = 4 << 20

type WebhookResponse struct {
	Message string `json:"message"`
	models.Summary
}

type WebhookHandler struct {
	relayService *service.RelayService
	logger       *slog.Logger
}

func NewWebhookHandler(relayService *service.RelayService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		relayService: relayService,
		logger:       logger,
	}
}

// HandleMemory receives one Omi memory. The user id comes from the uid query
// parameter Omi appends to the webhook URL.
func (h *WebhookHandler) HandleMemory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
			"error": "Method not allowed",
		})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Error trying to read the body: " + err.Error(),
		})
		return
	}

	event, err := models.ParseEvent(body)
	if err != nil {
		h.logger.Warn("Rejected webhook body", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "JSON error: " + err.Error(),
		})
		return
	}

	uid := r.URL.Query().Get("uid")
	summary, err := h.relayService.HandleEvent(r.Context(), event, uid)
	if err != nil {
		h.logger.Error("Error processing webhook", "user", uid, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"message": err.Error(),
		})
		return
	}

	message := "Success"
	if summary.Processed == 0 && summary.Failed == 0 {
		message = "No action items to process"
	}
	writeJSON(w, http.StatusOK, WebhookResponse{
		Message: message,
		Summary: summary,
	})
}

func (h *WebhookHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":                "healthy",
		"recordStoreConfigured": h.relayService.RecordStoreConfigured(),
		"notifierConfigured":    h.relayService.NotifierConfigured(),
		"timestamp":             time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
