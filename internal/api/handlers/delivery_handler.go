package handlers

import (
	"errors"
	"net/http"

	"github.com/TWRT/memory-relay/internal/repository"
	"github.com/TWRT/memory-relay/internal/service"
)

type DeliveryHandler struct {
	relayService *service.RelayService
}

func NewDeliveryHandler(relayService *service.RelayService) *DeliveryHandler {
	return &DeliveryHandler{
		relayService: relayService,
	}
}

func (h *DeliveryHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.relayService.GetDeliveries()
	if err != nil {
		writeDeliveryError(w, "Error trying to get deliveries: ", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deliveries": deliveries,
	})
}

func (h *DeliveryHandler) GetDelivery(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	delivery, err := h.relayService.GetDelivery(id)
	if err != nil {
		writeDeliveryError(w, "Error trying to get delivery: ", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"delivery": delivery,
	})
}

func writeDeliveryError(w http.ResponseWriter, prefix string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrDeliveryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrAuditDisabled):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{
		"error": prefix + err.Error(),
	})
}
