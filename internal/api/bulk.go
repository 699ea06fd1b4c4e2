package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/raunak-choudhary/portfolio-admin/internal/console"
	"github.com/raunak-choudhary/portfolio-admin/internal/signal"
	"github.com/raunak-choudhary/portfolio-admin/internal/store"
	"github.com/raunak-choudhary/portfolio-admin/pkg/handlers"
	"github.com/raunak-choudhary/portfolio-admin/pkg/routes"
)

// BulkHandler applies one operation to a batch of message records.
type BulkHandler struct {
	store   store.Store
	signals signal.Invalidator
	logger  *slog.Logger
}

// NewBulkHandler creates the messages bulk operation handler.
func NewBulkHandler(st store.Store, signals signal.Invalidator, logger *slog.Logger) *BulkHandler {
	return &BulkHandler{
		store:   st,
		signals: signals,
		logger:  logger.With("handler", "messages-bulk"),
	}
}

// Routes returns the bulk endpoint route group.
func (h *BulkHandler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/api/messages",
		Description: "Bulk message operations",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/bulk", Handler: h.Apply},
		},
	}
}

type bulkRequest struct {
	Op  string      `json:"op"`
	IDs []uuid.UUID `json:"ids"`
}

type bulkResponse struct {
	Op      string         `json:"op"`
	Count   int            `json:"count"`
	Records []store.Record `json:"records,omitempty"`
}

// Apply runs one bulk operation all-or-nothing over the listed records.
func (h *BulkHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	op, ok := console.ParseBulkOp(req.Op)
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrUnknownBulkOp)
		return
	}

	if len(req.IDs) == 0 {
		handlers.RespondJSON(w, http.StatusOK, bulkResponse{Op: string(op)})
		return
	}

	changes, update := op.FieldChanges(time.Now())
	if !update {
		if err := h.store.DeleteMany(r.Context(), "messages", req.IDs); err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		h.signals.Invalidate(r.Context(), "messages")
		handlers.RespondJSON(w, http.StatusOK, bulkResponse{Op: string(op), Count: len(req.IDs)})
		return
	}

	records, err := h.store.UpdateMany(r.Context(), "messages", req.IDs, changes)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.signals.Invalidate(r.Context(), "messages")
	handlers.RespondJSON(w, http.StatusOK, bulkResponse{Op: string(op), Count: len(records), Records: records})
}
