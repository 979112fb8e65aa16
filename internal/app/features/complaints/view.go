package complaints

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/complaints/internal/app/system/httpx"
	"github.com/dalemusser/complaints/internal/app/system/timeouts"
	"github.com/dalemusser/complaints/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeComplaint handles GET /complaints/{id}.
// 400 for a malformed id, 404 when no complaint has that id.
func (h *Handler) ServeComplaint(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := models.ParseComplaintID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, opGet, start, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "complaint get")
	defer cancel()

	c, found, err := h.Store.FindByID(ctx, id)
	if err != nil {
		h.fail(w, r, opGet, start, err)
		return
	}
	if !found {
		h.fail(w, r, opGet, start, fmt.Errorf("%w: %s", models.ErrNotFound, id.Hex()))
		return
	}

	if err := httpx.WriteJSON(w, http.StatusOK, c); err != nil {
		h.Log.Warn("write complaint failed", zap.String("id", id.Hex()), zap.Error(err))
	}
	h.done(opGet, start)
}
