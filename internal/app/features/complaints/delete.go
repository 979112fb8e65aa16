package complaints

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/complaints/internal/app/system/timeouts"
	"github.com/dalemusser/complaints/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /complaints/{id}.
// 204 when a complaint was removed, 404 when none was, 400 for a malformed id.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := models.ParseComplaintID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, opDelete, start, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "complaint delete")
	defer cancel()

	n, err := h.Store.DeleteByID(ctx, id)
	if err != nil {
		h.fail(w, r, opDelete, start, err)
		return
	}
	if n == 0 {
		h.fail(w, r, opDelete, start, fmt.Errorf("%w: %s", models.ErrNotFound, id.Hex()))
		return
	}

	h.Log.Info("complaint deleted", zap.String("id", id.Hex()))
	w.WriteHeader(http.StatusNoContent)
	h.done(opDelete, start)
}
