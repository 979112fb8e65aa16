package complaints

import (
	"net/http"
	"time"

	"github.com/dalemusser/complaints/internal/app/system/httpx"
	"github.com/dalemusser/complaints/internal/app/system/timeouts"
	"github.com/dalemusser/complaints/internal/domain/models"
	"go.uber.org/zap"
)

// ServeList handles GET /complaints and returns every complaint as a JSON
// array, [] when the collection is empty.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "complaints list")
	defer cancel()

	all, err := h.Store.FindAll(ctx)
	if err != nil {
		h.fail(w, r, opList, start, err)
		return
	}
	if all == nil {
		all = []models.Complaint{}
	}

	if err := httpx.WriteJSON(w, http.StatusOK, all); err != nil {
		h.Log.Warn("write complaints list failed", zap.Error(err))
	}
	h.done(opList, start)
}
