package complaints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dalemusser/complaints/internal/app/system/httpx"
	"github.com/dalemusser/complaints/internal/app/system/timeouts"
	"github.com/dalemusser/complaints/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /complaints.
//
// Body: a single {"complaint":"..."} object. A missing, null or blank
// complaint, or anything after the object, is a 400 and nothing is stored.
// Any _id or __v sent by the client is ignored; the id is generated here and
// the version starts at 0.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var in models.NewComplaint
	body := http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(&in); err != nil {
		h.fail(w, r, opCreate, start, fmt.Errorf("%w: decode body: %w", models.ErrValidation, err))
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		h.fail(w, r, opCreate, start, fmt.Errorf("%w: trailing data after body", models.ErrValidation))
		return
	}

	c, err := in.Build()
	if err != nil {
		h.fail(w, r, opCreate, start, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "complaint insert")
	defer cancel()

	saved, err := h.Store.Insert(ctx, c)
	if err != nil {
		h.fail(w, r, opCreate, start, err)
		return
	}

	h.Log.Info("complaint created", zap.String("id", saved.ID.Hex()))
	if err := httpx.WriteJSON(w, http.StatusOK, saved); err != nil {
		h.Log.Warn("write created complaint failed", zap.String("id", saved.ID.Hex()), zap.Error(err))
	}
	h.done(opCreate, start)
}
