package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/complaints/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger checks database connectivity. *mongo.Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Counter reports how many complaints are stored.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client  Pinger
	Counter Counter
	Log     *zap.Logger
}

// NewHandler constructs a health Handler. counter may be nil.
func NewHandler(client Pinger, counter Counter, logger *zap.Logger) *Handler {
	return &Handler{
		Client:  client,
		Counter: counter,
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	Complaints *int64 `json:"complaints,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "complaints":12 }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	// informational only
	if h.Counter != nil {
		if n, err := h.Counter.Count(ctx); err == nil {
			resp.Complaints = &n
		} else {
			h.Log.Warn("health-check: complaint count failed", zap.Error(err))
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
