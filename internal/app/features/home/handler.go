package home

import (
	"net/http"

	"go.uber.org/zap"
)

// Greeting is the fixed body served at GET /.
const Greeting = "Yoo"

// Handler serves the root greeting.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		Log: logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – greeting                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(Greeting)); err != nil {
		h.Log.Debug("write greeting failed", zap.Error(err))
	}
}
