// internal/app/features/complaints/handler.go
package complaints

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/complaints/internal/app/system/httpx"
	"github.com/dalemusser/complaints/internal/app/system/limits"
	"github.com/dalemusser/complaints/internal/app/system/metrics"
	"github.com/dalemusser/complaints/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Store

// Store is the persistence the complaint handlers depend on.
// complaintstore.Store and complaintstore.CachedStore both satisfy it.
type Store interface {
	FindAll(ctx context.Context) ([]models.Complaint, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Complaint, bool, error)
	Insert(ctx context.Context, c models.Complaint) (models.Complaint, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// Operation names used in logs and metrics.
const (
	opList   = "list"
	opGet    = "get"
	opCreate = "create"
	opDelete = "delete"
)

// Handler serves the /complaints endpoints. It holds no per-request state.
type Handler struct {
	Store        Store
	Metrics      *metrics.Metrics
	MaxBodyBytes int64
	Log          *zap.Logger
}

// NewHandler constructs a complaints Handler. A non-positive maxBodyBytes
// falls back to limits.MaxComplaintBodySize.
func NewHandler(store Store, m *metrics.Metrics, maxBodyBytes int64, logger *zap.Logger) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = limits.MaxComplaintBodySize
	}
	return &Handler{
		Store:        store,
		Metrics:      m,
		MaxBodyBytes: maxBodyBytes,
		Log:          logger,
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, start time.Time, err error) {
	status := httpx.Fail(w, r, h.Log, op, err)
	h.Metrics.ObserveOperation(op, outcome(status), time.Since(start))
}

func (h *Handler) done(op string, start time.Time) {
	h.Metrics.ObserveOperation(op, metrics.OutcomeOK, time.Since(start))
}

func outcome(status int) string {
	switch {
	case status == http.StatusNotFound:
		return metrics.OutcomeNotFound
	case status >= 500:
		return metrics.OutcomeServerError
	case status >= 400:
		return metrics.OutcomeBadRequest
	default:
		return metrics.OutcomeOK
	}
}
