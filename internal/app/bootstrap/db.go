// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/complaints/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema makes sure the complaints collection exists with its
// validator. Documents are only looked up by _id, which MongoDB always
// indexes, so no further indexes are created.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return validators.EnsureComplaints(ctx, deps.MongoDatabase, appCfg.MongoCollection, logger)
}
