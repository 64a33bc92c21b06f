package phone

import (
	"database/sql"

	"go.uber.org/zap"
)

func NewModule(db *sql.DB, brands BrandLookup, logger *zap.Logger) *Controller {
	repo := NewMySQLRepository(db)
	svc := NewService(repo, brands, logger)
	return NewController(svc, logger)
}
