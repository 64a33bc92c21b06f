package brand

import (
	"database/sql"

	"go.uber.org/zap"
)

// NewModule wires the brand feature. The phone lister comes from outside
// because the phone feature owns that repository.
func NewModule(db *sql.DB, phones PhoneLister, logger *zap.Logger) *Controller {
	repo := NewMySQLRepository(db)
	svc := NewService(repo, phones, logger)
	return NewController(svc, logger)
}
