package user

import (
	"database/sql"

	"go.uber.org/zap"
)

// NewModule wires the user feature. Order history and token issuance come
// from outside because other features own them.
func NewModule(db *sql.DB, orders UserOrders, tokens TokenIssuer, logger *zap.Logger) *Controller {
	repo := NewMySQLRepository(db)
	svc := NewService(repo, logger)
	return NewController(svc, orders, tokens, logger)
}
