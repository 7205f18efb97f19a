package catalog

import (
	"database/sql"

	"go.uber.org/zap"

	"atelier/internal/catalog/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLRepository(db)
	svc := NewService(repo)
	return NewController(svc, logger)
}
