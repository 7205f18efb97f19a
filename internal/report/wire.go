package report

import (
	"database/sql"

	"go.uber.org/zap"

	"atelier/internal/report/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLRepository(db)
	svc := NewService(repo)
	return NewController(svc, logger)
}
