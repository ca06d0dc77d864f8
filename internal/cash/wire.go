package cash

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/cactus377/japede-cardapio/internal/cash/controller"
	"github.com/cactus377/japede-cardapio/internal/cash/repository"
	"github.com/cactus377/japede-cardapio/internal/cash/service"
)

func NewModule(db *sql.DB, closeTimeout time.Duration, logger *zap.Logger) (*service.LedgerService, *controller.Controller) {
	sessionRepo := repository.NewMySQLSessionRepository(db)
	adjustmentRepo := repository.NewMySQLAdjustmentRepository(db)

	svc := service.NewLedgerService(db, sessionRepo, adjustmentRepo, logger, closeTimeout)
	ctrl := controller.NewController(svc, logger)

	return svc, ctrl
}
