package table

import (
	"database/sql"

	"go.uber.org/zap"

	orderrepo "github.com/cactus377/japede-cardapio/internal/order/repository"
	"github.com/cactus377/japede-cardapio/internal/table/controller"
	"github.com/cactus377/japede-cardapio/internal/table/repository"
	"github.com/cactus377/japede-cardapio/internal/table/service"
)

func NewModule(db *sql.DB, logger *zap.Logger) (*service.TableService, *controller.Controller) {
	tableRepo := repository.NewMySQLTableRepository(db)
	orderRepo := orderrepo.NewMySQLOrderRepository(db)

	svc := service.NewTableService(tableRepo, orderRepo, logger)
	ctrl := controller.NewController(svc, logger)

	return svc, ctrl
}
