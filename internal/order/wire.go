package order

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	cashservice "github.com/cactus377/japede-cardapio/internal/cash/service"
	"github.com/cactus377/japede-cardapio/internal/config"
	"github.com/cactus377/japede-cardapio/internal/order/controller"
	"github.com/cactus377/japede-cardapio/internal/order/repository"
	"github.com/cactus377/japede-cardapio/internal/order/scheduler"
	"github.com/cactus377/japede-cardapio/internal/order/service"
	"github.com/cactus377/japede-cardapio/internal/order/usecase"
	tableservice "github.com/cactus377/japede-cardapio/internal/table/service"
)

func NewModule(
	db *sql.DB,
	flow config.FlowDurations,
	sweepInterval time.Duration,
	tables *tableservice.TableService,
	ledger *cashservice.LedgerService,
	logger *zap.Logger,
) (*controller.Controller, *scheduler.Scheduler) {
	orderRepo := repository.NewMySQLOrderRepository(db)

	lifecycle := service.NewLifecycleService(orderRepo, flow, logger)
	sched := scheduler.New(orderRepo, lifecycle, sweepInterval, logger)
	closer := usecase.NewCloseAccountUseCase(orderRepo, lifecycle, ledger, tables, logger)

	ctrl := controller.NewController(orderRepo, lifecycle, sched, closer, logger)

	return ctrl, sched
}
