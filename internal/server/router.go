package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	cashctrl "github.com/cactus377/japede-cardapio/internal/cash/controller"
	orderctrl "github.com/cactus377/japede-cardapio/internal/order/controller"
	tablectrl "github.com/cactus377/japede-cardapio/internal/table/controller"
)

func NewRouter(
	orders *orderctrl.Controller,
	tables *tablectrl.Controller,
	cash *cashctrl.Controller,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/check_transitions", orders.HandleCheckTransitions)
		r.Route("/{orderId}", func(r chi.Router) {
			r.Get("/", orders.HandleGetOrder)
			r.Patch("/status", orders.HandleUpdateStatus)
			r.Patch("/toggle_auto_progress", orders.HandleToggleAutoProgress)
			r.Post("/close_table_account", orders.HandleCloseTableAccount)
		})
	})

	r.Route("/tables/{tableId}", func(r chi.Router) {
		r.Post("/bind", tables.HandleBindOrder)
		r.Post("/release_for_cleaning", tables.HandleReleaseForCleaning)
		r.Post("/mark_clean", tables.HandleMarkClean)
		r.Post("/reserve", tables.HandleReserve)
		r.Post("/cancel_reservation", tables.HandleCancelReservation)
	})

	r.Route("/cash_register_sessions", func(r chi.Router) {
		r.Post("/open", cash.HandleOpenSession)
		r.Get("/active", cash.HandleGetActiveSession)
		r.Post("/{sessionId}/close", cash.HandleCloseSession)
		r.Get("/{sessionId}/adjustments", cash.HandleListAdjustments)
	})

	r.Post("/cash_adjustments", cash.HandleAddAdjustment)

	return r
}
