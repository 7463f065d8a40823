package api

import (
	"net/http"

	_ "github.com/AlexZinkM/evm-wallet/internal/docs"
	"github.com/AlexZinkM/evm-wallet/internal/handler"
	"github.com/AlexZinkM/evm-wallet/wallet"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(svc *wallet.Service) http.Handler {
	h := handler.NewWalletHandler(svc)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)
	mux.Handle("/metrics", promhttp.Handler())

	// Wallet endpoints
	mux.HandleFunc("/wallet/create", h.Create)
	mux.HandleFunc("/wallet/import", h.Import)
	mux.HandleFunc("/wallet/unlock", h.Unlock)
	mux.HandleFunc("/wallet/lock", h.Lock)
	mux.HandleFunc("/wallet/reset", h.Reset)
	mux.HandleFunc("/wallet/export", h.Export)
	mux.HandleFunc("/wallet/backup", h.Backup)
	mux.HandleFunc("/wallet/restore", h.Restore)
	mux.HandleFunc("/wallet/balance", h.GetBalance)
	mux.HandleFunc("/wallet/receive", h.Receive)
	mux.HandleFunc("/wallet/history", h.History)

	// Network and transfer endpoints
	mux.HandleFunc("/network", h.Network)
	mux.HandleFunc("/transfer/quote", h.Quote)
	mux.HandleFunc("/transfer/send", h.Send)
	mux.HandleFunc("/transfer/status", h.Status)
	mux.HandleFunc("/transfer/dismiss", h.Dismiss)

	return mux
}
