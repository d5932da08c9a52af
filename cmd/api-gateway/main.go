package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"

	"github.com/radieske/teer-platform-poc/internal/shared/config"
	"github.com/radieske/teer-platform-poc/internal/shared/logger"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

// Borda única pro front: roteia REST e WebSocket pros serviços de
// round, ticket e wallet, com CORS liberado pro app.
func main() {
	cfg := config.Load()
	log, _ := logger.New("api-gateway", cfg.Env)
	defer log.Sync()

	rounds := rp(cfg.RoundServiceURL)
	tickets := rp(cfg.TicketServiceURL)
	wallet := rp(cfg.WalletURL)

	mux := http.NewServeMux()

	// rounds e bancas (ex.: /api/rounds/v1/houses -> round-service)
	mux.Handle("/api/rounds/", http.StripPrefix("/api/rounds", rounds))

	// tickets (ex.: /api/tickets/v1/tickets -> ticket-service)
	mux.Handle("/api/tickets/", http.StripPrefix("/api/tickets", tickets))

	// wallet (ex.: /api/wallet/wallet?userId= -> wallet-service)
	mux.Handle("/api/wallet/", http.StripPrefix("/api/wallet", wallet))

	// feed de resultados em tempo real (upgrade WS passa pelo proxy)
	mux.Handle("/ws/results", rounds)

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
