package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/teer-platform-poc/internal/round-service/cache"
	"github.com/radieske/teer-platform-poc/internal/round-service/dto"
	"github.com/radieske/teer-platform-poc/internal/round-service/repo"
	"github.com/radieske/teer-platform-poc/internal/round-service/ws"
)

// API expõe o feed REST de bancas/rounds consumido pelo engine do
// cliente. Leitura no Postgres com cache Redis na frente.
type API struct {
	ReadRepo *repo.ReadRepo // acesso ao banco de dados
	Cache    *cache.Cache   // cache de bancas/rounds
	Hub      *ws.Hub        // broadcast de resultados
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/houses", a.listHouses)                 // Bancas ativas + payout
	r.Get("/v1/houses/{id}/rounds", a.listRounds)     // Rounds do dia da banca
	r.Get("/v1/rounds/open/count", a.countOpenRounds) // Badge de rounds abertos
	r.Get("/ws/results", a.Hub.HandleWS)              // Resultados em tempo real
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// listHouses retorna as bancas ativas, preferencialmente do cache
func (a *API) listHouses(w http.ResponseWriter, r *http.Request) {
	var fromCache []dto.House
	if ok, _ := a.Cache.GetHouses(r.Context(), &fromCache); ok {
		writeJSON(w, http.StatusOK, fromCache)
		return
	}

	hs, err := a.ReadRepo.ListHouses(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	_ = a.Cache.SetHouses(r.Context(), hs, 60*time.Second)
	writeJSON(w, http.StatusOK, hs)
}

// listRounds retorna os rounds do dia de uma banca
func (a *API) listRounds(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid house id"})
		return
	}

	var fromCache []dto.Round
	if ok, _ := a.Cache.GetRounds(r.Context(), id, &fromCache); ok {
		writeJSON(w, http.StatusOK, fromCache)
		return
	}

	rds, err := a.ReadRepo.ListRounds(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// TTL curto: o deadline derruba a utilidade do dado rápido
	_ = a.Cache.SetRounds(r.Context(), id, rds, 15*time.Second)
	writeJSON(w, http.StatusOK, rds)
}

// countOpenRounds retorna quantos rounds aceitam aposta agora
func (a *API) countOpenRounds(w http.ResponseWriter, r *http.Request) {
	if n, ok, _ := a.Cache.GetOpenCount(r.Context()); ok {
		writeJSON(w, http.StatusOK, dto.OpenCount{Count: n})
		return
	}

	n, err := a.ReadRepo.CountOpen(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	_ = a.Cache.SetOpenCount(r.Context(), n, 10*time.Second)
	writeJSON(w, http.StatusOK, dto.OpenCount{Count: n})
}
