package ticket

import (
	"errors"
	"time"

	"github.com/radieske/teer-platform-poc/internal/engine/numbers"
	"github.com/radieske/teer-platform-poc/internal/engine/payout"
	"github.com/radieske/teer-platform-poc/internal/engine/selection"
	"github.com/radieske/teer-platform-poc/internal/engine/teer"
	"github.com/radieske/teer-platform-poc/internal/engine/ticket/dto"
)

// ErrEmptyTicket: nenhum bucket tem entrada; ticket vazio nunca é submetido.
var ErrEmptyTicket = errors.New("ticket has no selections")

// RoundRefs identifica os rounds alvo do ticket.
type RoundRefs struct {
	FRRoundID int64
	SRRoundID int64
}

// Selections agrupa os sets em construção por (jogo, modo).
// Sets nulos contam como vazios.
type Selections struct {
	FRDirect *selection.Set
	FRHouse  *selection.Set
	FREnding *selection.Set
	SRDirect *selection.Set
	SRHouse  *selection.Set
	SREnding *selection.Set

	Forecast     *selection.Set
	ForecastType teer.Mode // direct | house
}

// TotalAmount soma todos os buckets.
func (s *Selections) TotalAmount() int64 {
	var total int64
	for _, set := range s.all() {
		if set != nil {
			total += set.TotalAmount()
		}
	}
	return total
}

// MaxPotentialPayout é o maior prêmio possível de UM resultado entre
// todos os buckets (só um número sai por round), precificado com a
// tabela da banca.
func (s *Selections) MaxPotentialPayout(h *teer.House) int64 {
	var max int64
	consider := func(set *selection.Set, play teer.PlayType, mode teer.Mode) {
		if set == nil || set.Len() == 0 {
			return
		}
		if p := set.MaxSinglePayout(payout.Rate(h, play, mode)); p > max {
			max = p
		}
	}
	consider(s.FRDirect, teer.PlayFR, teer.ModeDirect)
	consider(s.FRHouse, teer.PlayFR, teer.ModeHouse)
	consider(s.FREnding, teer.PlayFR, teer.ModeEnding)
	consider(s.SRDirect, teer.PlaySR, teer.ModeDirect)
	consider(s.SRHouse, teer.PlaySR, teer.ModeHouse)
	consider(s.SREnding, teer.PlaySR, teer.ModeEnding)
	consider(s.Forecast, teer.PlayForecast, s.ForecastType)
	return max
}

// NeedsFR indica se algum bucket depende do round FR.
func (s *Selections) NeedsFR() bool {
	return notEmpty(s.FRDirect) || notEmpty(s.FRHouse) || notEmpty(s.FREnding) || notEmpty(s.Forecast)
}

// NeedsSR indica se algum bucket depende do round SR.
func (s *Selections) NeedsSR() bool {
	return notEmpty(s.SRDirect) || notEmpty(s.SRHouse) || notEmpty(s.SREnding) || notEmpty(s.Forecast)
}

// Clear esvazia todos os buckets (pós-submissão).
func (s *Selections) Clear() {
	for _, set := range s.all() {
		if set != nil {
			set.Clear()
		}
	}
}

func (s *Selections) all() []*selection.Set {
	return []*selection.Set{
		s.FRDirect, s.FRHouse, s.FREnding,
		s.SRDirect, s.SRHouse, s.SREnding,
		s.Forecast,
	}
}

func notEmpty(set *selection.Set) bool { return set != nil && set.Len() > 0 }

// AddSelection aplica o gate de deadline à mutação de seleção: todos
// os rounds alvo precisam estar abertos em now, senão nada entra no
// set. Forecast passa os dois rounds; os demais buckets, o seu.
func AddSelection(set *selection.Set, e selection.Entry, now time.Time, rounds ...*teer.Round) error {
	for _, r := range rounds {
		if !openAt(r, now) {
			return ErrRoundClosed
		}
	}
	return set.Add(e)
}

// Assemble serializa as seleções no shape de wire do ticket-service.
// Cada bucket vira seu campo próprio; forecast vira a lista de pares
// mais o discriminador de tipo. Falha com ErrEmptyTicket se nada foi
// selecionado.
func Assemble(userID string, houseID int64, refs RoundRefs, sel *Selections, clientRef string) (dto.TicketPayload, error) {
	p := dto.TicketPayload{
		UserID:    userID,
		HouseID:   houseID,
		ClientRef: clientRef,
	}

	p.FRDirect = bucket(sel.FRDirect)
	p.FRHouse = bucket(sel.FRHouse)
	p.FREnding = bucket(sel.FREnding)
	p.SRDirect = bucket(sel.SRDirect)
	p.SRHouse = bucket(sel.SRHouse)
	p.SREnding = bucket(sel.SREnding)

	if notEmpty(sel.Forecast) {
		p.ForecastType = string(sel.ForecastType)
		for _, e := range sel.Forecast.Entries() {
			p.ForecastPairs = append(p.ForecastPairs, dto.ForecastPair{
				FRNumber:    numbers.Value(e.FRNumber),
				SRNumber:    numbers.Value(e.SRNumber),
				AmountPaise: e.AmountPaise,
			})
		}
	}

	if sel.NeedsFR() {
		p.FRRoundID = refs.FRRoundID
	}
	if sel.NeedsSR() {
		p.SRRoundID = refs.SRRoundID
	}

	if p.FRDirect == nil && p.FRHouse == nil && p.FREnding == nil &&
		p.SRDirect == nil && p.SRHouse == nil && p.SREnding == nil &&
		len(p.ForecastPairs) == 0 {
		return dto.TicketPayload{}, ErrEmptyTicket
	}

	return p, nil
}

// bucket converte um set em {numero: valor}; nil quando vazio, pro
// json omitir o campo.
func bucket(set *selection.Set) map[string]int64 {
	if set == nil || set.Len() == 0 {
		return nil
	}
	out := make(map[string]int64, set.Len())
	for _, e := range set.Entries() {
		out[e.Number] = e.AmountPaise
	}
	return out
}
