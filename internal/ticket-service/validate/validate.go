package validate

import (
	"errors"
	"fmt"

	"github.com/radieske/teer-platform-poc/internal/engine/numbers"
	"github.com/radieske/teer-platform-poc/internal/engine/teer"
	"github.com/radieske/teer-platform-poc/internal/ticket-service/dto"
	"github.com/radieske/teer-platform-poc/internal/ticket-service/repo"
)

var (
	ErrNoBets           = errors.New("ticket has no bets")
	ErrNonPositiveStake = errors.New("amount must be positive")
	ErrBadForecastType  = errors.New("forecast_type must be direct or house")
)

// Result é o ticket já validado e precificado, pronto pra persistir.
type Result struct {
	Bets              []repo.Bet
	TotalPaise        int64
	MaxPotentialPaise int64
	NeedsFR           bool
	NeedsSR           bool
}

// Ticket revalida todos os buckets do payload contra as regras de
// número e precifica cada aposta com a tabela da banca. O cliente já
// validou, mas o serviço não confia no cliente.
//
// O potencial do ticket é o MAIOR prêmio entre as apostas, não a soma:
// só um número sai por round.
func Ticket(req *dto.PlaceTicketRequest, rates map[string]int64) (*Result, error) {
	res := &Result{}

	type bucketSpec struct {
		entries map[string]int64
		play    teer.PlayType
		mode    teer.Mode
	}
	buckets := []bucketSpec{
		{req.FRDirect, teer.PlayFR, teer.ModeDirect},
		{req.FRHouse, teer.PlayFR, teer.ModeHouse},
		{req.FREnding, teer.PlayFR, teer.ModeEnding},
		{req.SRDirect, teer.PlaySR, teer.ModeDirect},
		{req.SRHouse, teer.PlaySR, teer.ModeHouse},
		{req.SREnding, teer.PlaySR, teer.ModeEnding},
	}

	for _, b := range buckets {
		for raw, paise := range b.entries {
			if paise <= 0 {
				return nil, fmt.Errorf("%s %s %q: %w", b.play, b.mode, raw, ErrNonPositiveStake)
			}
			canonical, err := numbers.Validate(b.mode, raw)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", b.play, b.mode, err)
			}
			rate := rateFor(rates, b.play, b.mode)
			res.Bets = append(res.Bets, repo.Bet{
				PlayType:             string(b.play),
				Mode:                 string(b.mode),
				BetValue:             canonical,
				AmountPaise:          paise,
				PotentialPayoutPaise: paise * rate,
			})
			res.TotalPaise += paise
			if b.play == teer.PlayFR {
				res.NeedsFR = true
			} else {
				res.NeedsSR = true
			}
		}
	}

	if len(req.ForecastPairs) > 0 {
		fcMode := teer.Mode(req.ForecastType)
		if fcMode != teer.ModeDirect && fcMode != teer.ModeHouse {
			return nil, ErrBadForecastType
		}
		rate := rateFor(rates, teer.PlayForecast, fcMode)
		for _, p := range req.ForecastPairs {
			if p.AmountPaise <= 0 {
				return nil, fmt.Errorf("forecast %d-%d: %w", p.FRNumber, p.SRNumber, ErrNonPositiveStake)
			}
			_, _, key, err := numbers.ValidatePair(fcMode, itoa(fcMode, p.FRNumber), itoa(fcMode, p.SRNumber))
			if err != nil {
				return nil, fmt.Errorf("forecast: %w", err)
			}
			res.Bets = append(res.Bets, repo.Bet{
				PlayType:             string(teer.PlayForecast),
				Mode:                 string(fcMode),
				BetValue:             key,
				AmountPaise:          p.AmountPaise,
				PotentialPayoutPaise: p.AmountPaise * rate,
			})
			res.TotalPaise += p.AmountPaise
		}
		res.NeedsFR = true
		res.NeedsSR = true
	}

	if len(res.Bets) == 0 {
		return nil, ErrNoBets
	}

	for _, b := range res.Bets {
		if b.PotentialPayoutPaise > res.MaxPotentialPaise {
			res.MaxPotentialPaise = b.PotentialPayoutPaise
		}
	}
	return res, nil
}

// rateFor busca "fr_direct" etc; multiplicador neutro quando a banca
// não define a combinação.
func rateFor(rates map[string]int64, play teer.PlayType, mode teer.Mode) int64 {
	key := keyPlay(play) + "_" + string(mode)
	if r, ok := rates[key]; ok && r > 0 {
		return r
	}
	return 1
}

func keyPlay(play teer.PlayType) string {
	switch play {
	case teer.PlayFR:
		return "fr"
	case teer.PlaySR:
		return "sr"
	default:
		return "forecast"
	}
}

func itoa(mode teer.Mode, n int) string {
	if mode == teer.ModeDirect {
		return fmt.Sprintf("%02d", n)
	}
	return fmt.Sprintf("%d", n)
}
