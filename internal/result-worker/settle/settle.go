package settle

import (
	"strings"

	"github.com/radieske/teer-platform-poc/internal/engine/numbers"
	"github.com/radieske/teer-platform-poc/internal/engine/teer"
)

// Bet é a visão mínima de uma aposta pendente pra liquidação.
type Bet struct {
	ID                   string
	TicketID             string
	UserID               string
	PlayType             string // FR | SR | FORECAST
	Mode                 string // direct | house | ending
	BetValue             string // "05", "7" ou "07-41"
	PotentialPayoutPaise int64
}

// Outcome é o resultado da liquidação de uma aposta.
type Outcome struct {
	Won         bool
	PayoutPaise int64
}

// Evaluate decide se a aposta ganhou dado o número sorteado do round
// dela (FR ou SR). Forecast usa EvaluateForecast.
//
// direct compara o número inteiro; house compara o dígito das dezenas;
// ending compara o dígito das unidades.
func Evaluate(b Bet, result int) Outcome {
	picked := numbers.Value(b.BetValue)
	var won bool
	switch teer.Mode(b.Mode) {
	case teer.ModeDirect:
		won = picked == result
	case teer.ModeHouse:
		won = picked == teer.HouseDigit(result)
	case teer.ModeEnding:
		won = picked == teer.EndingDigit(result)
	}
	return outcome(b, won)
}

// EvaluateForecast decide um forecast com os dois resultados em mãos.
// Os dois componentes precisam bater; um par meio certo perde inteiro.
func EvaluateForecast(b Bet, frResult, srResult int) Outcome {
	frPick, srPick, ok := SplitPair(b.BetValue)
	if !ok {
		return Outcome{}
	}
	var won bool
	switch teer.Mode(b.Mode) {
	case teer.ModeDirect:
		won = frPick == frResult && srPick == srResult
	case teer.ModeHouse:
		won = frPick == teer.HouseDigit(frResult) && srPick == teer.HouseDigit(srResult)
	}
	return outcome(b, won)
}

// SplitPair quebra a chave "07-41" nos dois componentes do forecast.
func SplitPair(key string) (fr, sr int, ok bool) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	return numbers.Value(parts[0]), numbers.Value(parts[1]), true
}

// TicketStatus consolida o status do ticket quando todas as apostas
// dele foram liquidadas.
func TicketStatus(won, lost int) string {
	switch {
	case lost == 0:
		return "WON"
	case won == 0:
		return "LOST"
	default:
		return "PARTIAL"
	}
}

func outcome(b Bet, won bool) Outcome {
	if !won {
		return Outcome{}
	}
	return Outcome{Won: true, PayoutPaise: b.PotentialPayoutPaise}
}
