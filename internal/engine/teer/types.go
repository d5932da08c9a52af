package teer

import "time"

// PlayType identifica o sorteio alvo de uma aposta.
// FORECAST é virtual: combina o par FR+SR de um mesmo dia.
type PlayType string

const (
	PlayFR       PlayType = "FR"
	PlaySR       PlayType = "SR"
	PlayForecast PlayType = "FORECAST"
)

// Mode identifica como o número apostado é comparado com o resultado.
type Mode string

const (
	ModeDirect Mode = "direct" // número exato 00-99
	ModeHouse  Mode = "house"  // dígito das dezenas do resultado
	ModeEnding Mode = "ending" // dígito das unidades do resultado
)

type RoundStatus string

const (
	RoundScheduled RoundStatus = "SCHEDULED"
	RoundActive    RoundStatus = "ACTIVE"
	RoundCompleted RoundStatus = "COMPLETED"
	RoundCancelled RoundStatus = "CANCELLED"
)

// House é uma banca Teer com seus horários e multiplicadores.
// Imutável durante um round; o servidor é o dono do dado.
type House struct {
	ID       int64
	Name     string // ex: "Shillong", "Khanapara"
	Location string

	// Rates sobrescreve a tabela default por (jogo, modo).
	// Célula ausente ou <= 0 cai no default.
	Rates map[PlayType]map[Mode]int64
}

// Round é um sorteio agendado de uma banca.
// O estado aberto/fechado é função pura de (now, BettingClosesAt);
// Result chega depois, publicado pelo servidor.
type Round struct {
	ID              int64
	HouseID         int64
	Type            PlayType
	Status          RoundStatus
	ScheduledTime   time.Time
	BettingClosesAt time.Time
	Result          *int // 0-99 quando publicado
}

// HouseDigit extrai o dígito de "house" (dezenas) de um resultado 0-99.
func HouseDigit(result int) int { return (result / 10) % 10 }

// EndingDigit extrai o dígito de "ending" (unidades) de um resultado 0-99.
func EndingDigit(result int) int { return result % 10 }
