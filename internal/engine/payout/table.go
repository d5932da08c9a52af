package payout

import "github.com/radieske/teer-platform-poc/internal/engine/teer"

// defaults é a tabela fixa de multiplicadores usada quando a banca
// não define override próprio.
var defaults = map[teer.PlayType]map[teer.Mode]int64{
	teer.PlayFR: {
		teer.ModeDirect: 80,
		teer.ModeHouse:  8,
		teer.ModeEnding: 8,
	},
	teer.PlaySR: {
		teer.ModeDirect: 80,
		teer.ModeHouse:  8,
		teer.ModeEnding: 8,
	},
	teer.PlayForecast: {
		teer.ModeDirect: 400,
		teer.ModeHouse:  40,
		teer.ModeEnding: 40,
	},
}

// Rate resolve o multiplicador de payout para (banca, jogo, modo).
// Nunca falha: combinação desconhecida devolve 1 pra manter a
// aritmética de payout definida no caller.
func Rate(h *teer.House, play teer.PlayType, mode teer.Mode) int64 {
	if h != nil {
		if byMode, ok := h.Rates[play]; ok {
			if r, ok := byMode[mode]; ok && r > 0 {
				return r
			}
		}
	}
	if byMode, ok := defaults[play]; ok {
		if r, ok := byMode[mode]; ok {
			return r
		}
	}
	return 1
}

// Defaults devolve uma cópia da tabela default, útil pra seed e pra
// exibição de taxas quando a banca ainda não foi carregada.
func Defaults() map[teer.PlayType]map[teer.Mode]int64 {
	out := make(map[teer.PlayType]map[teer.Mode]int64, len(defaults))
	for play, byMode := range defaults {
		m := make(map[teer.Mode]int64, len(byMode))
		for mode, r := range byMode {
			m[mode] = r
		}
		out[play] = m
	}
	return out
}
