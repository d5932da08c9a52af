package numbers

import (
	"fmt"
	"strconv"

	"github.com/radieske/teer-platform-poc/internal/engine/teer"
)

// Kind discrimina o motivo de rejeição de um número, pra mensagem
// precisa no caller.
type Kind string

const (
	KindEmpty       Kind = "EMPTY"
	KindWrongLength Kind = "WRONG_LENGTH"
	KindOutOfRange  Kind = "OUT_OF_RANGE"
	KindNotNumeric  Kind = "NOT_NUMERIC"
)

// ValidationError descreve uma entrada rejeitada pelo validador.
type ValidationError struct {
	Kind  Kind
	Input string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid number %q: %s", e.Input, e.Kind)
}

// Validate aplica as regras de formato/faixa de um modo e devolve a
// forma canônica do número:
//   - direct: inteiro 0-99, normalizado com zero à esquerda ("5" -> "05")
//   - house/ending: exatamente 1 dígito, 0-9
//
// Sem efeito colateral; o caller decide o que fazer com a rejeição.
func Validate(mode teer.Mode, raw string) (string, error) {
	if raw == "" {
		return "", &ValidationError{Kind: KindEmpty, Input: raw}
	}

	switch mode {
	case teer.ModeDirect:
		if len(raw) > 2 {
			return "", &ValidationError{Kind: KindWrongLength, Input: raw}
		}
		// Atoi aceita sinal ("+5"); aqui só dígito entra
		if !digitsOnly(raw) {
			return "", &ValidationError{Kind: KindNotNumeric, Input: raw}
		}
		n, _ := strconv.Atoi(raw)
		if n > 99 {
			return "", &ValidationError{Kind: KindOutOfRange, Input: raw}
		}
		return fmt.Sprintf("%02d", n), nil

	case teer.ModeHouse, teer.ModeEnding:
		if len(raw) != 1 {
			return "", &ValidationError{Kind: KindWrongLength, Input: raw}
		}
		if !digitsOnly(raw) {
			return "", &ValidationError{Kind: KindNotNumeric, Input: raw}
		}
		return raw, nil

	default:
		return "", &ValidationError{Kind: KindNotNumeric, Input: raw}
	}
}

// ValidatePair valida os dois componentes de um forecast e devolve as
// formas canônicas mais a chave do par ("07-41" em direct, "7-4" em house).
// forecastType aceita direct ou house; ending segue a regra de house
// (1 dígito), igual ao comportamento do backend.
func ValidatePair(forecastType teer.Mode, frRaw, srRaw string) (fr, sr, key string, err error) {
	mode := forecastType
	if mode == teer.ModeEnding {
		mode = teer.ModeHouse
	}
	if fr, err = Validate(mode, frRaw); err != nil {
		return "", "", "", err
	}
	if sr, err = Validate(mode, srRaw); err != nil {
		return "", "", "", err
	}
	return fr, sr, fr + "-" + sr, nil
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Value converte uma forma canônica de volta pra inteiro.
// Entrada já validada; erro de parse aqui é bug do caller.
func Value(canonical string) int {
	n, _ := strconv.Atoi(canonical)
	return n
}
