package selection

import "errors"

var ErrNonPositiveAmount = errors.New("selection amount must be positive")

// Entry é uma unidade de aposta em construção: um número (ou par
// FR-SR no forecast) com um valor em paise.
type Entry struct {
	Key         string // forma canônica do número, ou "FR-SR" no par
	Number      string // direct/house/ending
	FRNumber    string // forecast
	SRNumber    string // forecast
	AmountPaise int64
}

// Set é o multiset em construção no cliente: chave canônica -> Entry,
// preservando a ordem de inserção. Regra de produto: re-adicionar a
// mesma chave SOBRESCREVE o valor, nunca soma.
type Set struct {
	order   []string
	entries map[string]Entry
}

func NewSet() *Set {
	return &Set{entries: make(map[string]Entry)}
}

// Add insere ou sobrescreve a entrada da chave e.Key.
// Last-write-wins no valor; a posição original na ordem é mantida.
func (s *Set) Add(e Entry) error {
	if e.AmountPaise <= 0 {
		return ErrNonPositiveAmount
	}
	if _, ok := s.entries[e.Key]; !ok {
		s.order = append(s.order, e.Key)
	}
	s.entries[e.Key] = e
	return nil
}

// Remove apaga a entrada; no-op se a chave não existe.
func (s *Set) Remove(key string) {
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Clear esvazia o set (chamado após submissão bem-sucedida).
func (s *Set) Clear() {
	s.order = s.order[:0]
	s.entries = make(map[string]Entry)
}

func (s *Set) Len() int { return len(s.entries) }

// Get devolve a entrada da chave, se existir.
func (s *Set) Get(key string) (Entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

// Entries devolve as entradas na ordem de inserção.
func (s *Set) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.entries[k])
	}
	return out
}

// TotalAmount soma os valores de todas as entradas.
func (s *Set) TotalAmount() int64 {
	var total int64
	for _, e := range s.entries {
		total += e.AmountPaise
	}
	return total
}

// MaxSinglePayout calcula max(valor) × rate, ou 0 se vazio.
// Só um número ganha por round, então o payout potencial é o maior
// prêmio de UMA entrada, não a soma dos prêmios.
func (s *Set) MaxSinglePayout(rate int64) int64 {
	var max int64
	for _, e := range s.entries {
		if e.AmountPaise > max {
			max = e.AmountPaise
		}
	}
	return max * rate
}
