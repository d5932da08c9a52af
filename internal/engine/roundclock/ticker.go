package roundclock

import (
	"context"
	"time"

	"github.com/radieske/teer-platform-poc/internal/engine/teer"
)

// Countdown reavalia o estado de um round a cada intervalo e entrega
// o resultado ao callback. É um recurso com dono: Run segura o ticker
// e garante Stop em todo caminho de saída; a view que montou o
// countdown cancela o contexto no teardown.
type Countdown struct {
	Interval   time.Duration
	Thresholds Thresholds
	OnTick     func(State)
}

// Run emite um estado imediatamente e depois a cada tick, até o
// contexto ser cancelado ou o round fechar. O estado CLOSED é emitido
// uma única vez antes de retornar.
func (c *Countdown) Run(ctx context.Context, r teer.Round) {
	interval := c.Interval
	if interval <= 0 {
		interval = time.Second
	}

	emit := func(now time.Time) bool {
		st := At(r, now, c.Thresholds)
		if c.OnTick != nil {
			c.OnTick(st)
		}
		return st.Status == StatusOpen
	}

	if !emit(time.Now()) {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if !emit(now) {
				return
			}
		}
	}
}

// OpenRoundsCounter é a dependência do poller: normalmente o client
// HTTP do round-service.
type OpenRoundsCounter interface {
	OpenRoundsCount(ctx context.Context) (int, error)
}

// Poller consulta a contagem de rounds abertos num intervalo fixo
// (badge de "jogos abertos"). Mesmo contrato de ciclo de vida do
// Countdown: cancelar o contexto encerra o ticker.
type Poller struct {
	Interval time.Duration
	Counter  OpenRoundsCounter
	OnCount  func(int)
	OnError  func(error)
}

func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	poll := func() {
		n, err := p.Counter.OpenRoundsCount(ctx)
		if err != nil {
			if p.OnError != nil && ctx.Err() == nil {
				p.OnError(err)
			}
			return
		}
		if p.OnCount != nil {
			p.OnCount(n)
		}
	}

	poll()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}
