package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/teer-platform-poc/internal/engine/feed"
	"github.com/radieske/teer-platform-poc/internal/engine/numbers"
	"github.com/radieske/teer-platform-poc/internal/engine/roundclock"
	"github.com/radieske/teer-platform-poc/internal/engine/selection"
	"github.com/radieske/teer-platform-poc/internal/engine/teer"
	"github.com/radieske/teer-platform-poc/internal/engine/ticket"
	"github.com/radieske/teer-platform-poc/internal/engine/wallet"
	"github.com/radieske/teer-platform-poc/internal/shared/config"
	"github.com/radieske/teer-platform-poc/internal/shared/logger"
)

// Cliente de terminal que exercita o engine de ponta a ponta:
// lista bancas e rounds, mostra o countdown, monta a seleção a partir
// das flags e submete o ticket.
//
//	teer-client -user u1 -house 1 -fr-direct "05:1000,23:500" -sr-ending "7:200"
func main() {
	var (
		userID       = flag.String("user", "demo-user", "id do usuário")
		houseID      = flag.Int64("house", 1, "id da banca")
		frDirect     = flag.String("fr-direct", "", "apostas FR direct: numero:paise,...")
		frHouse      = flag.String("fr-house", "", "apostas FR house: digito:paise,...")
		frEnding     = flag.String("fr-ending", "", "apostas FR ending: digito:paise,...")
		srDirect     = flag.String("sr-direct", "", "apostas SR direct: numero:paise,...")
		srHouse      = flag.String("sr-house", "", "apostas SR house: digito:paise,...")
		srEnding     = flag.String("sr-ending", "", "apostas SR ending: digito:paise,...")
		forecast     = flag.String("forecast", "", "pares forecast: fr-sr:paise,...")
		forecastType = flag.String("forecast-type", "direct", "tipo do forecast: direct|house")
		watch        = flag.Bool("watch", false, "só observa o countdown, não submete")
	)
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New("teer-client", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feedCli := feed.New(cfg.RoundServiceURL)
	walletCli := wallet.New(cfg.WalletURL)
	ticketCli := ticket.NewClient(cfg.TicketServiceURL)

	house, err := pickHouse(ctx, feedCli, *houseID)
	if err != nil {
		log.Fatal("load house", zap.Error(err))
	}
	fmt.Printf("banca: %s (%s)\n", house.Name, house.Location)

	frRound, srRound, err := todayRounds(ctx, feedCli, house.ID)
	if err != nil {
		log.Fatal("load rounds", zap.Error(err))
	}

	// Badge de rounds abertos, renovado em background.
	poller := &roundclock.Poller{
		Interval: cfg.OpenRoundsPoll,
		Counter:  feedCli,
		OnCount:  func(n int) { fmt.Printf("rounds abertos na plataforma: %d\n", n) },
		OnError:  func(err error) { log.Warn("open rounds poll", zap.Error(err)) },
	}
	go poller.Run(ctx)

	th := roundclock.Thresholds{Warning: cfg.UrgencyWarning, Critical: cfg.UrgencyCritical}
	if *watch {
		watchRound(ctx, frRound, srRound, th, cfg.CountdownTick)
		return
	}

	// O gate de deadline vale já na montagem: bucket de round fechado
	// é recusado antes de qualquer coisa ir pra rede.
	now := time.Now()
	sel := &ticket.Selections{
		FRDirect:     mustParse(log, "fr-direct", teer.ModeDirect, *frDirect, now, frRound),
		FRHouse:      mustParse(log, "fr-house", teer.ModeHouse, *frHouse, now, frRound),
		FREnding:     mustParse(log, "fr-ending", teer.ModeEnding, *frEnding, now, frRound),
		SRDirect:     mustParse(log, "sr-direct", teer.ModeDirect, *srDirect, now, srRound),
		SRHouse:      mustParse(log, "sr-house", teer.ModeHouse, *srHouse, now, srRound),
		SREnding:     mustParse(log, "sr-ending", teer.ModeEnding, *srEnding, now, srRound),
		Forecast:     mustParseForecast(log, teer.Mode(*forecastType), *forecast, now, frRound, srRound),
		ForecastType: teer.Mode(*forecastType),
	}

	fmt.Printf("total apostado: %s | maior prêmio possível: %s\n",
		rupees(sel.TotalAmount()), rupees(sel.MaxPotentialPayout(house)))

	balance, err := walletCli.Balance(ctx, *userID)
	if err != nil {
		log.Fatal("wallet balance", zap.Error(err))
	}
	fmt.Printf("saldo: %s\n", rupees(balance))

	sub := ticket.NewSubmitter(log, ticketCli, walletCli)
	out, err := sub.Submit(ctx, ticket.SubmitRequest{
		UserID:       *userID,
		House:        house,
		FRRound:      frRound,
		SRRound:      srRound,
		Selections:   sel,
		BalancePaise: balance,
		Now:          time.Now(),
	})
	if err != nil {
		log.Fatal("submit", zap.Error(err))
	}
	fmt.Printf("ticket aceito: %s | potencial: %s | novo saldo: %s\n",
		out.TicketID, rupees(out.TotalPotentialPayoutPaise), rupees(out.NewBalancePaise))
}

func pickHouse(ctx context.Context, cli *feed.Client, id int64) (*teer.House, error) {
	houses, err := cli.Houses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range houses {
		if houses[i].ID == id {
			return &houses[i], nil
		}
	}
	return nil, fmt.Errorf("house %d not found", id)
}

func todayRounds(ctx context.Context, cli *feed.Client, houseID int64) (fr, sr *teer.Round, err error) {
	rounds, err := cli.Rounds(ctx, houseID)
	if err != nil {
		return nil, nil, err
	}
	for i := range rounds {
		switch rounds[i].Type {
		case teer.PlayFR:
			fr = &rounds[i]
		case teer.PlaySR:
			sr = &rounds[i]
		}
	}
	return fr, sr, nil
}

// watchRound imprime o countdown dos rounds do dia até o fechamento.
func watchRound(ctx context.Context, fr, sr *teer.Round, th roundclock.Thresholds, tick time.Duration) {
	show := func(label string, r *teer.Round) {
		if r == nil {
			fmt.Printf("%s: sem round hoje\n", label)
			return
		}
		cd := &roundclock.Countdown{
			Interval:   tick,
			Thresholds: th,
			OnTick: func(st roundclock.State) {
				fmt.Printf("%s: %s restante=%s urgência=%s\n", label, st.Status, st.Remaining, st.Urgency)
			},
		}
		cd.Run(ctx, *r)
	}
	show("FR", fr)
	show("SR", sr)
}

// mustParse converte "05:1000,23:500" num set de seleção validado,
// recusando a montagem com o round alvo já fechado.
func mustParse(log *zap.Logger, name string, mode teer.Mode, raw string, now time.Time, r *teer.Round) *selection.Set {
	set, err := parseSet(mode, raw, now, r)
	if err != nil {
		log.Fatal("invalid "+name, zap.Error(err))
	}
	return set
}

func parseSet(mode teer.Mode, raw string, now time.Time, r *teer.Round) (*selection.Set, error) {
	set := selection.NewSet()
	if raw == "" {
		return set, nil
	}
	for _, part := range strings.Split(raw, ",") {
		number, paise, err := splitBet(part)
		if err != nil {
			return nil, err
		}
		canonical, err := numbers.Validate(mode, number)
		if err != nil {
			return nil, err
		}
		e := selection.Entry{Key: canonical, Number: canonical, AmountPaise: paise}
		if err := ticket.AddSelection(set, e, now, r); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func mustParseForecast(log *zap.Logger, mode teer.Mode, raw string, now time.Time, fr, sr *teer.Round) *selection.Set {
	set := selection.NewSet()
	if raw == "" {
		return set
	}
	for _, part := range strings.Split(raw, ",") {
		pair, paise, err := splitBet(part)
		if err != nil {
			log.Fatal("invalid forecast", zap.Error(err))
		}
		nums := strings.SplitN(pair, "-", 2)
		if len(nums) != 2 {
			log.Fatal("invalid forecast", zap.String("pair", pair))
		}
		frNum, srNum, key, err := numbers.ValidatePair(mode, nums[0], nums[1])
		if err != nil {
			log.Fatal("invalid forecast", zap.Error(err))
		}
		e := selection.Entry{Key: key, FRNumber: frNum, SRNumber: srNum, AmountPaise: paise}
		if err := ticket.AddSelection(set, e, now, fr, sr); err != nil {
			log.Fatal("invalid forecast", zap.Error(err))
		}
	}
	return set
}

func splitBet(part string) (value string, paise int64, err error) {
	idx := strings.LastIndex(part, ":")
	if idx < 0 {
		return "", 0, fmt.Errorf("bet %q: want value:paise", part)
	}
	paise, err = strconv.ParseInt(part[idx+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("bet %q: bad amount", part)
	}
	return part[:idx], paise, nil
}

func rupees(paise int64) string {
	return fmt.Sprintf("₹%d.%02d", paise/100, paise%100)
}
