package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/radieske/teer-platform-poc/internal/result-worker/settle"
)

var ErrNotFound = errors.New("not found")

// Postgres implementa a persistência da liquidação de resultados.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// SetRoundResult grava o número sorteado e fecha o round.
// Idempotente: resultado já gravado não é sobrescrito.
func (p *Postgres) SetRoundResult(ctx context.Context, roundID int64, number int) (applied bool, err error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE rounds SET result=$1, status='COMPLETED', updated_at=NOW()
		WHERE id=$2 AND result IS NULL`, number, roundID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// PendingBetsForRound lista as apostas FR/SR pendentes do round.
func (p *Postgres) PendingBetsForRound(ctx context.Context, roundID int64) ([]settle.Bet, error) {
	const q = `
		SELECT id, ticket_id, user_id, play_type, mode, bet_value, potential_payout_paise
		FROM bets
		WHERE round_id=$1 AND status='PENDING' AND play_type IN ('FR','SR')
		ORDER BY id`
	return p.queryBets(ctx, q, roundID)
}

// ForecastBet é um forecast pendente cujos dois rounds já têm resultado.
type ForecastBet struct {
	settle.Bet
	FRResult int
	SRResult int
}

// ReadyForecastBets lista os forecasts pendentes que referenciam este
// round e cujo OUTRO round também já tem resultado. A ordem de
// publicação FR/SR não importa; o forecast liquida no segundo número.
func (p *Postgres) ReadyForecastBets(ctx context.Context, roundID int64) ([]ForecastBet, error) {
	const q = `
		SELECT b.id, b.ticket_id, b.user_id, b.play_type, b.mode, b.bet_value,
		       b.potential_payout_paise, rf.result, rs.result
		FROM bets b
		JOIN rounds rf ON rf.id = b.fr_round_id
		JOIN rounds rs ON rs.id = b.sr_round_id
		WHERE b.status='PENDING' AND b.play_type='FORECAST'
		  AND (b.fr_round_id=$1 OR b.sr_round_id=$1)
		  AND rf.result IS NOT NULL AND rs.result IS NOT NULL
		ORDER BY b.id`
	rows, err := p.db.QueryContext(ctx, q, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ForecastBet
	for rows.Next() {
		var b ForecastBet
		if err := rows.Scan(&b.ID, &b.TicketID, &b.UserID, &b.PlayType, &b.Mode,
			&b.BetValue, &b.PotentialPayoutPaise, &b.FRResult, &b.SRResult); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SettleBet grava o desfecho de uma aposta.
func (p *Postgres) SettleBet(ctx context.Context, betID string, won bool, payoutPaise int64) error {
	status := "LOST"
	if won {
		status = "WON"
	}
	_, err := p.db.ExecContext(ctx, `
		UPDATE bets SET status=$1, actual_payout_paise=$2, updated_at=NOW()
		WHERE id=$3 AND status='PENDING'`, status, payoutPaise, betID)
	return err
}

// TicketProgress conta o estado das apostas de um ticket.
type TicketProgress struct {
	UserID           string
	Pending          int
	Won              int
	Lost             int
	TotalPayoutPaise int64
}

// GetTicketProgress agrega as apostas de um ticket pra decidir se ele
// já pode ser consolidado.
func (p *Postgres) GetTicketProgress(ctx context.Context, ticketID string) (*TicketProgress, error) {
	const q = `
		SELECT user_id,
		       COUNT(*) FILTER (WHERE status='PENDING'),
		       COUNT(*) FILTER (WHERE status='WON'),
		       COUNT(*) FILTER (WHERE status='LOST'),
		       COALESCE(SUM(actual_payout_paise) FILTER (WHERE status='WON'), 0)
		FROM bets WHERE ticket_id=$1
		GROUP BY user_id`
	var tp TicketProgress
	err := p.db.QueryRowContext(ctx, q, ticketID).Scan(&tp.UserID, &tp.Pending, &tp.Won, &tp.Lost, &tp.TotalPayoutPaise)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tp, nil
}

// FinalizeTicket grava o status consolidado do ticket.
// Idempotente: só transiciona a partir de PENDING.
func (p *Postgres) FinalizeTicket(ctx context.Context, ticketID, status string) (applied bool, err error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE tickets SET status=$1, settled_at=NOW()
		WHERE ticket_id=$2 AND status='PENDING'`, status, ticketID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (p *Postgres) queryBets(ctx context.Context, q string, args ...any) ([]settle.Bet, error) {
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []settle.Bet
	for rows.Next() {
		var b settle.Bet
		if err := rows.Scan(&b.ID, &b.TicketID, &b.UserID, &b.PlayType, &b.Mode,
			&b.BetValue, &b.PotentialPayoutPaise); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
