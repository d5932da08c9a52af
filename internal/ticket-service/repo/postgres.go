package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrRoundClosed = errors.New("round closed")
)

// Postgres implementa a persistência de tickets e apostas.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// GetHouseRates carrega a banca ativa com sua tabela de payout.
func (p *Postgres) GetHouseRates(ctx context.Context, houseID int64) (*HouseRates, error) {
	const q = `
		SELECT id, name, is_active,
		       fr_direct_rate, fr_house_rate, fr_ending_rate,
		       sr_direct_rate, sr_house_rate, sr_ending_rate,
		       forecast_direct_rate, forecast_house_rate, forecast_ending_rate
		FROM houses WHERE id=$1`
	var h HouseRates
	var frD, frH, frE, srD, srH, srE, fcD, fcH, fcE int64
	err := p.db.QueryRowContext(ctx, q, houseID).Scan(&h.ID, &h.Name, &h.Active,
		&frD, &frH, &frE, &srD, &srH, &srE, &fcD, &fcH, &fcE)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	h.Rates = map[string]int64{
		"fr_direct": frD, "fr_house": frH, "fr_ending": frE,
		"sr_direct": srD, "sr_house": srH, "sr_ending": srE,
		"forecast_direct": fcD, "forecast_house": fcH, "forecast_ending": fcE,
	}
	return &h, nil
}

// GetOpenRound devolve o round se ele ainda aceita aposta agora.
// Round fechado (ou inexistente) vira ErrRoundClosed: pro cliente a
// distinção não importa, o ticket não entra.
func (p *Postgres) GetOpenRound(ctx context.Context, roundID int64) (*OpenRound, error) {
	const q = `
		SELECT id, house_id, round_type, betting_closes_at
		FROM rounds
		WHERE id=$1 AND status='SCHEDULED' AND betting_closes_at > NOW()`
	var r OpenRound
	err := p.db.QueryRowContext(ctx, q, roundID).Scan(&r.ID, &r.HouseID, &r.RoundType, &r.BettingClosesAt)
	if err == sql.ErrNoRows {
		return nil, ErrRoundClosed
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// FindByClientRef devolve um ticket já aceito com o mesmo client_ref
// (idempotência de re-submissão).
func (p *Postgres) FindByClientRef(ctx context.Context, userID, clientRef string) (*Ticket, error) {
	const q = `
		SELECT ticket_id, user_id, house_id, COALESCE(fr_round_id,0), COALESCE(sr_round_id,0),
		       status, total_amount_paise, total_potential_payout_paise, client_ref, created_at
		FROM tickets WHERE user_id=$1 AND client_ref=$2`
	var t Ticket
	err := p.db.QueryRowContext(ctx, q, userID, clientRef).Scan(
		&t.TicketID, &t.UserID, &t.HouseID, &t.FRRoundID, &t.SRRoundID,
		&t.Status, &t.TotalAmountPaise, &t.TotalPotentialPayoutPaise, &t.ClientRef, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTicket insere o ticket e suas apostas numa transação única.
// IDs das apostas voltam preenchidos na ordem recebida.
func (p *Postgres) CreateTicket(ctx context.Context, t *Ticket, bets []Bet) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tickets
		  (ticket_id, user_id, house_id, fr_round_id, sr_round_id, status,
		   total_amount_paise, total_potential_payout_paise, client_ref, created_at)
		VALUES ($1,$2,$3,NULLIF($4,0),NULLIF($5,0),'PENDING',$6,$7,$8,NOW())`,
		t.TicketID, t.UserID, t.HouseID, t.FRRoundID, t.SRRoundID,
		t.TotalAmountPaise, t.TotalPotentialPayoutPaise, t.ClientRef)
	if err != nil {
		return err
	}

	for i := range bets {
		bets[i].ID = uuid.NewString()
		bets[i].TicketID = t.TicketID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO bets
			  (id, ticket_id, user_id, round_id, fr_round_id, sr_round_id,
			   play_type, mode, bet_value, amount_paise, potential_payout_paise, status)
			VALUES ($1,$2,$3,NULLIF($4,0),NULLIF($5,0),NULLIF($6,0),$7,$8,$9,$10,$11,'PENDING')`,
			bets[i].ID, t.TicketID, t.UserID, bets[i].RoundID, bets[i].FRRoundID, bets[i].SRRoundID,
			bets[i].PlayType, bets[i].Mode, bets[i].BetValue, bets[i].AmountPaise, bets[i].PotentialPayoutPaise)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetTicket carrega um ticket com suas apostas.
func (p *Postgres) GetTicket(ctx context.Context, ticketID string) (*Ticket, []Bet, error) {
	const qt = `
		SELECT ticket_id, user_id, house_id, COALESCE(fr_round_id,0), COALESCE(sr_round_id,0),
		       status, total_amount_paise, total_potential_payout_paise, COALESCE(client_ref,''), created_at
		FROM tickets WHERE ticket_id=$1`
	var t Ticket
	err := p.db.QueryRowContext(ctx, qt, ticketID).Scan(
		&t.TicketID, &t.UserID, &t.HouseID, &t.FRRoundID, &t.SRRoundID,
		&t.Status, &t.TotalAmountPaise, &t.TotalPotentialPayoutPaise, &t.ClientRef, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	const qb = `
		SELECT id, COALESCE(round_id,0), COALESCE(fr_round_id,0), COALESCE(sr_round_id,0),
		       play_type, mode, bet_value, amount_paise, potential_payout_paise,
		       COALESCE(actual_payout_paise,0), status
		FROM bets WHERE ticket_id=$1 ORDER BY id`
	rows, err := p.db.QueryContext(ctx, qb, ticketID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var bets []Bet
	for rows.Next() {
		b := Bet{TicketID: t.TicketID, UserID: t.UserID}
		if err := rows.Scan(&b.ID, &b.RoundID, &b.FRRoundID, &b.SRRoundID,
			&b.PlayType, &b.Mode, &b.BetValue, &b.AmountPaise,
			&b.PotentialPayoutPaise, &b.ActualPayoutPaise, &b.Status); err != nil {
			return nil, nil, err
		}
		bets = append(bets, b)
	}
	return &t, bets, rows.Err()
}

// ListUserTickets lista os tickets recentes de um usuário.
func (p *Postgres) ListUserTickets(ctx context.Context, userID string, limit int) ([]Ticket, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	const q = `
		SELECT ticket_id, user_id, house_id, COALESCE(fr_round_id,0), COALESCE(sr_round_id,0),
		       status, total_amount_paise, total_potential_payout_paise, COALESCE(client_ref,''), created_at
		FROM tickets WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := p.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ticket
	for rows.Next() {
		var t Ticket
		if err := rows.Scan(&t.TicketID, &t.UserID, &t.HouseID, &t.FRRoundID, &t.SRRoundID,
			&t.Status, &t.TotalAmountPaise, &t.TotalPotentialPayoutPaise, &t.ClientRef, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DailySpent soma o que o usuário já apostou hoje (limite diário).
func (p *Postgres) DailySpent(ctx context.Context, userID string, day time.Time) (int64, error) {
	const q = `
		SELECT COALESCE(SUM(total_amount_paise),0)
		FROM tickets
		WHERE user_id=$1 AND status <> 'CANCELLED' AND created_at::date = $2::date`
	var total int64
	err := p.db.QueryRowContext(ctx, q, userID, day).Scan(&total)
	return total, err
}
