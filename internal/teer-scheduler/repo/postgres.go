package repo

import (
	"context"
	"database/sql"
	"time"
)

// Postgres implementa a persistência da agenda de rounds.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// HouseSchedule é a agenda semanal de uma banca: horário do FR e do SR
// e quantos minutos antes do sorteio a aposta fecha.
type HouseSchedule struct {
	ID                   int64
	Name                 string
	Timezone             string
	FRTime               string // "15:45"
	SRTime               string // "16:45"
	BettingWindowMinutes int
	RunsOn               [7]bool // domingo..sábado
}

// ListActiveHouses carrega as bancas ativas com suas agendas.
func (p *Postgres) ListActiveHouses(ctx context.Context) ([]HouseSchedule, error) {
	const q = `
		SELECT id, name, timezone, fr_time, sr_time, betting_window_minutes,
		       runs_sunday, runs_monday, runs_tuesday, runs_wednesday,
		       runs_thursday, runs_friday, runs_saturday
		FROM houses WHERE is_active ORDER BY id`
	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HouseSchedule
	for rows.Next() {
		var h HouseSchedule
		if err := rows.Scan(&h.ID, &h.Name, &h.Timezone, &h.FRTime, &h.SRTime, &h.BettingWindowMinutes,
			&h.RunsOn[0], &h.RunsOn[1], &h.RunsOn[2], &h.RunsOn[3],
			&h.RunsOn[4], &h.RunsOn[5], &h.RunsOn[6]); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// CreateRound insere o round do dia se ele ainda não existe.
// A unique (house_id, round_type, scheduled_time) segura reexecução do job.
func (p *Postgres) CreateRound(ctx context.Context, houseID int64, roundType string, scheduledAt, closesAt time.Time) (created bool, err error) {
	res, err := p.db.ExecContext(ctx, `
		INSERT INTO rounds (house_id, round_type, status, scheduled_time, betting_closes_at)
		VALUES ($1,$2,'SCHEDULED',$3,$4)
		ON CONFLICT (house_id, round_type, scheduled_time) DO NOTHING`,
		houseID, roundType, scheduledAt, closesAt)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DueRound é um round cujo horário de sorteio já passou e ainda não
// tem número.
type DueRound struct {
	ID            int64
	HouseID       int64
	RoundType     string
	ScheduledTime time.Time
}

// ListDueRounds lista os rounds vencidos sem resultado.
func (p *Postgres) ListDueRounds(ctx context.Context, now time.Time) ([]DueRound, error) {
	const q = `
		SELECT id, house_id, round_type, scheduled_time
		FROM rounds
		WHERE status='SCHEDULED' AND result IS NULL AND scheduled_time <= $1
		ORDER BY scheduled_time`
	rows, err := p.db.QueryContext(ctx, q, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DueRound
	for rows.Next() {
		var r DueRound
		if err := rows.Scan(&r.ID, &r.HouseID, &r.RoundType, &r.ScheduledTime); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CancelStaleRounds cancela rounds sem resultado depois do prazo de
// tolerância. Devolve os ids cancelados pro caller estornar as apostas.
func (p *Postgres) CancelStaleRounds(ctx context.Context, olderThan time.Time) ([]int64, error) {
	rows, err := p.db.QueryContext(ctx, `
		UPDATE rounds SET status='CANCELLED', updated_at=NOW()
		WHERE status='SCHEDULED' AND result IS NULL AND scheduled_time < $1
		RETURNING id`, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
