package repo

import (
	"context"
	"database/sql"

	"github.com/radieske/teer-platform-poc/internal/round-service/dto"
)

type ReadRepo struct {
	DB *sql.DB
}

// ListHouses lista bancas ativas com as nove células da tabela de payout.
func (r *ReadRepo) ListHouses(ctx context.Context) ([]dto.House, error) {
	const q = `
		SELECT id, name, COALESCE(location, ''),
		       fr_direct_rate, fr_house_rate, fr_ending_rate,
		       sr_direct_rate, sr_house_rate, sr_ending_rate,
		       forecast_direct_rate, forecast_house_rate, forecast_ending_rate
		FROM houses
		WHERE is_active
		ORDER BY id;
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dto.House
	for rows.Next() {
		var h dto.House
		var frD, frH, frE, srD, srH, srE, fcD, fcH, fcE int64
		if err := rows.Scan(&h.ID, &h.Name, &h.Location,
			&frD, &frH, &frE, &srD, &srH, &srE, &fcD, &fcH, &fcE); err != nil {
			return nil, err
		}
		h.PayoutRates = map[string]int64{
			"fr_direct": frD, "fr_house": frH, "fr_ending": frE,
			"sr_direct": srD, "sr_house": srH, "sr_ending": srE,
			"forecast_direct": fcD, "forecast_house": fcH, "forecast_ending": fcE,
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ListRounds lista os rounds do dia de uma banca (mais próximos primeiro).
func (r *ReadRepo) ListRounds(ctx context.Context, houseID int64) ([]dto.Round, error) {
	const q = `
		SELECT id, house_id, round_type, status, scheduled_time, betting_closes_at, result
		FROM rounds
		WHERE house_id = $1
		  AND scheduled_time::date = NOW()::date
		ORDER BY scheduled_time;
	`
	rows, err := r.DB.QueryContext(ctx, q, houseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dto.Round
	for rows.Next() {
		var rd dto.Round
		var result sql.NullInt64
		if err := rows.Scan(&rd.ID, &rd.HouseID, &rd.RoundType, &rd.Status,
			&rd.ScheduledTime, &rd.BettingClosesAt, &result); err != nil {
			return nil, err
		}
		if result.Valid {
			v := int(result.Int64)
			rd.Result = &v
		}
		out = append(out, rd)
	}
	return out, rows.Err()
}

// CountOpen conta rounds com aposta aberta agora (badge do cliente).
func (r *ReadRepo) CountOpen(ctx context.Context) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM rounds
		WHERE status = 'SCHEDULED'
		  AND betting_closes_at > NOW();
	`
	var n int
	err := r.DB.QueryRowContext(ctx, q).Scan(&n)
	return n, err
}
