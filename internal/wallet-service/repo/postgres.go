package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Postgres implementa operações de carteira em banco
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
)

// GetOrCreateWallet retorna o walletId e saldo de um usuário, criando a
// carteira zerada se não existir.
func (p *Postgres) GetOrCreateWallet(ctx context.Context, userID string) (walletID string, balance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	var id string
	var bal int64
	err = tx.QueryRowContext(ctx, `SELECT id, balance_paise FROM wallets WHERE user_id=$1`, userID).Scan(&id, &bal)
	if err == sql.ErrNoRows {
		id = uuid.New().String()
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO wallets(id, user_id, balance_paise, version) VALUES($1,$2,0,1)`,
			id, userID); err != nil {
			return "", 0, err
		}
		bal = 0
	} else if err != nil {
		return "", 0, err
	}

	if err = tx.Commit(); err != nil {
		return "", 0, err
	}
	return id, bal, nil
}

// Deposit incrementa o saldo e registra a operação no ledger.
// Lock pessimista na linha da carteira.
func (p *Postgres) Deposit(ctx context.Context, userID string, amount int64, externalRef string) (walletID string, newBalance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	var id string
	if err = tx.QueryRowContext(ctx, `SELECT id FROM wallets WHERE user_id=$1 FOR UPDATE`, userID).Scan(&id); err != nil {
		return "", 0, err
	}

	if err = tx.QueryRowContext(ctx,
		`UPDATE wallets SET balance_paise = balance_paise + $1, version = version + 1 WHERE id=$2 RETURNING balance_paise`,
		amount, id).Scan(&newBalance); err != nil {
		return "", 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_ledger(wallet_id, operation_type, amount_paise, description) VALUES($1,'CREDIT',$2,$3)`,
		id, amount, "deposit:"+externalRef); err != nil {
		return "", 0, err
	}

	if err = tx.Commit(); err != nil {
		return "", 0, err
	}
	return id, newBalance, nil
}

// Reserve debita o valor do ticket e cria a reserva PENDING.
// Idempotente por (wallet_id, external_ref): re-submissão devolve a
// reserva existente sem debitar de novo.
func (p *Postgres) Reserve(ctx context.Context, userID string, amount int64, externalRef string) (reservationID string, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var walletID string
	var balance int64
	if err = tx.QueryRowContext(ctx, `SELECT id, balance_paise FROM wallets WHERE user_id=$1 FOR UPDATE`, userID).
		Scan(&walletID, &balance); err != nil {
		return "", err
	}

	var exists string
	err = tx.QueryRowContext(ctx, `SELECT id FROM wallet_reservations WHERE wallet_id=$1 AND external_ref=$2`,
		walletID, externalRef).Scan(&exists)
	if err == nil {
		return exists, nil // já reservado
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	if balance < amount {
		return "", ErrInsufficientFunds
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE wallets SET balance_paise = balance_paise - $1, version = version + 1 WHERE id=$2`,
		amount, walletID); err != nil {
		return "", err
	}

	reservationID = uuid.New().String()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_reservations(id, wallet_id, external_ref, amount_paise, status) VALUES($1,$2,$3,$4,'PENDING')`,
		reservationID, walletID, externalRef, amount); err != nil {
		return "", err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_ledger(wallet_id, operation_type, amount_paise, description) VALUES($1,'RESERVE',$2,$3)`,
		walletID, amount, "reserve:"+externalRef); err != nil {
		return "", err
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return reservationID, nil
}

// Commit efetiva uma reserva PENDING. Idempotente: reserva já
// efetivada não gera novo lançamento.
func (p *Postgres) Commit(ctx context.Context, userID, externalRef string) error {
	return p.settle(ctx, userID, externalRef, "COMMITTED", "DEBIT", "commit:", false)
}

// Refund desfaz uma reserva PENDING devolvendo o saldo. Idempotente.
func (p *Postgres) Refund(ctx context.Context, userID, externalRef string) error {
	return p.settle(ctx, userID, externalRef, "REFUNDED", "REFUND", "refund:", true)
}

func (p *Postgres) settle(ctx context.Context, userID, externalRef, newStatus, opType, prefix string, restore bool) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var walletID, resID, status string
	var amount int64
	if err = tx.QueryRowContext(ctx, `
		SELECT wr.id, wr.wallet_id, wr.amount_paise, wr.status
		FROM wallet_reservations wr
		JOIN wallets w ON w.id = wr.wallet_id
		WHERE w.user_id=$1 AND wr.external_ref=$2
		FOR UPDATE`, userID, externalRef).Scan(&resID, &walletID, &amount, &status); err != nil {
		return ErrNotFound
	}

	if status != "PENDING" {
		return nil // já tratado
	}

	if restore {
		if _, err = tx.ExecContext(ctx,
			`UPDATE wallets SET balance_paise = balance_paise + $1, version = version + 1 WHERE id=$2`,
			amount, walletID); err != nil {
			return err
		}
	}

	if _, err = tx.ExecContext(ctx, `UPDATE wallet_reservations SET status=$1 WHERE id=$2`, newStatus, resID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_ledger(wallet_id, operation_type, amount_paise, description) VALUES($1,$2,$3,$4)`,
		walletID, opType, amount, prefix+externalRef); err != nil {
		return err
	}

	return tx.Commit()
}

// Payout credita o prêmio de um ticket liquidado. Idempotente por
// external_ref: um ticket só paga uma vez, mesmo com o worker
// reprocessando o evento.
func (p *Postgres) Payout(ctx context.Context, userID string, amount int64, externalRef string) (newBalance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var walletID string
	if err = tx.QueryRowContext(ctx, `SELECT id FROM wallets WHERE user_id=$1 FOR UPDATE`, userID).Scan(&walletID); err != nil {
		return 0, err
	}

	var dup int
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM wallet_ledger WHERE wallet_id=$1 AND operation_type='PAYOUT' AND description=$2`,
		walletID, "payout:"+externalRef).Scan(&dup); err != nil {
		return 0, err
	}
	if dup > 0 {
		err = tx.QueryRowContext(ctx, `SELECT balance_paise FROM wallets WHERE id=$1`, walletID).Scan(&newBalance)
		return newBalance, err
	}

	if err = tx.QueryRowContext(ctx,
		`UPDATE wallets SET balance_paise = balance_paise + $1, version = version + 1 WHERE id=$2 RETURNING balance_paise`,
		amount, walletID).Scan(&newBalance); err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_ledger(wallet_id, operation_type, amount_paise, description) VALUES($1,'PAYOUT',$2,$3)`,
		walletID, amount, "payout:"+externalRef); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}
