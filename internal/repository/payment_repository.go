package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
)

// PaymentRepository persists the payment ledger fed by the processor webhook.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	UpdateStatusByIntent(ctx context.Context, intentID string, status domain.PaymentStatus) (*domain.Payment, error)
	List(ctx context.Context, userID *string) ([]domain.Payment, error)
}

type paymentRepository struct {
	pool querier
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: dbFor(pool)}
}

const paymentColumns = `id, intent_id, user_id, amount::text, currency, status, created_at, updated_at`

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
        INSERT INTO payments (intent_id, user_id, amount, currency, status)
        VALUES ($1, $2, $3::text::numeric, $4, $5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		payment.IntentID,
		payment.UserID,
		payment.Amount.String(),
		payment.Currency,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
}

func (r *paymentRepository) UpdateStatusByIntent(ctx context.Context, intentID string, status domain.PaymentStatus) (*domain.Payment, error) {
	query := `UPDATE payments SET status=$1, updated_at=NOW() WHERE intent_id=$2 RETURNING ` + paymentColumns
	return scanPayment(r.pool.QueryRow(ctx, query, status, intentID))
}

func (r *paymentRepository) List(ctx context.Context, userID *string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments`
	args := []any{}
	if userID != nil {
		if !validID(*userID) {
			return []domain.Payment{}, nil
		}
		args = append(args, *userID)
		query += ` WHERE user_id=$1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *payment)
	}
	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		payment domain.Payment
		amount  string
	)
	if err := row.Scan(
		&payment.ID,
		&payment.IntentID,
		&payment.UserID,
		&amount,
		&payment.Currency,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse payment amount %q: %w", amount, err)
	}
	payment.Amount = parsed
	return &payment, nil
}
