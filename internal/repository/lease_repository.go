package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
)

// LeaseFilter narrows lease listings. A nil TenantID lists every lease.
type LeaseFilter struct {
	TenantID *string
}

// LeaseRepository encapsulates lease persistence.
type LeaseRepository interface {
	Create(ctx context.Context, lease *domain.Lease) error
	Update(ctx context.Context, lease *domain.Lease) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Lease, error)
	List(ctx context.Context, filter LeaseFilter) ([]domain.Lease, error)
}

type leaseRepository struct {
	pool querier
}

// NewLeaseRepository instantiates repository.
func NewLeaseRepository(pool *pgxpool.Pool) LeaseRepository {
	return &leaseRepository{pool: dbFor(pool)}
}

const leaseSelect = `
        SELECT l.id, l.name, l.start_date, l.end_date, l.rent_amount::text, l.status, l.document_url,
               l.tenant_id, l.created_at, l.updated_at, u.name, u.email
        FROM leases l
        JOIN users u ON u.id = l.tenant_id`

func (r *leaseRepository) Create(ctx context.Context, lease *domain.Lease) error {
	if !validID(lease.TenantID) {
		return notFound()
	}
	const query = `
        INSERT INTO leases (name, start_date, end_date, rent_amount, status, document_url, tenant_id)
        VALUES ($1, $2, $3, $4::text::numeric, $5, $6, $7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		lease.Name,
		lease.StartDate,
		lease.EndDate,
		lease.RentAmount.String(),
		lease.Status,
		lease.DocumentURL,
		lease.TenantID,
	).Scan(&lease.ID, &lease.CreatedAt, &lease.UpdatedAt)
}

func (r *leaseRepository) Update(ctx context.Context, lease *domain.Lease) error {
	if !validID(lease.ID) || !validID(lease.TenantID) {
		return notFound()
	}
	const query = `
        UPDATE leases SET name=$1, start_date=$2, end_date=$3, rent_amount=$4::text::numeric, status=$5,
            document_url=$6, tenant_id=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		lease.Name,
		lease.StartDate,
		lease.EndDate,
		lease.RentAmount.String(),
		lease.Status,
		lease.DocumentURL,
		lease.TenantID,
		lease.ID,
	).Scan(&lease.UpdatedAt)
}

func (r *leaseRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound()
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM leases WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return notFound()
	}
	return nil
}

func (r *leaseRepository) GetByID(ctx context.Context, id string) (*domain.Lease, error) {
	if !validID(id) {
		return nil, notFound()
	}
	return scanLease(r.pool.QueryRow(ctx, leaseSelect+` WHERE l.id=$1`, id))
}

func (r *leaseRepository) List(ctx context.Context, filter LeaseFilter) ([]domain.Lease, error) {
	query := leaseSelect
	args := []any{}
	if filter.TenantID != nil {
		if !validID(*filter.TenantID) {
			return []domain.Lease{}, nil
		}
		args = append(args, *filter.TenantID)
		query += fmt.Sprintf(` WHERE l.tenant_id=$%d`, len(args))
	}
	query += ` ORDER BY l.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leases := []domain.Lease{}
	for rows.Next() {
		lease, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		leases = append(leases, *lease)
	}
	return leases, rows.Err()
}

func scanLease(row pgx.Row) (*domain.Lease, error) {
	var (
		lease  domain.Lease
		rent   string
		tenant domain.UserSummary
	)
	if err := row.Scan(
		&lease.ID,
		&lease.Name,
		&lease.StartDate,
		&lease.EndDate,
		&rent,
		&lease.Status,
		&lease.DocumentURL,
		&lease.TenantID,
		&lease.CreatedAt,
		&lease.UpdatedAt,
		&tenant.Name,
		&tenant.Email,
	); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(rent)
	if err != nil {
		return nil, fmt.Errorf("parse rent amount %q: %w", rent, err)
	}
	lease.RentAmount = amount
	tenant.ID = lease.TenantID
	lease.Tenant = &tenant
	return &lease, nil
}
