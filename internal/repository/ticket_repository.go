package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
)

// TicketFilter narrows maintenance ticket listings.
type TicketFilter struct {
	TenantID *string
	Statuses []domain.TicketStatus
}

// TicketRepository encapsulates maintenance ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.MaintenanceTicket) error
	Update(ctx context.Context, ticket *domain.MaintenanceTicket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.MaintenanceTicket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.MaintenanceTicket, error)
}

type ticketRepository struct {
	pool querier
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: dbFor(pool)}
}

const ticketSelect = `
        SELECT t.id, t.title, t.description, t.priority, t.status, t.attachments, t.tenant_id,
               t.created_at, t.updated_at, u.name, u.email
        FROM maintenance_tickets t
        JOIN users u ON u.id = t.tenant_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.MaintenanceTicket) error {
	const query = `
        INSERT INTO maintenance_tickets (title, description, priority, status, attachments, tenant_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		attachmentsOrEmpty(ticket.Attachments),
		ticket.TenantID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.MaintenanceTicket) error {
	if !validID(ticket.ID) {
		return notFound()
	}
	const query = `
        UPDATE maintenance_tickets SET title=$1, description=$2, priority=$3, status=$4, attachments=$5,
            updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		attachmentsOrEmpty(ticket.Attachments),
		ticket.ID,
	).Scan(&ticket.UpdatedAt)
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound()
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM maintenance_tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return notFound()
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.MaintenanceTicket, error) {
	if !validID(id) {
		return nil, notFound()
	}
	return scanTicket(r.pool.QueryRow(ctx, ticketSelect+` WHERE t.id=$1`, id))
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.MaintenanceTicket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.TenantID != nil {
		if !validID(*filter.TenantID) {
			return []domain.MaintenanceTicket{}, nil
		}
		args = append(args, *filter.TenantID)
		clauses = append(clauses, fmt.Sprintf("t.tenant_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.status IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.created_at DESC`, ticketSelect, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []domain.MaintenanceTicket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.MaintenanceTicket, error) {
	var (
		ticket domain.MaintenanceTicket
		tenant domain.UserSummary
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Priority,
		&ticket.Status,
		&ticket.Attachments,
		&ticket.TenantID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&tenant.Name,
		&tenant.Email,
	); err != nil {
		return nil, err
	}
	ticket.Attachments = attachmentsOrEmpty(ticket.Attachments)
	tenant.ID = ticket.TenantID
	ticket.Tenant = &tenant
	return &ticket, nil
}

func attachmentsOrEmpty(attachments []string) []string {
	if attachments == nil {
		return []string{}
	}
	return attachments
}
