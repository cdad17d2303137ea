package blacklist

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/pkg/psqlbuilder"
	"github.com/citaplan/scheduling-service/pkg/txmanager"
)

var entryColumns = []string{
	"id",
	"company_id",
	"phone",
	"email",
	"reason",
	"active",
	"created_at",
	"updated_at",
}

// Repository persists company blacklists.
type Repository struct {
	db txmanager.Executor
}

// NewRepository creates a blacklist repository over db.
func NewRepository(db txmanager.Executor) *Repository {
	return &Repository{db: db}
}

// Create inserts a new entry after checking the active-duplicate invariant
// explicitly. Run inside a transaction to keep the check and the insert
// atomic.
func (r *Repository) Create(ctx context.Context, entry *domain.BlacklistEntry) (*domain.BlacklistEntry, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	dup, err := r.findActiveDuplicate(ctx, executor, entry)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicateContact
	}

	query, args, err := psqlbuilder.Insert("blacklist_entries").
		Columns("company_id", "phone", "email", "reason", "active").
		Values(entry.CompanyID, entry.Phone, entry.Email, entry.Reason, entry.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return entry, nil
}

func (r *Repository) findActiveDuplicate(ctx context.Context, executor txmanager.Executor, entry *domain.BlacklistEntry) (bool, error) {
	contactMatch := squirrel.Or{}
	if entry.Phone != nil && *entry.Phone != "" {
		contactMatch = append(contactMatch, squirrel.Eq{"phone": *entry.Phone})
	}
	if entry.Email != nil && *entry.Email != "" {
		contactMatch = append(contactMatch, squirrel.Eq{"email": *entry.Email})
	}
	if len(contactMatch) == 0 {
		return false, nil
	}

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("blacklist_entries").
		Where(squirrel.Eq{"company_id": entry.CompanyID, "active": true}).
		Where(contactMatch).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: findActiveDuplicate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: findActiveDuplicate - scan count: %v", ErrScanRow, err)
	}
	return count > 0, nil
}

// Deactivate flips an entry to inactive, keeping it for audit.
func (r *Repository) Deactivate(ctx context.Context, companyID, id int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("blacklist_entries").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "company_id": companyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// ListByCompany returns the company's entries, newest first.
func (r *Repository) ListByCompany(ctx context.Context, companyID int64, activeOnly bool) ([]domain.BlacklistEntry, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("blacklist_entries").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("created_at DESC")
	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCompany - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCompany - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]domain.BlacklistEntry, 0)
	for rows.Next() {
		var (
			e                    domain.BlacklistEntry
			createdAt, updatedAt sql.NullTime
		)
		err := rows.Scan(&e.ID, &e.CompanyID, &e.Phone, &e.Email, &e.Reason, &e.Active, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByCompany - scan row: %v", ErrScanRow, err)
		}
		e.CreatedAt = createdAt.Time
		e.UpdatedAt = updatedAt.Time
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByCompany - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// FindActiveMatch returns the active entries of the company matching the
// phone or email. Used by the conflict guard on booking creation.
func (r *Repository) FindActiveMatch(ctx context.Context, companyID int64, phone string, email *string) ([]domain.BlacklistEntry, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	contactMatch := squirrel.Or{squirrel.Eq{"phone": phone}}
	if email != nil && *email != "" {
		contactMatch = append(contactMatch, squirrel.Eq{"email": *email})
	}

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("blacklist_entries").
		Where(squirrel.Eq{"company_id": companyID, "active": true}).
		Where(contactMatch).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveMatch - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveMatch - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]domain.BlacklistEntry, 0)
	for rows.Next() {
		var (
			e                    domain.BlacklistEntry
			createdAt, updatedAt sql.NullTime
		)
		err := rows.Scan(&e.ID, &e.CompanyID, &e.Phone, &e.Email, &e.Reason, &e.Active, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: FindActiveMatch - scan row: %v", ErrScanRow, err)
		}
		e.CreatedAt = createdAt.Time
		e.UpdatedAt = updatedAt.Time
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindActiveMatch - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
