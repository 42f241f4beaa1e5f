package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tillpoint/cashdesk_backend/internal/apperrors"
	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	portsrepo "github.com/tillpoint/cashdesk_backend/internal/core/ports/repositories"
	"github.com/tillpoint/cashdesk_backend/internal/models"
	"github.com/tillpoint/cashdesk_backend/internal/utils/mapping"
)

type PgxDrawerRepository struct {
	BaseRepository
}

// newPgxDrawerRepository creates a new repository for drawer and journal data.
func newPgxDrawerRepository(pool *pgxpool.Pool) portsrepo.DrawerRepositoryFacade {
	return &PgxDrawerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxDrawerRepository implements portsrepo.DrawerRepositoryFacade
var _ portsrepo.DrawerRepositoryFacade = (*PgxDrawerRepository)(nil)

const drawerColumns = `drawer_id, tenant_id, owner_id, name, status, opening_balance, current_balance,
	       created_at, created_by, last_updated_at, last_updated_by`

func scanDrawer(row pgx.Row) (*models.Drawer, error) {
	var m models.Drawer
	err := row.Scan(
		&m.DrawerID,
		&m.TenantID,
		&m.OwnerID,
		&m.Name,
		&m.Status,
		&m.OpeningBalance,
		&m.CurrentBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveDrawer persists a new drawer.
func (r *PgxDrawerRepository) SaveDrawer(ctx context.Context, drawer domain.Drawer) error {
	modelDrawer := mapping.ToModelDrawer(drawer)
	query := `
		INSERT INTO drawers (` + drawerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelDrawer.DrawerID,
		modelDrawer.TenantID,
		modelDrawer.OwnerID,
		modelDrawer.Name,
		modelDrawer.Status,
		modelDrawer.OpeningBalance,
		modelDrawer.CurrentBalance,
		modelDrawer.CreatedAt,
		modelDrawer.CreatedBy,
		modelDrawer.LastUpdatedAt,
		modelDrawer.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: drawer with ID %s already exists", apperrors.ErrDuplicate, modelDrawer.DrawerID)
		}
		return apperrors.NewAppError(500, "failed to insert drawer "+modelDrawer.DrawerID, err)
	}
	return nil
}

// FindDrawerByID retrieves a drawer by its ID.
func (r *PgxDrawerRepository) FindDrawerByID(ctx context.Context, drawerID string) (*domain.Drawer, error) {
	query := `SELECT ` + drawerColumns + ` FROM drawers WHERE drawer_id = $1;`
	modelDrawer, err := scanDrawer(r.Pool.QueryRow(ctx, query, drawerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find drawer by ID "+drawerID, err)
	}
	domainDrawer := mapping.ToDomainDrawer(*modelDrawer)
	return &domainDrawer, nil
}

// ListDrawersByTenant retrieves all drawers within a tenant.
func (r *PgxDrawerRepository) ListDrawersByTenant(ctx context.Context, tenantID string) ([]domain.Drawer, error) {
	query := `SELECT ` + drawerColumns + ` FROM drawers WHERE tenant_id = $1 ORDER BY name;`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query drawers for tenant "+tenantID, err)
	}
	defer rows.Close()

	drawers := []models.Drawer{}
	for rows.Next() {
		m, err := scanDrawer(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan drawer row for tenant "+tenantID, err)
		}
		drawers = append(drawers, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating drawer rows for tenant "+tenantID, err)
	}
	return mapping.ToDomainDrawerSlice(drawers), nil
}

// lockDrawerForUpdate fetches a drawer inside tx with a row lock.
func lockDrawerForUpdate(ctx context.Context, tx pgx.Tx, drawerID string) (*models.Drawer, error) {
	query := `SELECT ` + drawerColumns + ` FROM drawers WHERE drawer_id = $1 FOR UPDATE;`
	m, err := scanDrawer(tx.QueryRow(ctx, query, drawerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(err)
	}
	return m, nil
}

// insertEntryInTx assigns the next sequence number for the drawer and inserts
// the journal row. Must be called with the drawer's row lock held, which
// serializes sequence assignment per drawer.
func insertEntryInTx(ctx context.Context, tx pgx.Tx, drawerID string, kind models.EntryKind, amount, balanceAfter decimal.Decimal, description string, relatedTransferID *string, userID string, now time.Time) (*models.JournalEntry, error) {
	var nextSeq int64
	err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(sequence_number), 0) + 1 FROM journal_entries WHERE drawer_id = $1;`,
		drawerID,
	).Scan(&nextSeq)
	if err != nil {
		return nil, mapPgError(err)
	}

	entry := models.JournalEntry{
		EntryID:           uuid.NewString(),
		DrawerID:          drawerID,
		SequenceNumber:    nextSeq,
		Kind:              kind,
		Amount:            amount,
		BalanceAfter:      balanceAfter,
		Description:       description,
		OccurredAt:        now,
		RelatedTransferID: relatedTransferID,
		CreatedBy:         userID,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO journal_entries (
			entry_id, drawer_id, sequence_number, kind, amount, balance_after,
			description, occurred_at, related_transfer_id, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`,
		entry.EntryID,
		entry.DrawerID,
		entry.SequenceNumber,
		entry.Kind,
		entry.Amount,
		entry.BalanceAfter,
		entry.Description,
		entry.OccurredAt,
		entry.RelatedTransferID,
		entry.CreatedBy,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &entry, nil
}

// updateDrawerInTx writes the mutable drawer columns inside tx.
func updateDrawerInTx(ctx context.Context, tx pgx.Tx, m *models.Drawer) error {
	_, err := tx.Exec(ctx, `
		UPDATE drawers
		SET status = $2, opening_balance = $3, current_balance = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE drawer_id = $1;
	`,
		m.DrawerID,
		m.Status,
		m.OpeningBalance,
		m.CurrentBalance,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapPgError(err)
}

// OpenDrawer transitions CLOSED->OPEN, sets the opening balance and appends the
// OPENING_BALANCE entry within a single transaction. The entry amount is the
// difference between the new opening balance and the prior balance so the
// running-balance invariant holds across reopenings.
func (r *PgxDrawerRepository) OpenDrawer(ctx context.Context, drawerID string, openingBalance decimal.Decimal, userID string, now time.Time) (*domain.Drawer, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m, err := lockDrawerForUpdate(ctx, tx, drawerID)
	if err != nil {
		return nil, err
	}
	if m.Status != models.DrawerClosed {
		return nil, fmt.Errorf("%w: drawer %s is %s, not CLOSED", apperrors.ErrInvalidState, drawerID, m.Status)
	}

	delta := openingBalance.Sub(m.CurrentBalance)
	m.Status = models.DrawerOpen
	m.OpeningBalance = openingBalance
	m.CurrentBalance = openingBalance
	m.LastUpdatedAt = now
	m.LastUpdatedBy = userID

	if err := updateDrawerInTx(ctx, tx, m); err != nil {
		return nil, apperrors.NewAppError(500, "failed to open drawer "+drawerID, err)
	}
	if _, err := insertEntryInTx(ctx, tx, drawerID, models.EntryKind(domain.EntryOpeningBalance), delta, openingBalance, "drawer opened", nil, userID, now); err != nil {
		return nil, apperrors.NewAppError(500, "failed to write opening entry for drawer "+drawerID, err)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	domainDrawer := mapping.ToDomainDrawer(*m)
	return &domainDrawer, nil
}

// CloseDrawer transitions OPEN->CLOSED and appends a zero-amount
// CLOSING_BALANCE entry snapshotting the final balance.
func (r *PgxDrawerRepository) CloseDrawer(ctx context.Context, drawerID string, userID string, now time.Time) (*domain.Drawer, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m, err := lockDrawerForUpdate(ctx, tx, drawerID)
	if err != nil {
		return nil, err
	}
	if m.Status != models.DrawerOpen {
		return nil, fmt.Errorf("%w: drawer %s is %s, not OPEN", apperrors.ErrInvalidState, drawerID, m.Status)
	}

	m.Status = models.DrawerClosed
	m.LastUpdatedAt = now
	m.LastUpdatedBy = userID

	if err := updateDrawerInTx(ctx, tx, m); err != nil {
		return nil, apperrors.NewAppError(500, "failed to close drawer "+drawerID, err)
	}
	if _, err := insertEntryInTx(ctx, tx, drawerID, models.EntryKind(domain.EntryClosingBalance), decimal.Zero, m.CurrentBalance, "drawer closed", nil, userID, now); err != nil {
		return nil, apperrors.NewAppError(500, "failed to write closing entry for drawer "+drawerID, err)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	domainDrawer := mapping.ToDomainDrawer(*m)
	return &domainDrawer, nil
}

// SetDrawerStatus flips the status from an expected current value to a target
// value without touching balances or the journal (suspend/reinstate).
func (r *PgxDrawerRepository) SetDrawerStatus(ctx context.Context, drawerID string, from, to domain.DrawerStatus, userID string, now time.Time) (*domain.Drawer, error) {
	query := `
		UPDATE drawers
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE drawer_id = $1 AND status = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, drawerID, string(from), string(to), now, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update status for drawer "+drawerID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the drawer does not exist or its status moved underneath us.
		current, err := r.FindDrawerByID(ctx, drawerID)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: drawer %s is %s, not %s", apperrors.ErrInvalidState, drawerID, current.Status, from)
	}
	return r.FindDrawerByID(ctx, drawerID)
}

// AppendEntry appends a journal entry to an OPEN drawer, assigning the next
// sequence number and resulting balance under the drawer's row lock.
func (r *PgxDrawerRepository) AppendEntry(ctx context.Context, drawerID string, kind domain.EntryKind, amount decimal.Decimal, description string, relatedTransferID *string, userID string, now time.Time) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m, err := lockDrawerForUpdate(ctx, tx, drawerID)
	if err != nil {
		return nil, err
	}
	if m.Status != models.DrawerOpen {
		return nil, fmt.Errorf("%w: drawer %s is %s, not OPEN", apperrors.ErrInvalidState, drawerID, m.Status)
	}

	newBalance := m.CurrentBalance.Add(amount)
	if newBalance.IsNegative() {
		return nil, fmt.Errorf("%w: drawer %s balance %s cannot absorb %s", apperrors.ErrInsufficientFunds, drawerID, m.CurrentBalance.String(), amount.String())
	}

	m.CurrentBalance = newBalance
	m.LastUpdatedAt = now
	m.LastUpdatedBy = userID

	if err := updateDrawerInTx(ctx, tx, m); err != nil {
		return nil, apperrors.NewAppError(500, "failed to update balance for drawer "+drawerID, err)
	}
	entry, err := insertEntryInTx(ctx, tx, drawerID, models.EntryKind(kind), amount, newBalance, description, relatedTransferID, userID, now)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert journal entry for drawer "+drawerID, err)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	domainEntry := mapping.ToDomainJournalEntry(*entry)
	return &domainEntry, nil
}

// ListEntries retrieves journal entries for a drawer ordered by sequence
// number, optionally restricted to occurred_at in [from, to).
func (r *PgxDrawerRepository) ListEntries(ctx context.Context, drawerID string, from, to *time.Time) ([]domain.JournalEntry, error) {
	query := `
		SELECT entry_id, drawer_id, sequence_number, kind, amount, balance_after,
		       description, occurred_at, related_transfer_id, created_by
		FROM journal_entries
		WHERE drawer_id = $1
	`
	args := []interface{}{drawerID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND occurred_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND occurred_at < $%d", len(args))
	}
	query += " ORDER BY sequence_number;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entries for drawer "+drawerID, err)
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		var e models.JournalEntry
		err := rows.Scan(
			&e.EntryID,
			&e.DrawerID,
			&e.SequenceNumber,
			&e.Kind,
			&e.Amount,
			&e.BalanceAfter,
			&e.Description,
			&e.OccurredAt,
			&e.RelatedTransferID,
			&e.CreatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry row for drawer "+drawerID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entry rows for drawer "+drawerID, err)
	}
	return mapping.ToDomainJournalEntrySlice(entries), nil
}
