package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tillpoint/cashdesk_backend/internal/apperrors"
	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	portsrepo "github.com/tillpoint/cashdesk_backend/internal/core/ports/repositories"
	"github.com/tillpoint/cashdesk_backend/internal/models"
	"github.com/tillpoint/cashdesk_backend/internal/utils/mapping"
	"github.com/tillpoint/cashdesk_backend/internal/utils/pagination"
)

type PgxTransferRepository struct {
	BaseRepository
}

// newPgxTransferRepository creates a new repository for transfer request data.
func newPgxTransferRepository(pool *pgxpool.Pool) portsrepo.TransferRepositoryFacade {
	return &PgxTransferRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTransferRepository implements portsrepo.TransferRepositoryFacade
var _ portsrepo.TransferRepositoryFacade = (*PgxTransferRepository)(nil)

const transferColumns = `request_id, tenant_id, kind, amount, status, from_actor_id, to_actor_id,
	       from_drawer_id, to_drawer_id, to_external_account_id, reason, notes,
	       reference_number, created_at, created_by, responded_at, responded_by`

func scanTransfer(row pgx.Row) (*models.TransferRequest, error) {
	var m models.TransferRequest
	err := row.Scan(
		&m.RequestID,
		&m.TenantID,
		&m.Kind,
		&m.Amount,
		&m.Status,
		&m.FromActorID,
		&m.ToActorID,
		&m.FromDrawerID,
		&m.ToDrawerID,
		&m.ToExternalAccID,
		&m.Reason,
		&m.Notes,
		&m.ReferenceNumber,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.RespondedAt,
		&m.RespondedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveTransfer persists a new PENDING transfer request.
func (r *PgxTransferRepository) SaveTransfer(ctx context.Context, req domain.TransferRequest) error {
	m := mapping.ToModelTransferRequest(req)
	query := `
		INSERT INTO transfer_requests (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RequestID,
		m.TenantID,
		m.Kind,
		m.Amount,
		m.Status,
		m.FromActorID,
		m.ToActorID,
		m.FromDrawerID,
		m.ToDrawerID,
		m.ToExternalAccID,
		m.Reason,
		m.Notes,
		m.ReferenceNumber,
		m.CreatedAt,
		m.CreatedBy,
		m.RespondedAt,
		m.RespondedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: transfer request %s already exists", apperrors.ErrDuplicate, m.RequestID)
		}
		return apperrors.NewAppError(500, "failed to insert transfer request "+m.RequestID, err)
	}
	return nil
}

// FindTransferByID retrieves a transfer request by its ID.
func (r *PgxTransferRepository) FindTransferByID(ctx context.Context, requestID string) (*domain.TransferRequest, error) {
	query := `SELECT ` + transferColumns + ` FROM transfer_requests WHERE request_id = $1;`
	m, err := scanTransfer(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transfer request by ID "+requestID, err)
	}
	d := mapping.ToDomainTransferRequest(*m)
	return &d, nil
}

// ListTransfers retrieves transfer requests for a tenant ordered by created_at
// descending with request_id as tie-breaker, using token-based pagination.
func (r *PgxTransferRepository) ListTransfers(ctx context.Context, tenantID string, filter portsrepo.TransferFilter, limit int, nextToken *string) ([]domain.TransferRequest, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	query := `SELECT ` + transferColumns + ` FROM transfer_requests WHERE tenant_id = $1`
	args := []interface{}{tenantID}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += " AND status = $" + strconv.Itoa(len(args))
	}
	if filter.Kind != nil {
		args = append(args, string(*filter.Kind))
		query += " AND kind = $" + strconv.Itoa(len(args))
	}
	if filter.ActorID != nil {
		args = append(args, *filter.ActorID)
		n := strconv.Itoa(len(args))
		query += " AND (from_actor_id = $" + n + " OR to_actor_id = $" + n + ")"
	}
	if filter.ToActorID != nil {
		args = append(args, *filter.ToActorID)
		query += " AND to_actor_id = $" + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastRequestID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		// Tuple comparison keeps the cursor stable across equal timestamps.
		args = append(args, lastCreatedAt, lastRequestID)
		query += fmt.Sprintf(" AND (created_at, request_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, fetchLimit)
	query += " ORDER BY created_at DESC, request_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transfer requests for tenant "+tenantID, err)
	}
	defer rows.Close()

	transfers := make([]models.TransferRequest, 0, fetchLimit)
	for rows.Next() {
		m, err := scanTransfer(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transfer request row for tenant "+tenantID, err)
		}
		transfers = append(transfers, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transfer request rows for tenant "+tenantID, err)
	}

	var nextTokenVal *string
	if len(transfers) > limit {
		last := transfers[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.RequestID)
		nextTokenVal = &token
		transfers = transfers[:limit]
	}

	return mapping.ToDomainTransferRequestSlice(transfers), nextTokenVal, nil
}

// resolveEnvelopeInTx performs the conditional PENDING -> terminal transition.
// RowsAffected distinguishes the winner: the losing concurrent resolver finds
// zero rows and observes ErrAlreadyResolved (or ErrNotFound).
func (r *PgxTransferRepository) resolveEnvelopeInTx(ctx context.Context, tx pgx.Tx, requestID string, status models.TransferStatus, resolverID, notes string, now time.Time) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE transfer_requests
		SET status = $2, notes = $3, responded_at = $4, responded_by = $5
		WHERE request_id = $1 AND status = 'PENDING';
	`, requestID, status, notes, now, resolverID)
	if err != nil {
		return mapPgError(err)
	}
	if cmdTag.RowsAffected() == 0 {
		var current models.TransferStatus
		err := tx.QueryRow(ctx, `SELECT status FROM transfer_requests WHERE request_id = $1;`, requestID).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return mapPgError(err)
		}
		return fmt.Errorf("%w: transfer request %s is %s", apperrors.ErrAlreadyResolved, requestID, current)
	}
	return nil
}

// ResolveEnvelope transitions the request envelope only. Used for rejections of
// either kind and approvals of ACCOUNT transfers, where no drawer is touched.
func (r *PgxTransferRepository) ResolveEnvelope(ctx context.Context, requestID string, status domain.TransferStatus, resolverID, notes string, now time.Time) (*domain.TransferRequest, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if err := r.resolveEnvelopeInTx(ctx, tx, requestID, models.TransferStatus(status), resolverID, notes, now); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return r.FindTransferByID(ctx, requestID)
}

// ApproveDrawerTransfer executes the full approval of a DRAWER transfer in one
// transaction: lock the request row, lock both drawers (ordered by drawer ID so
// two overlapping approvals cannot deadlock), re-check drawer state and source
// funds, then move the cash with paired TRANSFER_OUT/TRANSFER_IN entries.
//
// Re-check failures resolve the request to REJECTED inside the same transaction
// and return the rejected request. That is a consumed business outcome, not an
// error: the request is spent either way.
func (r *PgxTransferRepository) ApproveDrawerTransfer(ctx context.Context, requestID string, resolverID, notes string, now time.Time) (*domain.TransferRequest, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Lock the request row first; concurrent resolvers serialize here.
	req, err := scanTransfer(tx.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM transfer_requests WHERE request_id = $1 FOR UPDATE;`, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(err)
	}
	if req.Status != models.TransferPending {
		return nil, fmt.Errorf("%w: transfer request %s is %s", apperrors.ErrAlreadyResolved, requestID, req.Status)
	}
	if req.Kind != models.TransferKind(domain.TransferDrawer) {
		return nil, fmt.Errorf("%w: transfer request %s is not a drawer transfer", apperrors.ErrInvalidState, requestID)
	}

	// Deterministic lock order across concurrent approvals.
	firstID, secondID := req.FromDrawerID, req.ToDrawerID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := lockDrawerForUpdate(ctx, tx, firstID)
	if err != nil {
		return nil, err
	}
	second, err := lockDrawerForUpdate(ctx, tx, secondID)
	if err != nil {
		return nil, err
	}
	source, dest := first, second
	if source.DrawerID != req.FromDrawerID {
		source, dest = second, first
	}

	// Re-check under the locks; creation-time checks may have gone stale.
	if rejection := drawerApprovalRejection(source, dest, req); rejection != "" {
		if err := r.resolveEnvelopeInTx(ctx, tx, requestID, models.TransferRejected, resolverID, rejection, now); err != nil {
			return nil, err
		}
		if err := r.Commit(ctx, tx); err != nil {
			return nil, err
		}
		return r.FindTransferByID(ctx, requestID)
	}

	description := "transfer " + req.ReferenceNumber

	source.CurrentBalance = source.CurrentBalance.Sub(req.Amount)
	source.LastUpdatedAt = now
	source.LastUpdatedBy = resolverID
	if err := updateDrawerInTx(ctx, tx, source); err != nil {
		return nil, apperrors.NewAppError(500, "failed to debit drawer "+source.DrawerID, err)
	}
	if _, err := insertEntryInTx(ctx, tx, source.DrawerID, models.EntryKind(domain.EntryTransferOut), req.Amount.Neg(), source.CurrentBalance, description, &req.RequestID, resolverID, now); err != nil {
		return nil, apperrors.NewAppError(500, "failed to write debit entry for drawer "+source.DrawerID, err)
	}

	dest.CurrentBalance = dest.CurrentBalance.Add(req.Amount)
	dest.LastUpdatedAt = now
	dest.LastUpdatedBy = resolverID
	if err := updateDrawerInTx(ctx, tx, dest); err != nil {
		return nil, apperrors.NewAppError(500, "failed to credit drawer "+dest.DrawerID, err)
	}
	if _, err := insertEntryInTx(ctx, tx, dest.DrawerID, models.EntryKind(domain.EntryTransferIn), req.Amount, dest.CurrentBalance, description, &req.RequestID, resolverID, now); err != nil {
		return nil, apperrors.NewAppError(500, "failed to write credit entry for drawer "+dest.DrawerID, err)
	}

	if err := r.resolveEnvelopeInTx(ctx, tx, requestID, models.TransferApproved, resolverID, notes, now); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return r.FindTransferByID(ctx, requestID)
}

// drawerApprovalRejection returns a non-empty rejection note when the locked
// drawers can no longer carry the transfer.
func drawerApprovalRejection(source, dest *models.Drawer, req *models.TransferRequest) string {
	if source.Status != models.DrawerOpen {
		return "rejected: source drawer is " + string(source.Status)
	}
	if dest.Status != models.DrawerOpen {
		return "rejected: destination drawer is " + string(dest.Status)
	}
	if source.CurrentBalance.LessThan(req.Amount) {
		return "rejected: insufficient funds (balance " + source.CurrentBalance.String() + ", requested " + req.Amount.String() + ")"
	}
	return ""
}
