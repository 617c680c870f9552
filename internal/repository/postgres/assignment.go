package postgres

import (
	"context"
	"errors"
	"fmt"

	"compliance-service/internal/domain/assignment"
	"compliance-service/internal/rbac"
	"compliance-service/internal/repository"
	apperrors "compliance-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ repository.RoleAssignmentRepository = (*AssignmentRepository)(nil)

type AssignmentRepository struct {
	db      *DB
	checker *rbac.Checker
	// guarded always keeps at least one holder; rbac.NoRole disables the rule.
	guarded rbac.Role
}

// NewAssignmentRepository returns a repository whose reads and writes are
// validated against checker's role set. Upsert and Delete refuse, with
// apperrors.ErrConflict, to take the last holder out of guarded.
func NewAssignmentRepository(db *DB, checker *rbac.Checker, guarded rbac.Role) *AssignmentRepository {
	return &AssignmentRepository{db: db, checker: checker, guarded: guarded}
}

func (r *AssignmentRepository) Get(ctx context.Context, userID uuid.UUID) (*assignment.Assignment, error) {
	query := `
		SELECT user_id, role, assigned_by, updated_at
		FROM role_assignments
		WHERE user_id = $1
	`

	a, err := r.scan(r.db.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errAssignmentNotFound)
		}
		return nil, errFailedGetAssignment(err)
	}

	return a, nil
}

func (r *AssignmentRepository) Upsert(ctx context.Context, input assignment.UpsertInput) (*assignment.Assignment, error) {
	role, err := r.checker.ParseRole(string(input.Role))
	if err != nil {
		return nil, apperrors.InvalidInput(errAssignmentRoleBad, err)
	}

	query := `
		INSERT INTO role_assignments (user_id, role, assigned_by, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE
		SET role = EXCLUDED.role, assigned_by = EXCLUDED.assigned_by, updated_at = now()
		RETURNING user_id, role, assigned_by, updated_at
	`

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, errFailedStartTransaction(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if role != r.guarded {
		if err := r.ensureNotLastHolder(ctx, tx, input.UserID); err != nil {
			return nil, err
		}
	}

	a, err := r.scan(tx.QueryRow(ctx, query, input.UserID, string(role), input.AssignedBy))
	if err != nil {
		if isCheckViolation(err) {
			return nil, apperrors.InvalidInput(errAssignmentRejected, err)
		}
		return nil, errFailedUpsertAssignment(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errFailedCommitTransaction(err)
	}

	return a, nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM role_assignments WHERE user_id = $1`

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return errFailedStartTransaction(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.ensureNotLastHolder(ctx, tx, userID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, query, userID)
	if err != nil {
		return errFailedDeleteAssignment(err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errAssignmentNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return errFailedCommitTransaction(err)
	}

	return nil
}

// ensureNotLastHolder locks every row holding the guarded role, so
// concurrent demotions queue behind each other and each one sees the rows
// the previous one left. Call it before the write, inside the same tx.
func (r *AssignmentRepository) ensureNotLastHolder(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	if r.guarded == rbac.NoRole {
		return nil
	}

	query := `SELECT user_id FROM role_assignments WHERE role = $1 FOR UPDATE`

	rows, err := tx.Query(ctx, query, string(r.guarded))
	if err != nil {
		return errFailedLockHolders(err)
	}
	holders, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return errFailedLockHolders(err)
	}

	isHolder := false
	for _, id := range holders {
		if id == userID {
			isHolder = true
			break
		}
	}

	if isHolder && len(holders) <= minGuardedHolders {
		return apperrors.Conflict(errLastGuardedHolder)
	}

	return nil
}

func (r *AssignmentRepository) List(ctx context.Context) ([]*assignment.Assignment, error) {
	query := `
		SELECT user_id, role, assigned_by, updated_at
		FROM role_assignments
		ORDER BY updated_at DESC, user_id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, errFailedListAssignments(err)
	}
	defer rows.Close()

	var assignments []*assignment.Assignment
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, errFailedScanAssignment(err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateAssignments(err)
	}

	return assignments, nil
}

// scan reads one row and re-validates the stored role, so a row written by
// an older catalog can never grant anything the current one does not know.
func (r *AssignmentRepository) scan(row pgx.Row) (*assignment.Assignment, error) {
	var (
		a    assignment.Assignment
		role string
	)

	if err := row.Scan(&a.UserID, &role, &a.AssignedBy, &a.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, err := r.checker.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf(errStoredRoleInvalidFmt, a.UserID, err)
	}
	a.Role = parsed

	return &a, nil
}
