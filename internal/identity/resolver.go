// Package identity maps an authenticated user to the single role they hold.
package identity

import (
	"context"
	"errors"
	"fmt"

	"compliance-service/internal/domain/assignment"
	"compliance-service/internal/infra/cache"
	"compliance-service/internal/rbac"
	apperrors "compliance-service/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgRoleStoreUnavailable = "role store unavailable"

	errResolveRoleFmt    = "failed to resolve role for user %s: %w"
	errInvalidateRoleFmt = "failed to invalidate cached role for user %s: %w"
)

// AssignmentReader is the subset of the assignment repository the resolver needs.
type AssignmentReader interface {
	Get(ctx context.Context, userID uuid.UUID) (*assignment.Assignment, error)
}

// Resolver performs cache-aside role lookups. A user without an assignment
// resolves to rbac.NoRole, which every check denies.
type Resolver struct {
	repo   AssignmentReader
	cache  cache.RoleCache
	logger *zap.Logger
}

func NewResolver(repo AssignmentReader, roleCache cache.RoleCache, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{repo: repo, cache: roleCache, logger: logger}
}

func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) (rbac.Role, error) {
	role, err := r.cache.Get(ctx, userID)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// Cache outages degrade to the database; they never decide access.
		r.logger.Warn("role cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
	}

	// Captured before the store read: an Invalidate landing after this point
	// makes the write-back below a no-op.
	gen, genErr := r.cache.Generation(ctx, userID)

	a, err := r.repo.Get(ctx, userID)
	switch {
	case err == nil:
		role = a.Role
	case errors.Is(err, apperrors.ErrNotFound):
		role = rbac.NoRole
	default:
		return rbac.NoRole, apperrors.Unavailable(msgRoleStoreUnavailable, fmt.Errorf(errResolveRoleFmt, userID, err))
	}

	if genErr != nil {
		r.logger.Warn("role cache generation read failed", zap.String("user_id", userID.String()), zap.Error(genErr))
		return role, nil
	}

	stored, err := r.cache.SetIfGeneration(ctx, userID, role, gen)
	switch {
	case err != nil:
		r.logger.Warn("role cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
	case !stored:
		r.logger.Debug("role changed during lookup; not cached", zap.String("user_id", userID.String()))
	}

	return role, nil
}

// Invalidate drops the cached role so the next Resolve reads the store, and
// advances the user's generation so lookups already in flight cannot put the
// old role back.
func (r *Resolver) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := r.cache.Delete(ctx, userID); err != nil {
		return fmt.Errorf(errInvalidateRoleFmt, userID, err)
	}
	return nil
}
