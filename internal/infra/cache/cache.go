package cache

import (
	"context"
	"errors"
	"time"

	"compliance-service/internal/rbac"

	"github.com/google/uuid"
)

// ErrCacheMiss is returned by RoleCache.Get when no live entry exists.
var ErrCacheMiss = errors.New("role cache miss")

// RoleCache stores resolved roles keyed by user. A cached rbac.NoRole is a
// valid entry and means the user has no assignment.
//
// Every Delete advances a per-user generation. Readers capture the
// generation before loading a role from the store and write it back with
// SetIfGeneration, so a load that raced with a role change is dropped
// instead of overwriting the invalidation.
type RoleCache interface {
	Get(ctx context.Context, userID uuid.UUID) (rbac.Role, error)
	Generation(ctx context.Context, userID uuid.UUID) (uint64, error)
	// SetIfGeneration stores role only if the user's generation still equals
	// gen, and reports whether it did.
	SetIfGeneration(ctx context.Context, userID uuid.UUID, role rbac.Role, gen uint64) (bool, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

const (
	roleKeyPrefix       = "compliance:role:"
	generationKeyPrefix = "compliance:rolegen:"

	// Generations outlive any single lookup by a wide margin. One that has
	// expired reads as zero, which only ever fails a pending write.
	generationTTL = 24 * time.Hour
)

// BuildRoleKey creates the cache key for a user's role.
func BuildRoleKey(userID uuid.UUID) string {
	return roleKeyPrefix + userID.String()
}

func BuildGenerationKey(userID uuid.UUID) string {
	return generationKeyPrefix + userID.String()
}
