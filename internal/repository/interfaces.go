package repository

import (
	"context"

	"compliance-service/internal/domain/assignment"

	"github.com/google/uuid"
)

// RoleAssignmentRepository is the full store contract. The identity and
// http packages each depend on the subset they use.
type RoleAssignmentRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*assignment.Assignment, error)
	Upsert(ctx context.Context, input assignment.UpsertInput) (*assignment.Assignment, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context) ([]*assignment.Assignment, error)
}
