package handler

import (
	"context"

	"compliance-service/internal/domain/assignment"

	"github.com/google/uuid"
)

// Consumer-side interfaces defined by handlers

// AssignmentStore is the role assignment persistence used by AssignmentHandler.
// Upsert and Delete return apperrors.ErrConflict instead of removing the last
// SUPER_ADMIN.
type AssignmentStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*assignment.Assignment, error)
	Upsert(ctx context.Context, input assignment.UpsertInput) (*assignment.Assignment, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context) ([]*assignment.Assignment, error)
}

// RoleInvalidator drops any cached role for a user after it changes.
type RoleInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
