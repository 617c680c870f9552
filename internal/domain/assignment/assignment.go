package assignment

import (
	"time"

	"compliance-service/internal/rbac"

	"github.com/google/uuid"
)

// Assignment binds a user account to exactly one role.
type Assignment struct {
	UserID     uuid.UUID
	Role       rbac.Role
	AssignedBy uuid.UUID
	UpdatedAt  time.Time
}

type UpsertInput struct {
	UserID     uuid.UUID
	Role       rbac.Role
	AssignedBy uuid.UUID
}
