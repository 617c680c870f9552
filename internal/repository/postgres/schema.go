package postgres

import "context"

const schemaRoleAssignments = `
	CREATE TABLE IF NOT EXISTS role_assignments (
		user_id     UUID PRIMARY KEY,
		role        TEXT NOT NULL CHECK (role <> ''),
		assigned_by UUID NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_role_assignments_role ON role_assignments (role);
`

// Migrate creates the tables this service owns. It is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range []string{schemaRoleAssignments} {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return errFailedMigrate(err)
		}
	}
	return nil
}
