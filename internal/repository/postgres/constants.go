package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second
	minGuardedHolders     = 1

	errAssignmentNotFound = "role assignment not found"
	errAssignmentRejected = "role assignment rejected by database constraint"
	errAssignmentRoleBad  = "role is not recognized"
	errLastGuardedHolder  = "at least one holder of this role must remain"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"
	errFailedMigrateFmt              = "failed to apply schema: %w"

	errFailedGetAssignmentFmt     = "failed to get role assignment: %w"
	errFailedUpsertAssignmentFmt  = "failed to upsert role assignment: %w"
	errFailedDeleteAssignmentFmt  = "failed to delete role assignment: %w"
	errFailedListAssignmentsFmt   = "failed to list role assignments: %w"
	errFailedScanAssignmentFmt    = "failed to scan role assignment: %w"
	errIterateAssignmentsFmt      = "error iterating role assignments: %w"
	errFailedLockHoldersFmt       = "failed to lock role holders: %w"
	errFailedStartTransactionFmt  = "failed to start transaction: %w"
	errFailedCommitTransactionFmt = "failed to commit transaction: %w"
	errStoredRoleInvalidFmt       = "stored role for user %s is not recognized: %w"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedMigrate              = func(err error) error { return fmt.Errorf(errFailedMigrateFmt, err) }
	errFailedGetAssignment        = func(err error) error { return fmt.Errorf(errFailedGetAssignmentFmt, err) }
	errFailedUpsertAssignment     = func(err error) error { return fmt.Errorf(errFailedUpsertAssignmentFmt, err) }
	errFailedDeleteAssignment     = func(err error) error { return fmt.Errorf(errFailedDeleteAssignmentFmt, err) }
	errFailedListAssignments      = func(err error) error { return fmt.Errorf(errFailedListAssignmentsFmt, err) }
	errFailedScanAssignment       = func(err error) error { return fmt.Errorf(errFailedScanAssignmentFmt, err) }
	errIterateAssignments         = func(err error) error { return fmt.Errorf(errIterateAssignmentsFmt, err) }
	errFailedLockHolders          = func(err error) error { return fmt.Errorf(errFailedLockHoldersFmt, err) }
	errFailedStartTransaction     = func(err error) error { return fmt.Errorf(errFailedStartTransactionFmt, err) }
	errFailedCommitTransaction    = func(err error) error { return fmt.Errorf(errFailedCommitTransactionFmt, err) }
)
