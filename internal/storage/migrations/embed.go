// Package migrations holds the embedded schemas for both persistence
// backends: the postgres alerts table and the clickhouse validation
// history table. Both are idempotent CREATE IF NOT EXISTS statements.
package migrations

import _ "embed"

//go:embed postgres/001_alerts.sql
var alertsSchema string

//go:embed clickhouse/001_validation_history.sql
var validationHistorySchema string
