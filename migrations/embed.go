// Package migrations ships the table DDL with the binary.
package migrations

import _ "embed"

// Up creates the task and project tables in the first schema of search_path.
//
//go:embed 001_create_tasks.up.sql
var Up string
