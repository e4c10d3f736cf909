// Package gormstore persists accounts, password-reset records and channel
// ordering with gorm. Open targets PostgreSQL; OpenSQLite serves tests and
// local development.
package gormstore
