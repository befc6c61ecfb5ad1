package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

import (
	"context"

	"userlookup/internal/model"
)

// LookupRepository persists lookup audit records using SQL queries only.
type LookupRepository interface {
	// Create inserts a lookup record. The caller provides ID and CreatedAt.
	Create(ctx context.Context, l *model.Lookup) error

	// Recent returns at most limit records, newest first.
	Recent(ctx context.Context, limit int) ([]model.Lookup, error)
}
