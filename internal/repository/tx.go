package repository

import "context"

// Tx defines the interface shared by every transactional unit of work
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
