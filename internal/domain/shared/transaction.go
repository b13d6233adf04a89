package shared

import "context"

// Transactor runs fn inside a single unit of work.
//
// Repositories called with the ctx handed to fn take part in the same
// transaction. fn returning nil commits; an error or a panic rolls back.
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
