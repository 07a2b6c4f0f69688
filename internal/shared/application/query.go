package application

import "context"

// Query is a request that reads system state without changing it.
type Query interface {
	QueryName() string
}

// QueryHandler handles a single query type.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
