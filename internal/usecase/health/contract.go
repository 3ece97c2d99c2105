package health

import "context"

// DBPinger checks vector store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CollectionReader checks collection presence and size.
type CollectionReader interface {
	Exists(ctx context.Context, name string) (bool, error)
	Count(ctx context.Context, name string) (int, error)
}
