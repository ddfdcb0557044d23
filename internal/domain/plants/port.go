package plants

import "context"

// Source port: where the catalog records come from at startup.
type Source interface {
	LoadAll(ctx context.Context) ([]Record, error)
}

// Seeder port: sources that can be pre-populated with the builtin records.
type Seeder interface {
	Seed(ctx context.Context, records []Record) error
}

// BuiltinSource serves Builtin() and never fails.
type BuiltinSource struct{}

func (BuiltinSource) LoadAll(context.Context) ([]Record, error) { return Builtin(), nil }
