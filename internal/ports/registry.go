package ports

import (
	"context"

	"pubwatch/internal/types"
)

// RegistryPort resolves a package name to its published version
// metadata. One network call per invocation, no batching, no retry.
type RegistryPort interface {
	FetchPackage(ctx context.Context, name string) (types.RegistryRecord, error)
}
