package devtools

import (
	"context"

	"github.com/totoromaum/h5p-cornell/internal/reconcile"
)

type Demo interface {
	Resolve(name string) Scenario
	SeedCache(ctx context.Context, states *reconcile.Reconciler, id reconcile.ContentID, name string) (Scenario, error)
	SetState(ctx context.Context, cacheDir string, state string, rendered bool) error
}
