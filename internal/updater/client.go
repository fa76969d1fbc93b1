package updater

import (
	"context"

	"github.com/ratestash/ratestash/internal/entities"
)

// Client performs the single upstream call of a run with the credential
// picked for the day.
type Client interface {
	Fetch(ctx context.Context, apiKey string) (entities.Payload, error)
}

type ClientFunc func(ctx context.Context, apiKey string) (entities.Payload, error)

func (f ClientFunc) Fetch(ctx context.Context, apiKey string) (entities.Payload, error) {
	return f(ctx, apiKey)
}
