package public

import (
	"context"
	"encoding/json"
)

type Service interface {
	Rates(ctx context.Context, store string) (json.RawMessage, error)
}
