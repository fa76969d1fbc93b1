package updater

import "context"

type Notifier interface {
	PublishUpdated(ctx context.Context, pipeline string) error
}
