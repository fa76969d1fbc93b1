package updater

import (
	"github.com/pkg/errors"

	"github.com/ratestash/ratestash/internal/entities"
)

// Credentials are the two candidate API keys; which one a run uses depends
// only on the calendar, so both halves of the month burn a separate quota.
type Credentials struct {
	Primary   string
	Alternate string
}

// SelectKey picks the credential for the given civil day of month: days
// 1-15 run on the primary key, the 16th onward on the alternate. When the
// preferred key is not configured the other one stands in; neither being
// configured is a configuration error.
func SelectKey(keys Credentials, day int) (string, error) {
	chosen, other := keys.Primary, keys.Alternate
	if day > 15 {
		chosen, other = keys.Alternate, keys.Primary
	}
	if chosen == "" {
		chosen = other
	}
	if chosen == "" {
		return "", errors.Wrapf(entities.ErrNoCredential, "day %d", day)
	}
	return chosen, nil
}
