package updater

import (
	"github.com/ratestash/ratestash/internal/entities"
)

type Storage interface {
	Load() (*entities.RateStore, error)
	Save(st *entities.RateStore) error
}
