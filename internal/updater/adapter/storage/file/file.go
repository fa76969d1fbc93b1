// Package file adapts the jsonfile stores to the updater's Storage
// interface. The metals document already has the engine's slot-keyed
// shape; the currency document is bridged through its whole-day slot.
package file

import (
	"github.com/ratestash/ratestash/internal/entities"
	"github.com/ratestash/ratestash/internal/storage/jsonfile"
)

type MetalStore struct {
	store *jsonfile.Store[entities.RateStore]
}

func NewMetalStore(path string) *MetalStore {
	return &MetalStore{store: jsonfile.New[entities.RateStore](path)}
}

func (s *MetalStore) Load() (*entities.RateStore, error) {
	return s.store.Load()
}

func (s *MetalStore) Save(st *entities.RateStore) error {
	return s.store.Save(st)
}

type CurrencyStore struct {
	store *jsonfile.Store[entities.CurrencyStore]
}

func NewCurrencyStore(path string) *CurrencyStore {
	return &CurrencyStore{store: jsonfile.New[entities.CurrencyStore](path)}
}

func (s *CurrencyStore) Load() (*entities.RateStore, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return &doc.RateStore, nil
}

func (s *CurrencyStore) Save(st *entities.RateStore) error {
	return s.store.Save(&entities.CurrencyStore{RateStore: *st})
}
