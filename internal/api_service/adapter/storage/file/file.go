// Package file exposes the persisted store documents to the read service.
// Documents go through a strict decode on every read so a corrupt file
// surfaces as an error instead of being served verbatim.
package file

import (
	"encoding/json"

	"github.com/ratestash/ratestash/internal/entities"
	"github.com/ratestash/ratestash/internal/storage/jsonfile"
)

type MetalsSource struct {
	store *jsonfile.Store[entities.RateStore]
}

func NewMetalsSource(path string) *MetalsSource {
	return &MetalsSource{store: jsonfile.New[entities.RateStore](path)}
}

func (s *MetalsSource) Document() ([]byte, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

type CurrencySource struct {
	store *jsonfile.Store[entities.CurrencyStore]
}

func NewCurrencySource(path string) *CurrencySource {
	return &CurrencySource{store: jsonfile.New[entities.CurrencyStore](path)}
}

func (s *CurrencySource) Document() ([]byte, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
