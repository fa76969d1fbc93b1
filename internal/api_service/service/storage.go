package service

// Source serves the current bytes of one persisted store document.
type Source interface {
	Document() ([]byte, error)
}
