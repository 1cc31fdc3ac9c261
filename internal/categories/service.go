package categories

import (
	"slices"

	"github.com/treasury-ledger/treasury/internal/model"
)

// Service provides lookup over the fixed category sets of each kind.
type Service struct {
	byKind map[model.Kind][]string
}

// NewService creates a Service. Order within each slice is kept and the
// first entry of a kind is its default.
func NewService(byKind map[model.Kind][]string) *Service {
	cp := make(map[model.Kind][]string, len(byKind))
	for k, names := range byKind {
		cp[k] = slices.Clone(names)
	}
	return &Service{byKind: cp}
}

// All returns the categories of a kind in catalog order.
func (s *Service) All(kind model.Kind) []string {
	return slices.Clone(s.byKind[kind])
}

// Exists reports whether name is a category of kind. Matching is exact.
func (s *Service) Exists(kind model.Kind, name string) bool {
	return slices.Contains(s.byKind[kind], name)
}

// Default returns the first category of a kind, or "" when the kind has none.
func (s *Service) Default(kind model.Kind) string {
	names := s.byKind[kind]
	if len(names) == 0 {
		return ""
	}
	return names[0]
}
