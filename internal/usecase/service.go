package usecase

import (
	"time"
)

// Service implements the audit collective workflow over a Store. All
// authorization decisions live here (expressed through the predicates in
// the collective package) so the HTTP layer only authenticates and maps
// errors to status codes.
type Service struct {
	store Store
	repos Repos
	Clock func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		repos: store.Repos(),
		Clock: time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}
