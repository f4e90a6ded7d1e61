package services

import (
	"context"
	"sort"
	"sync"

	"github.com/billraya/ewallet-backend/internal/models"
	repo "github.com/billraya/ewallet-backend/internal/repository"
)

// CatalogService caches the static reference catalogs (transaction types,
// payment methods, tips). Load runs once at startup; Reload is the manual
// invalidation hook for the rare case the catalogs change underneath.
type CatalogService struct {
	r repo.Catalog

	mu      sync.RWMutex
	types   map[string]models.TransactionType
	methods map[string]models.PaymentMethod
	tips    []models.Tip
}

func NewCatalogService(r repo.Catalog) *CatalogService {
	return &CatalogService{r: r}
}

func (s *CatalogService) Load(ctx context.Context) error {
	types, err := s.r.TransactionTypes(ctx)
	if err != nil {
		return err
	}
	methods, err := s.r.PaymentMethods(ctx)
	if err != nil {
		return err
	}
	tips, err := s.r.Tips(ctx)
	if err != nil {
		return err
	}

	tm := make(map[string]models.TransactionType, len(types))
	for _, t := range types {
		tm[t.Code] = t
	}
	mm := make(map[string]models.PaymentMethod, len(methods))
	for _, m := range methods {
		mm[m.Code] = m
	}

	s.mu.Lock()
	s.types, s.methods, s.tips = tm, mm, tips
	s.mu.Unlock()
	return nil
}

func (s *CatalogService) Reload(ctx context.Context) error { return s.Load(ctx) }

// TransactionType looks up a catalog entry by code. A miss means the
// deployment never seeded its reference data, not a user mistake.
func (s *CatalogService) TransactionType(code string) (models.TransactionType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.types[code]
	if !ok {
		return models.TransactionType{}, ErrConfigurationMissing
	}
	return t, nil
}

func (s *CatalogService) PaymentMethod(code string) (models.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.methods[code]
	if !ok {
		return models.PaymentMethod{}, ErrConfigurationMissing
	}
	return m, nil
}

func (s *CatalogService) ActivePaymentMethods() []models.PaymentMethod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.PaymentMethod
	for _, m := range s.methods {
		if m.Status == "active" {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *CatalogService) Tips() []models.Tip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tips
}
