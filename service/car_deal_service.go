package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"lease-agent/domain"
	"lease-agent/metrics"
	"lease-agent/repository"
)

// cachedOverview is the per-deal part of an overview. The list of all car
// deals is always read live.
type cachedOverview struct {
	CarDeal     domain.CarDeal            `json:"car_deal"`
	Offers      []domain.OfferWithPayment `json:"offers"`
	Dealerships []domain.Dealership       `json:"dealerships"`
	Contacts    []domain.Contact          `json:"contacts"`
}

type CarDealService struct {
	store  repository.Store
	cache  repository.CacheRepository
	offers *OfferService
	logger *zap.Logger
}

func NewCarDealService(
	store repository.Store,
	cache repository.CacheRepository,
	offers *OfferService,
	logger *zap.Logger,
) *CarDealService {
	return &CarDealService{
		store:  store,
		cache:  cache,
		offers: offers,
		logger: logger,
	}
}

func (s *CarDealService) CreateCarDeal(ctx context.Context, deal domain.CarDeal) (domain.CarDeal, error) {
	if err := deal.Validate(); err != nil {
		return domain.CarDeal{}, err
	}
	return s.store.CreateCarDeal(ctx, deal)
}

// UpdateCarDeal replaces title, description and image of an existing deal.
func (s *CarDealService) UpdateCarDeal(ctx context.Context, id string, deal domain.CarDeal) (domain.CarDeal, error) {
	existing, err := s.store.GetCarDeal(ctx, id)
	if err != nil {
		return domain.CarDeal{}, err
	}
	deal.ID = existing.ID
	deal.CreatedAt = existing.CreatedAt
	if deal.OwnerID == nil {
		deal.OwnerID = existing.OwnerID
	}
	if err := deal.Validate(); err != nil {
		return domain.CarDeal{}, err
	}

	updated, err := s.store.UpdateCarDeal(ctx, deal)
	if err != nil {
		return domain.CarDeal{}, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

func (s *CarDealService) GetCarDeal(ctx context.Context, id string) (domain.CarDeal, error) {
	return s.store.GetCarDeal(ctx, id)
}

func (s *CarDealService) ListCarDeals(ctx context.Context) ([]domain.CarDeal, error) {
	return s.store.ListCarDeals(ctx)
}

// DeleteCarDeal removes the deal and everything attached to it.
func (s *CarDealService) DeleteCarDeal(ctx context.Context, id string) error {
	if err := s.store.DeleteCarDeal(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CarDealService) CreateDealership(ctx context.Context, carDealID, name string) (domain.Dealership, error) {
	d := domain.Dealership{CarDealID: carDealID, Name: name}
	if err := d.Validate(); err != nil {
		return domain.Dealership{}, err
	}
	created, err := s.store.CreateDealership(ctx, d)
	if err != nil {
		return domain.Dealership{}, err
	}
	s.invalidate(ctx, carDealID)
	return created, nil
}

func (s *CarDealService) ListDealerships(ctx context.Context, carDealID string) ([]domain.Dealership, error) {
	if _, err := s.store.GetCarDeal(ctx, carDealID); err != nil {
		return nil, err
	}
	return s.store.ListDealerships(ctx, carDealID)
}

// DeleteDealership removes a dealership and its contacts. Its offers stay on
// the car deal without a dealership.
func (s *CarDealService) DeleteDealership(ctx context.Context, id string) error {
	d, err := s.store.GetDealership(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteDealership(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, d.CarDealID)
	return nil
}

func (s *CarDealService) CreateContact(ctx context.Context, dealershipID string, c domain.Contact) (domain.Contact, error) {
	c.DealershipID = dealershipID
	if err := c.Validate(); err != nil {
		return domain.Contact{}, err
	}
	d, err := s.store.GetDealership(ctx, dealershipID)
	if err != nil {
		return domain.Contact{}, err
	}
	created, err := s.store.CreateContact(ctx, c)
	if err != nil {
		return domain.Contact{}, err
	}
	s.invalidate(ctx, d.CarDealID)
	return created, nil
}

// DeleteContact removes a contact. Offers that named it keep their dealership
// and lose the contact.
func (s *CarDealService) DeleteContact(ctx context.Context, id string) error {
	c, err := s.store.GetContact(ctx, id)
	if err != nil {
		return err
	}
	d, err := s.store.GetDealership(ctx, c.DealershipID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteContact(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, d.CarDealID)
	return nil
}

func (s *CarDealService) ListContacts(ctx context.Context, dealershipID string) ([]domain.Contact, error) {
	if _, err := s.store.GetDealership(ctx, dealershipID); err != nil {
		return nil, err
	}
	return s.store.ListContactsByDealerships(ctx, []string{dealershipID})
}

// Overview gathers the car deal page: the deal, every car deal for the
// switcher, its offers with payments, dealerships and their contacts.
func (s *CarDealService) Overview(ctx context.Context, id string) (domain.CarDealOverview, error) {
	part, err := s.overviewPart(ctx, id)
	if err != nil {
		return domain.CarDealOverview{}, err
	}

	all, err := s.store.ListCarDeals(ctx)
	if err != nil {
		return domain.CarDealOverview{}, err
	}

	return domain.CarDealOverview{
		CarDeal:     part.CarDeal,
		AllCarDeals: all,
		Offers:      part.Offers,
		Dealerships: part.Dealerships,
		Contacts:    part.Contacts,
	}, nil
}

func (s *CarDealService) overviewPart(ctx context.Context, id string) (cachedOverview, error) {
	key := overviewCacheKey(id)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var part cachedOverview
		if err := json.Unmarshal([]byte(raw), &part); err == nil {
			metrics.RecordCacheLookup(true)
			return part, nil
		}
		s.logger.Warn("discarding unreadable cached overview", zap.String("car_deal_id", id))
	}
	metrics.RecordCacheLookup(false)

	deal, err := s.store.GetCarDeal(ctx, id)
	if err != nil {
		return cachedOverview{}, err
	}
	offers, err := s.offers.ListByCarDeal(ctx, id, DefaultOfferTreatment)
	if err != nil {
		return cachedOverview{}, err
	}
	dealerships, err := s.store.ListDealerships(ctx, id)
	if err != nil {
		return cachedOverview{}, err
	}
	ids := make([]string, 0, len(dealerships))
	for _, d := range dealerships {
		ids = append(ids, d.ID)
	}
	contacts, err := s.store.ListContactsByDealerships(ctx, ids)
	if err != nil {
		return cachedOverview{}, err
	}

	part := cachedOverview{
		CarDeal:     deal,
		Offers:      offers,
		Dealerships: dealerships,
		Contacts:    contacts,
	}

	// Guardar en cache (no crítico si falla)
	if data, err := json.Marshal(part); err == nil {
		if err := s.cache.Set(ctx, key, string(data)); err != nil {
			s.logger.Warn("failed to cache car deal overview", zap.String("car_deal_id", id), zap.Error(err))
		}
	}
	return part, nil
}

func (s *CarDealService) invalidate(ctx context.Context, carDealID string) {
	if err := s.cache.Delete(ctx, overviewCacheKey(carDealID)); err != nil {
		s.logger.Warn("failed to invalidate car deal overview",
			zap.String("car_deal_id", carDealID), zap.Error(err))
	}
}
