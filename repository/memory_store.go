package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"lease-agent/domain"
)

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	mu          sync.RWMutex
	carDeals    map[string]domain.CarDeal
	dealerships map[string]domain.Dealership
	contacts    map[string]domain.Contact
	offers      map[string]domain.Offer
	notes       map[string]domain.NegotiationNote
	// insertion order per entity, oldest first
	order map[string][]string
	now   func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carDeals:    make(map[string]domain.CarDeal),
		dealerships: make(map[string]domain.Dealership),
		contacts:    make(map[string]domain.Contact),
		offers:      make(map[string]domain.Offer),
		notes:       make(map[string]domain.NegotiationNote),
		order:       make(map[string][]string),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

const (
	kindCarDeal    = "car_deal"
	kindDealership = "dealership"
	kindContact    = "contact"
	kindOffer      = "offer"
	kindNote       = "note"
)

func (s *MemoryStore) track(kind, id string) {
	s.order[kind] = append(s.order[kind], id)
}

func (s *MemoryStore) untrack(kind, id string) {
	ids := s.order[kind]
	for i, v := range ids {
		if v == id {
			s.order[kind] = append(ids[:i:i], ids[i+1:]...)
			return
		}
	}
}

// newest walks ids of kind newest first.
func (s *MemoryStore) newest(kind string, fn func(id string)) {
	ids := s.order[kind]
	for i := len(ids) - 1; i >= 0; i-- {
		fn(ids[i])
	}
}

// --- CarDealRepository ------------------------------------------------------

func (s *MemoryStore) CreateCarDeal(_ context.Context, deal domain.CarDeal) (domain.CarDeal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deal.ID = uuid.NewString()
	deal.CreatedAt = s.now()
	s.carDeals[deal.ID] = deal
	s.track(kindCarDeal, deal.ID)
	return deal, nil
}

func (s *MemoryStore) UpdateCarDeal(_ context.Context, deal domain.CarDeal) (domain.CarDeal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.carDeals[deal.ID]
	if !ok {
		return domain.CarDeal{}, domain.ErrNotFound
	}
	deal.CreatedAt = existing.CreatedAt
	s.carDeals[deal.ID] = deal
	return deal, nil
}

func (s *MemoryStore) GetCarDeal(_ context.Context, id string) (domain.CarDeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deal, ok := s.carDeals[id]
	if !ok {
		return domain.CarDeal{}, domain.ErrNotFound
	}
	return deal, nil
}

func (s *MemoryStore) ListCarDeals(_ context.Context) ([]domain.CarDeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.CarDeal{}
	s.newest(kindCarDeal, func(id string) {
		out = append(out, s.carDeals[id])
	})
	return out, nil
}

func (s *MemoryStore) DeleteCarDeal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carDeals[id]; !ok {
		return domain.ErrNotFound
	}
	for _, d := range s.dealerships {
		if d.CarDealID == id {
			s.deleteDealershipLocked(d.ID)
		}
	}
	for _, o := range s.offers {
		if o.CarDealID != nil && *o.CarDealID == id {
			s.deleteOfferLocked(o.ID)
		}
	}
	delete(s.carDeals, id)
	s.untrack(kindCarDeal, id)
	return nil
}

// --- DealershipRepository ---------------------------------------------------

func (s *MemoryStore) CreateDealership(_ context.Context, d domain.Dealership) (domain.Dealership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carDeals[d.CarDealID]; !ok {
		return domain.Dealership{}, domain.ErrNotFound
	}
	d.ID = uuid.NewString()
	d.CreatedAt = s.now()
	s.dealerships[d.ID] = d
	s.track(kindDealership, d.ID)
	return d, nil
}

func (s *MemoryStore) GetDealership(_ context.Context, id string) (domain.Dealership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.dealerships[id]
	if !ok {
		return domain.Dealership{}, domain.ErrNotFound
	}
	return d, nil
}

func (s *MemoryStore) ListDealerships(_ context.Context, carDealID string) ([]domain.Dealership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Dealership{}
	s.newest(kindDealership, func(id string) {
		if d := s.dealerships[id]; d.CarDealID == carDealID {
			out = append(out, d)
		}
	})
	return out, nil
}

func (s *MemoryStore) DeleteDealership(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dealerships[id]; !ok {
		return domain.ErrNotFound
	}
	s.deleteDealershipLocked(id)
	return nil
}

func (s *MemoryStore) deleteDealershipLocked(id string) {
	for cid, c := range s.contacts {
		if c.DealershipID == id {
			delete(s.contacts, cid)
			s.untrack(kindContact, cid)
			for oid, o := range s.offers {
				if o.ContactID != nil && *o.ContactID == cid {
					o.ContactID = nil
					s.offers[oid] = o
				}
			}
		}
	}
	for oid, o := range s.offers {
		if o.DealershipID != nil && *o.DealershipID == id {
			o.DealershipID = nil
			s.offers[oid] = o
		}
	}
	delete(s.dealerships, id)
	s.untrack(kindDealership, id)
}

// --- ContactRepository ------------------------------------------------------

func (s *MemoryStore) CreateContact(_ context.Context, c domain.Contact) (domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dealerships[c.DealershipID]; !ok {
		return domain.Contact{}, domain.ErrNotFound
	}
	c.ID = uuid.NewString()
	c.CreatedAt = s.now()
	s.contacts[c.ID] = c
	s.track(kindContact, c.ID)
	return c, nil
}

func (s *MemoryStore) GetContact(_ context.Context, id string) (domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contacts[id]
	if !ok {
		return domain.Contact{}, domain.ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) ListContactsByDealerships(_ context.Context, dealershipIDs []string) ([]domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(dealershipIDs))
	for _, id := range dealershipIDs {
		wanted[id] = struct{}{}
	}

	out := []domain.Contact{}
	s.newest(kindContact, func(id string) {
		c := s.contacts[id]
		if _, ok := wanted[c.DealershipID]; ok {
			out = append(out, c)
		}
	})
	return out, nil
}

func (s *MemoryStore) DeleteContact(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contacts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.contacts, id)
	s.untrack(kindContact, id)
	for oid, o := range s.offers {
		if o.ContactID != nil && *o.ContactID == id {
			o.ContactID = nil
			s.offers[oid] = o
		}
	}
	return nil
}

// --- OfferRepository --------------------------------------------------------

func (s *MemoryStore) CreateOffer(_ context.Context, o domain.Offer) (domain.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.CarDealID != nil {
		if _, ok := s.carDeals[*o.CarDealID]; !ok {
			return domain.Offer{}, domain.ErrNotFound
		}
	}
	o.ID = uuid.NewString()
	o.CreatedAt = s.now()
	s.offers[o.ID] = o
	s.track(kindOffer, o.ID)
	return o, nil
}

func (s *MemoryStore) UpdateOffer(_ context.Context, o domain.Offer) (domain.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.offers[o.ID]
	if !ok {
		return domain.Offer{}, domain.ErrNotFound
	}
	o.CreatedAt = existing.CreatedAt
	s.offers[o.ID] = o
	return o, nil
}

func (s *MemoryStore) GetOffer(_ context.Context, id string) (domain.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.offers[id]
	if !ok {
		return domain.Offer{}, domain.ErrNotFound
	}
	return o, nil
}

func (s *MemoryStore) DeleteOffer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.offers[id]; !ok {
		return domain.ErrNotFound
	}
	s.deleteOfferLocked(id)
	return nil
}

func (s *MemoryStore) deleteOfferLocked(id string) {
	for nid, n := range s.notes {
		if n.OfferID == id {
			delete(s.notes, nid)
			s.untrack(kindNote, nid)
		}
	}
	delete(s.offers, id)
	s.untrack(kindOffer, id)
}

func (s *MemoryStore) ListOffersByCarDeal(_ context.Context, carDealID string) ([]domain.Offer, error) {
	return s.listOffers(func(o domain.Offer) bool {
		return o.CarDealID != nil && *o.CarDealID == carDealID
	}), nil
}

func (s *MemoryStore) ListOffersByDealership(_ context.Context, dealershipID string) ([]domain.Offer, error) {
	return s.listOffers(func(o domain.Offer) bool {
		return o.DealershipID != nil && *o.DealershipID == dealershipID
	}), nil
}

func (s *MemoryStore) listOffers(match func(domain.Offer) bool) []domain.Offer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Offer{}
	s.newest(kindOffer, func(id string) {
		if o := s.offers[id]; match(o) {
			out = append(out, o)
		}
	})
	return out
}

// --- NoteRepository ---------------------------------------------------------

func (s *MemoryStore) CreateNote(_ context.Context, n domain.NegotiationNote) (domain.NegotiationNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.offers[n.OfferID]; !ok {
		return domain.NegotiationNote{}, domain.ErrNotFound
	}
	n.ID = uuid.NewString()
	n.CreatedAt = s.now()
	s.notes[n.ID] = n
	s.track(kindNote, n.ID)
	return n, nil
}

func (s *MemoryStore) ListNotes(_ context.Context, offerID string) ([]domain.NegotiationNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.NegotiationNote{}
	s.newest(kindNote, func(id string) {
		if n := s.notes[id]; n.OfferID == offerID {
			out = append(out, n)
		}
	})
	return out, nil
}
