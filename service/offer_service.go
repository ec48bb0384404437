package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"lease-agent/calculator"
	"lease-agent/domain"
	"lease-agent/metrics"
	"lease-agent/repository"
)

// DefaultOfferTreatment is used for stored offers when the caller does not
// pick a treatment.
const DefaultOfferTreatment = domain.PaymentInclusive

type OfferService struct {
	store  repository.Store
	cache  repository.CacheRepository
	logger *zap.Logger
}

// NewOfferService creates an OfferService. cache holds car deal overviews and
// is invalidated whenever an offer changes.
func NewOfferService(store repository.Store, cache repository.CacheRepository, logger *zap.Logger) *OfferService {
	return &OfferService{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Create stores a new offer under carDealID.
func (s *OfferService) Create(ctx context.Context, carDealID string, offer domain.Offer) (domain.OfferWithPayment, error) {
	offer.CarDealID = &carDealID
	if err := offer.Validate(); err != nil {
		return domain.OfferWithPayment{}, err
	}
	if _, err := s.store.GetCarDeal(ctx, carDealID); err != nil {
		return domain.OfferWithPayment{}, err
	}
	if err := s.checkDealership(ctx, carDealID, offer.DealershipID); err != nil {
		return domain.OfferWithPayment{}, err
	}

	created, err := s.store.CreateOffer(ctx, offer)
	if err != nil {
		return domain.OfferWithPayment{}, err
	}
	s.invalidate(ctx, carDealID)

	return s.annotate(ctx, created, DefaultOfferTreatment)
}

// Update replaces the editable fields of an offer. The car deal it belongs to
// and its creation time never change.
func (s *OfferService) Update(ctx context.Context, offerID string, offer domain.Offer) (domain.OfferWithPayment, error) {
	existing, err := s.store.GetOffer(ctx, offerID)
	if err != nil {
		return domain.OfferWithPayment{}, err
	}

	offer.ID = existing.ID
	offer.CarDealID = existing.CarDealID
	offer.CreatedAt = existing.CreatedAt
	if err := offer.Validate(); err != nil {
		return domain.OfferWithPayment{}, err
	}
	if err := s.checkDealership(ctx, deref(existing.CarDealID), offer.DealershipID); err != nil {
		return domain.OfferWithPayment{}, err
	}

	updated, err := s.store.UpdateOffer(ctx, offer)
	if err != nil {
		return domain.OfferWithPayment{}, err
	}
	s.invalidate(ctx, deref(existing.CarDealID))

	return s.annotate(ctx, updated, DefaultOfferTreatment)
}

// Get returns one offer with its payment under the default treatment.
func (s *OfferService) Get(ctx context.Context, offerID string) (domain.OfferWithPayment, error) {
	offer, err := s.store.GetOffer(ctx, offerID)
	if err != nil {
		return domain.OfferWithPayment{}, err
	}
	return s.annotate(ctx, offer, DefaultOfferTreatment)
}

func (s *OfferService) Delete(ctx context.Context, offerID string) error {
	offer, err := s.store.GetOffer(ctx, offerID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteOffer(ctx, offerID); err != nil {
		return err
	}
	s.invalidate(ctx, deref(offer.CarDealID))
	return nil
}

// Payment computes the payment breakdown of a stored offer.
func (s *OfferService) Payment(ctx context.Context, offerID string, treatment domain.TaxTreatment) (domain.OfferPayment, error) {
	treatment, err := resolveTreatment(treatment, DefaultOfferTreatment)
	if err != nil {
		return domain.OfferPayment{}, err
	}
	offer, err := s.store.GetOffer(ctx, offerID)
	if err != nil {
		return domain.OfferPayment{}, err
	}
	return s.payment(offer, treatment)
}

// ListByCarDeal returns the offers of a car deal, newest first, each with its
// dealership name and payment.
func (s *OfferService) ListByCarDeal(ctx context.Context, carDealID string, treatment domain.TaxTreatment) ([]domain.OfferWithPayment, error) {
	treatment, err := resolveTreatment(treatment, DefaultOfferTreatment)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetCarDeal(ctx, carDealID); err != nil {
		return nil, err
	}
	offers, err := s.store.ListOffersByCarDeal(ctx, carDealID)
	if err != nil {
		return nil, err
	}
	dealerships, err := s.store.ListDealerships(ctx, carDealID)
	if err != nil {
		return nil, err
	}
	return s.annotateAll(offers, dealershipNames(dealerships), treatment)
}

// ListByDealership returns the offers quoted by one dealership.
func (s *OfferService) ListByDealership(ctx context.Context, dealershipID string) ([]domain.OfferWithPayment, error) {
	dealership, err := s.store.GetDealership(ctx, dealershipID)
	if err != nil {
		return nil, err
	}
	offers, err := s.store.ListOffersByDealership(ctx, dealershipID)
	if err != nil {
		return nil, err
	}
	names := map[string]string{dealership.ID: dealership.Name}
	return s.annotateAll(offers, names, DefaultOfferTreatment)
}

// Compare ranks the offers of a car deal by effective monthly payment, lowest
// first. Disqualified offers are listed after the ranked ones with rank 0.
func (s *OfferService) Compare(ctx context.Context, carDealID string, treatment domain.TaxTreatment) (domain.OfferComparison, error) {
	treatment, err := resolveTreatment(treatment, DefaultOfferTreatment)
	if err != nil {
		return domain.OfferComparison{}, err
	}
	offers, err := s.ListByCarDeal(ctx, carDealID, treatment)
	if err != nil {
		return domain.OfferComparison{}, err
	}

	qualified := make([]domain.OfferWithPayment, 0, len(offers))
	var disqualified []domain.OfferWithPayment
	for _, o := range offers {
		if o.Disqualified() {
			disqualified = append(disqualified, o)
			continue
		}
		qualified = append(qualified, o)
	}
	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].Payment.EffectiveMonthlyPayment < qualified[j].Payment.EffectiveMonthlyPayment
	})
	for i := range qualified {
		qualified[i].Rank = i + 1
	}

	comparison := domain.OfferComparison{
		CarDealID:    carDealID,
		TaxTreatment: treatment,
		Offers:       append(qualified, disqualified...),
	}
	if len(qualified) > 0 {
		comparison.BestOfferID = qualified[0].ID
	}
	return comparison, nil
}

// AddNote attaches a negotiation note to an offer.
func (s *OfferService) AddNote(ctx context.Context, offerID, text string) (domain.NegotiationNote, error) {
	note := domain.NegotiationNote{OfferID: offerID, Note: text}
	if err := note.Validate(); err != nil {
		return domain.NegotiationNote{}, err
	}
	if _, err := s.store.GetOffer(ctx, offerID); err != nil {
		return domain.NegotiationNote{}, err
	}
	return s.store.CreateNote(ctx, note)
}

func (s *OfferService) ListNotes(ctx context.Context, offerID string) ([]domain.NegotiationNote, error) {
	if _, err := s.store.GetOffer(ctx, offerID); err != nil {
		return nil, err
	}
	return s.store.ListNotes(ctx, offerID)
}

func (s *OfferService) checkDealership(ctx context.Context, carDealID string, dealershipID *string) error {
	if dealershipID == nil {
		return nil
	}
	d, err := s.store.GetDealership(ctx, *dealershipID)
	if err != nil {
		return err
	}
	if d.CarDealID != carDealID {
		return fmt.Errorf("%w: dealership %s belongs to another car deal", domain.ErrInvalidInput, d.ID)
	}
	return nil
}

func (s *OfferService) annotate(ctx context.Context, offer domain.Offer, treatment domain.TaxTreatment) (domain.OfferWithPayment, error) {
	names := map[string]string{}
	if offer.DealershipID != nil {
		d, err := s.store.GetDealership(ctx, *offer.DealershipID)
		if err != nil {
			return domain.OfferWithPayment{}, err
		}
		names[d.ID] = d.Name
	}
	annotated, err := s.annotateAll([]domain.Offer{offer}, names, treatment)
	if err != nil {
		return domain.OfferWithPayment{}, err
	}
	return annotated[0], nil
}

func (s *OfferService) annotateAll(offers []domain.Offer, names map[string]string, treatment domain.TaxTreatment) ([]domain.OfferWithPayment, error) {
	result := make([]domain.OfferWithPayment, 0, len(offers))
	for _, o := range offers {
		payment, err := s.payment(o, treatment)
		if err != nil {
			return nil, err
		}
		result = append(result, domain.OfferWithPayment{
			Offer:          o,
			DealershipName: names[deref(o.DealershipID)],
			Payment:        payment,
		})
	}
	return result, nil
}

func (s *OfferService) payment(offer domain.Offer, treatment domain.TaxTreatment) (domain.OfferPayment, error) {
	p, err := calculator.OfferPayment(treatment, offer)
	if err != nil {
		return domain.OfferPayment{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	metrics.RecordQuote(string(treatment))
	return roundPayment(p), nil
}

func (s *OfferService) invalidate(ctx context.Context, carDealID string) {
	if carDealID == "" {
		return
	}
	if err := s.cache.Delete(ctx, overviewCacheKey(carDealID)); err != nil {
		s.logger.Warn("failed to invalidate car deal overview",
			zap.String("car_deal_id", carDealID), zap.Error(err))
	}
}

func resolveTreatment(t, fallback domain.TaxTreatment) (domain.TaxTreatment, error) {
	if t == "" {
		return fallback, nil
	}
	if !t.Valid() {
		return "", fmt.Errorf("%w: %w: %q", domain.ErrInvalidInput, domain.ErrUnknownTaxTreatment, t)
	}
	return t, nil
}

func dealershipNames(ds []domain.Dealership) map[string]string {
	names := make(map[string]string, len(ds))
	for _, d := range ds {
		names[d.ID] = d.Name
	}
	return names
}

func overviewCacheKey(carDealID string) string {
	return overviewCacheKeyPrefix + carDealID
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
