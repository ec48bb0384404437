package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lease-agent/domain"
	"lease-agent/repository"
)

// FailingCache always misses and fails to write.
type FailingCache struct{}

func (FailingCache) Get(context.Context, string) (string, bool) { return "", false }

func (FailingCache) Set(context.Context, string, string) error { return errors.New("cache down") }

func (FailingCache) Delete(context.Context, ...string) error { return errors.New("cache down") }

type fixture struct {
	store    *repository.MemoryStore
	cache    *repository.MockCache
	offers   *OfferService
	carDeals *CarDealService
	deal     domain.CarDeal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	cache := repository.NewMockCache()
	offers := NewOfferService(store, cache, zap.NewNop())
	carDeals := NewCarDealService(store, cache, offers, zap.NewNop())

	deal, err := carDeals.CreateCarDeal(context.Background(), domain.CarDeal{Title: "Model Y"})
	require.NoError(t, err)

	return &fixture{store: store, cache: cache, offers: offers, carDeals: carDeals, deal: deal}
}

func scenarioOffer(title string) domain.Offer {
	term := 36
	return domain.Offer{
		ProductTitle:     title,
		SellingPrice:     domain.Float(42000),
		ResidualValue:    domain.Float(25000),
		DealerIncentives: domain.Float(1000),
		LeaseTerm:        &term,
		InterestRate:     domain.Float(2.99),
		AdditionalFees:   domain.Float(500),
		TaxRate:          domain.Float(8.25),
	}
}

func TestOfferCreate_ComputesPayment(t *testing.T) {
	f := newFixture(t)

	got, err := f.offers.Create(context.Background(), f.deal.ID, scenarioOffer("LR AWD"))
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, f.deal.ID, *got.CarDealID)
	assert.Equal(t, 676.86, got.Payment.MonthlyPayment)
	assert.Equal(t, 16000.0, got.Payment.Depreciation)
	assert.Equal(t, 676.86, got.Payment.EffectiveMonthlyPayment)
}

func TestOfferCreate_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.offers.Create(context.Background(), f.deal.ID, domain.Offer{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.offers.Create(context.Background(), "missing", scenarioOffer("x"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOfferCreate_DealershipFromOtherDeal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, err := f.carDeals.CreateCarDeal(ctx, domain.CarDeal{Title: "Ioniq 5"})
	require.NoError(t, err)
	d, err := f.carDeals.CreateDealership(ctx, other.ID, "Hyundai North")
	require.NoError(t, err)

	offer := scenarioOffer("x")
	offer.DealershipID = &d.ID
	_, err = f.offers.Create(ctx, f.deal.ID, offer)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOfferPayment_NullsCoerced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.offers.Create(ctx, f.deal.ID, domain.Offer{ProductTitle: "bare"})
	require.NoError(t, err)

	p, err := f.offers.Payment(ctx, created.ID, "")
	require.NoError(t, err)

	assert.Equal(t, domain.OfferPayment{}, p)
}

func TestOfferPayment_Treatments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.offers.Create(ctx, f.deal.ID, scenarioOffer("x"))
	require.NoError(t, err)

	perPayment, err := f.offers.Payment(ctx, created.ID, domain.PaymentInclusive)
	require.NoError(t, err)
	capCost, err := f.offers.Payment(ctx, created.ID, domain.CapCostInclusive)
	require.NoError(t, err)

	assert.Equal(t, 676.86, perPayment.MonthlyPayment)
	assert.NotEqual(t, perPayment.MonthlyPayment, capCost.MonthlyPayment)
	assert.Zero(t, capCost.MonthlyTax)

	_, err = f.offers.Payment(ctx, created.ID, "nope")
	assert.ErrorIs(t, err, domain.ErrUnknownTaxTreatment)
}

func TestOfferUpdate_KeepsOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.offers.Create(ctx, f.deal.ID, scenarioOffer("x"))
	require.NoError(t, err)

	edit := scenarioOffer("renamed")
	edit.SellingPrice = domain.Float(41000)
	updated, err := f.offers.Update(ctx, created.ID, edit)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, f.deal.ID, *updated.CarDealID)
	assert.Equal(t, "renamed", updated.ProductTitle)
	assert.Less(t, updated.Payment.MonthlyPayment, created.Payment.MonthlyPayment)

	_, err = f.offers.Update(ctx, "missing", edit)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOfferCompare_RanksByEffectivePayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expensive := scenarioOffer("expensive")
	expensive.DownPayment = domain.Float(5000)
	cheap := scenarioOffer("cheap")
	out := scenarioOffer("cheapest but out")
	out.SellingPrice = domain.Float(30000)
	out.IsDisqualified = func(b bool) *bool { return &b }(true)

	for _, o := range []domain.Offer{expensive, cheap, out} {
		_, err := f.offers.Create(ctx, f.deal.ID, o)
		require.NoError(t, err)
	}

	cmp, err := f.offers.Compare(ctx, f.deal.ID, "")
	require.NoError(t, err)

	require.Len(t, cmp.Offers, 3)
	assert.Equal(t, domain.PaymentInclusive, cmp.TaxTreatment)
	assert.Equal(t, "cheap", cmp.Offers[0].ProductTitle)
	assert.Equal(t, 1, cmp.Offers[0].Rank)
	assert.Equal(t, "expensive", cmp.Offers[1].ProductTitle)
	assert.Equal(t, 2, cmp.Offers[1].Rank)
	assert.Equal(t, "cheapest but out", cmp.Offers[2].ProductTitle)
	assert.Zero(t, cmp.Offers[2].Rank)
	assert.Equal(t, cmp.Offers[0].ID, cmp.BestOfferID)
}

func TestOfferCompare_Empty(t *testing.T) {
	f := newFixture(t)

	cmp, err := f.offers.Compare(context.Background(), f.deal.ID, domain.CapCostInclusive)
	require.NoError(t, err)

	assert.Empty(t, cmp.Offers)
	assert.Empty(t, cmp.BestOfferID)
}

func TestOfferListByDealership_Annotated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.carDeals.CreateDealership(ctx, f.deal.ID, "Tesla Downtown")
	require.NoError(t, err)
	offer := scenarioOffer("x")
	offer.DealershipID = &d.ID
	_, err = f.offers.Create(ctx, f.deal.ID, offer)
	require.NoError(t, err)
	_, err = f.offers.Create(ctx, f.deal.ID, scenarioOffer("no dealer"))
	require.NoError(t, err)

	list, err := f.offers.ListByDealership(ctx, d.ID)
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.Equal(t, "Tesla Downtown", list[0].DealershipName)
}

func TestOfferNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.offers.Create(ctx, f.deal.ID, scenarioOffer("x"))
	require.NoError(t, err)

	_, err = f.offers.AddNote(ctx, created.ID, "asked for 500 off")
	require.NoError(t, err)
	_, err = f.offers.AddNote(ctx, created.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.offers.AddNote(ctx, "missing", "hello")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	notes, err := f.offers.ListNotes(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "asked for 500 off", notes[0].Note)
}

func TestOfferDelete_InvalidatesOverview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.offers.Create(ctx, f.deal.ID, scenarioOffer("x"))
	require.NoError(t, err)
	_, err = f.carDeals.Overview(ctx, f.deal.ID)
	require.NoError(t, err)
	require.Contains(t, f.cache.Data, overviewCacheKey(f.deal.ID))

	require.NoError(t, f.offers.Delete(ctx, created.ID))

	assert.NotContains(t, f.cache.Data, overviewCacheKey(f.deal.ID))
	_, err = f.offers.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOfferService_CacheFailureIsNotCritical(t *testing.T) {
	store := repository.NewMemoryStore()
	offers := NewOfferService(store, FailingCache{}, zap.NewNop())
	deal, err := store.CreateCarDeal(context.Background(), domain.CarDeal{Title: "x"})
	require.NoError(t, err)

	_, err = offers.Create(context.Background(), deal.ID, scenarioOffer("x"))

	assert.NoError(t, err)
}

func TestOfferCreate_IgnoresClientID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, err := f.carDeals.CreateCarDeal(ctx, domain.CarDeal{Title: "Ioniq 5"})
	require.NoError(t, err)
	original, err := f.offers.Create(ctx, f.deal.ID, scenarioOffer("original"))
	require.NoError(t, err)

	hijack := scenarioOffer("hijack")
	hijack.ID = original.ID
	created, err := f.offers.Create(ctx, other.ID, hijack)
	require.NoError(t, err)
	assert.NotEqual(t, original.ID, created.ID)

	got, err := f.offers.Get(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.ProductTitle)
	assert.Equal(t, f.deal.ID, *got.CarDealID)

	onDeal, err := f.offers.ListByCarDeal(ctx, f.deal.ID, "")
	require.NoError(t, err)
	assert.Len(t, onDeal, 1)
	onOther, err := f.offers.ListByCarDeal(ctx, other.ID, "")
	require.NoError(t, err)
	assert.Len(t, onOther, 1)
}
