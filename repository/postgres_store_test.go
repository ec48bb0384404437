package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lease-agent/domain"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresStore_GetCarDeal(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, title, description, image_url, owner_id, created_at FROM car_deals WHERE id = \$1`).
		WithArgs("deal-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "image_url", "owner_id", "created_at"}).
			AddRow("deal-1", "Ioniq 5 lease", "AWD", nil, nil, created))

	deal, err := store.GetCarDeal(context.Background(), "deal-1")
	require.NoError(t, err)

	assert.Equal(t, "Ioniq 5 lease", deal.Title)
	require.NotNil(t, deal.Description)
	assert.Equal(t, "AWD", *deal.Description)
	assert.Nil(t, deal.ImageURL)
	assert.Equal(t, created, deal.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCarDealNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM car_deals WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetCarDeal(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateOffer(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO offers`).WillReturnResult(sqlmock.NewResult(0, 1))

	offer, err := store.CreateOffer(context.Background(), domain.Offer{
		CarDealID:    domain.String("deal-1"),
		ProductTitle: "EV6 GT-Line",
		SellingPrice: domain.Float(47000),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, offer.ID)
	assert.False(t, offer.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateDealershipMissingCarDeal(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO dealerships`).WillReturnError(&pq.Error{Code: "23503"})

	_, err := store.CreateDealership(context.Background(), domain.Dealership{CarDealID: "gone", Name: "Metro Kia"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresStore_ListOffersByCarDealWithNulls(t *testing.T) {
	store, mock := newMockStore(t)
	columns := []string{
		"id", "car_deal_id", "dealership_id", "contact_id", "product_title", "product_link",
		"product_specs", "product_image_url", "is_disqualified", "msrp", "selling_price", "dealer_incentives",
		"down_payment", "residual_value", "interest_rate", "lease_term", "tax_rate", "additional_fees", "created_at",
	}
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM offers\s+WHERE car_deal_id = \$1\s+ORDER BY created_at DESC`).
		WithArgs("deal-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("o-2", "deal-1", "d-1", nil, "Newer", nil, nil, nil, false, 42000.0, 41000.0, nil, nil, 25000.0, 2.99, 36, 8.25, nil, now).
			AddRow("o-1", "deal-1", nil, nil, "Older", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, now.Add(-time.Hour)))

	offers, err := store.ListOffersByCarDeal(context.Background(), "deal-1")
	require.NoError(t, err)
	require.Len(t, offers, 2)

	assert.Equal(t, "o-2", offers[0].ID)
	require.NotNil(t, offers[0].LeaseTerm)
	assert.Equal(t, 36, *offers[0].LeaseTerm)
	assert.Nil(t, offers[0].AdditionalFees)
	assert.Nil(t, offers[1].LeaseTerm)
	assert.Nil(t, offers[1].DealershipID)
}

func TestPostgresStore_DeleteOfferNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM offers WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteOffer(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresStore_MalformedIDIsNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	badUUID := &pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}

	mock.ExpectQuery(`FROM offers WHERE id = \$1`).WithArgs("abc").WillReturnError(badUUID)
	mock.ExpectExec(`DELETE FROM car_deals WHERE id = \$1`).WithArgs("abc").WillReturnError(badUUID)
	mock.ExpectQuery(`FROM dealerships`).WithArgs("abc").WillReturnError(badUUID)
	mock.ExpectExec(`INSERT INTO offers`).WillReturnError(badUUID)

	_, err := store.GetOffer(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.DeleteCarDeal(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.ListDealerships(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.CreateOffer(ctx, domain.Offer{CarDealID: domain.String("abc"), ProductTitle: "EV6"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_OtherErrorsPassThrough(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM offers WHERE id = \$1`).
		WithArgs("offer-1").
		WillReturnError(&pq.Error{Code: "57014"})

	_, err := store.GetOffer(context.Background(), "offer-1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresStore_GetAndDeleteContact(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, dealership_id, name, title, email, phone, created_at FROM contacts WHERE id = \$1`).
		WithArgs("contact-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "dealership_id", "name", "title", "email", "phone", "created_at"}).
			AddRow("contact-1", "dealer-1", "Ana", nil, "ana@example.com", nil, created))
	mock.ExpectExec(`DELETE FROM contacts WHERE id = \$1`).
		WithArgs("contact-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM contacts WHERE id = \$1`).
		WithArgs("contact-1").
		WillReturnError(sql.ErrNoRows)

	c, err := store.GetContact(ctx, "contact-1")
	require.NoError(t, err)
	assert.Equal(t, "dealer-1", c.DealershipID)
	require.NotNil(t, c.Email)
	assert.Equal(t, "ana@example.com", *c.Email)
	assert.Nil(t, c.Title)

	require.NoError(t, store.DeleteContact(ctx, "contact-1"))

	_, err = store.GetContact(ctx, "contact-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListContactsNoDealerships(t *testing.T) {
	store, mock := newMockStore(t)

	contacts, err := store.ListContactsByDealerships(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, contacts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	ctx := context.Background()
	db, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	deal, err := store.CreateCarDeal(ctx, domain.CarDeal{Title: "integration deal"})
	require.NoError(t, err)
	defer store.DeleteCarDeal(ctx, deal.ID)

	dealership, err := store.CreateDealership(ctx, domain.Dealership{CarDealID: deal.ID, Name: "Integration Motors"})
	require.NoError(t, err)

	offer, err := store.CreateOffer(ctx, domain.Offer{
		CarDealID:    &deal.ID,
		DealershipID: &dealership.ID,
		ProductTitle: "integration offer",
		SellingPrice: domain.Float(30000),
	})
	require.NoError(t, err)

	offers, err := store.ListOffersByDealership(ctx, dealership.ID)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, offer.ID, offers[0].ID)
}
