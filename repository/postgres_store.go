package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"lease-agent/domain"
)

// PostgresStore implements Store on PostgreSQL. The schema lives in the
// migrations package.
type PostgresStore struct {
	db *sqlx.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres connects with the lib/pq driver and checks the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	return db, nil
}

const (
	pqForeignKeyViolation = "23503"
	pqInvalidText         = "22P02"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// notFound maps a missing row, or an id that is not a UUID and so cannot
// name any row, to domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) || pqCode(err) == pqInvalidText {
		return domain.ErrNotFound
	}
	return err
}

func checkAffected(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --- CarDealRepository ------------------------------------------------------

const carDealColumns = `id, title, description, image_url, owner_id, created_at`

func (s *PostgresStore) CreateCarDeal(ctx context.Context, deal domain.CarDeal) (domain.CarDeal, error) {
	deal.ID = uuid.NewString()
	deal.CreatedAt = time.Now().UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO car_deals (`+carDealColumns+`)
		VALUES (:id, :title, :description, :image_url, :owner_id, :created_at)
	`, deal)
	if err != nil {
		return domain.CarDeal{}, errors.Wrap(err, "insert car deal")
	}
	return deal, nil
}

func (s *PostgresStore) UpdateCarDeal(ctx context.Context, deal domain.CarDeal) (domain.CarDeal, error) {
	var updated domain.CarDeal
	err := s.db.GetContext(ctx, &updated, `
		UPDATE car_deals
		SET title = $2, description = $3, image_url = $4
		WHERE id = $1
		RETURNING `+carDealColumns,
		deal.ID, deal.Title, deal.Description, deal.ImageURL)
	if err != nil {
		return domain.CarDeal{}, notFound(errors.Wrap(err, "update car deal"))
	}
	return updated, nil
}

func (s *PostgresStore) GetCarDeal(ctx context.Context, id string) (domain.CarDeal, error) {
	var deal domain.CarDeal
	err := s.db.GetContext(ctx, &deal, `SELECT `+carDealColumns+` FROM car_deals WHERE id = $1`, id)
	if err != nil {
		return domain.CarDeal{}, notFound(errors.Wrap(err, "get car deal"))
	}
	return deal, nil
}

func (s *PostgresStore) ListCarDeals(ctx context.Context) ([]domain.CarDeal, error) {
	deals := []domain.CarDeal{}
	err := s.db.SelectContext(ctx, &deals, `SELECT `+carDealColumns+` FROM car_deals ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list car deals")
	}
	return deals, nil
}

func (s *PostgresStore) DeleteCarDeal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM car_deals WHERE id = $1`, id)
	if err != nil {
		return notFound(errors.Wrap(err, "delete car deal"))
	}
	return checkAffected(res)
}

// --- DealershipRepository ---------------------------------------------------

const dealershipColumns = `id, car_deal_id, name, created_at`

func (s *PostgresStore) CreateDealership(ctx context.Context, d domain.Dealership) (domain.Dealership, error) {
	d.ID = uuid.NewString()
	d.CreatedAt = time.Now().UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO dealerships (`+dealershipColumns+`)
		VALUES (:id, :car_deal_id, :name, :created_at)
	`, d)
	if err != nil {
		return domain.Dealership{}, foreignKey(errors.Wrap(err, "insert dealership"))
	}
	return d, nil
}

func (s *PostgresStore) GetDealership(ctx context.Context, id string) (domain.Dealership, error) {
	var d domain.Dealership
	err := s.db.GetContext(ctx, &d, `SELECT `+dealershipColumns+` FROM dealerships WHERE id = $1`, id)
	if err != nil {
		return domain.Dealership{}, notFound(errors.Wrap(err, "get dealership"))
	}
	return d, nil
}

func (s *PostgresStore) ListDealerships(ctx context.Context, carDealID string) ([]domain.Dealership, error) {
	out := []domain.Dealership{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT `+dealershipColumns+`
		FROM dealerships
		WHERE car_deal_id = $1
		ORDER BY created_at DESC
	`, carDealID)
	if err != nil {
		return nil, notFound(errors.Wrap(err, "list dealerships"))
	}
	return out, nil
}

func (s *PostgresStore) DeleteDealership(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dealerships WHERE id = $1`, id)
	if err != nil {
		return notFound(errors.Wrap(err, "delete dealership"))
	}
	return checkAffected(res)
}

// --- ContactRepository ------------------------------------------------------

const contactColumns = `id, dealership_id, name, title, email, phone, created_at`

func (s *PostgresStore) CreateContact(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO contacts (`+contactColumns+`)
		VALUES (:id, :dealership_id, :name, :title, :email, :phone, :created_at)
	`, c)
	if err != nil {
		return domain.Contact{}, foreignKey(errors.Wrap(err, "insert contact"))
	}
	return c, nil
}

func (s *PostgresStore) GetContact(ctx context.Context, id string) (domain.Contact, error) {
	var c domain.Contact
	err := s.db.GetContext(ctx, &c, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	if err != nil {
		return domain.Contact{}, notFound(errors.Wrap(err, "get contact"))
	}
	return c, nil
}

func (s *PostgresStore) ListContactsByDealerships(ctx context.Context, dealershipIDs []string) ([]domain.Contact, error) {
	out := []domain.Contact{}
	if len(dealershipIDs) == 0 {
		return out, nil
	}
	err := s.db.SelectContext(ctx, &out, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE dealership_id = ANY($1)
		ORDER BY created_at DESC
	`, pq.Array(dealershipIDs))
	if err != nil {
		return nil, errors.Wrap(err, "list contacts")
	}
	return out, nil
}

func (s *PostgresStore) DeleteContact(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return notFound(errors.Wrap(err, "delete contact"))
	}
	return checkAffected(res)
}

// --- OfferRepository --------------------------------------------------------

const offerColumns = `id, car_deal_id, dealership_id, contact_id, product_title, product_link,
	product_specs, product_image_url, is_disqualified, msrp, selling_price, dealer_incentives,
	down_payment, residual_value, interest_rate, lease_term, tax_rate, additional_fees, created_at`

func (s *PostgresStore) CreateOffer(ctx context.Context, o domain.Offer) (domain.Offer, error) {
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now().UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO offers (`+offerColumns+`)
		VALUES (:id, :car_deal_id, :dealership_id, :contact_id, :product_title, :product_link,
			:product_specs, :product_image_url, :is_disqualified, :msrp, :selling_price, :dealer_incentives,
			:down_payment, :residual_value, :interest_rate, :lease_term, :tax_rate, :additional_fees, :created_at)
	`, o)
	if err != nil {
		return domain.Offer{}, foreignKey(errors.Wrap(err, "insert offer"))
	}
	return o, nil
}

func (s *PostgresStore) UpdateOffer(ctx context.Context, o domain.Offer) (domain.Offer, error) {
	res, err := s.db.NamedExecContext(ctx, `
		UPDATE offers SET
			car_deal_id = :car_deal_id,
			dealership_id = :dealership_id,
			contact_id = :contact_id,
			product_title = :product_title,
			product_link = :product_link,
			product_specs = :product_specs,
			product_image_url = :product_image_url,
			is_disqualified = :is_disqualified,
			msrp = :msrp,
			selling_price = :selling_price,
			dealer_incentives = :dealer_incentives,
			down_payment = :down_payment,
			residual_value = :residual_value,
			interest_rate = :interest_rate,
			lease_term = :lease_term,
			tax_rate = :tax_rate,
			additional_fees = :additional_fees
		WHERE id = :id
	`, o)
	if err != nil {
		return domain.Offer{}, foreignKey(errors.Wrap(err, "update offer"))
	}
	if err := checkAffected(res); err != nil {
		return domain.Offer{}, err
	}
	return s.GetOffer(ctx, o.ID)
}

func (s *PostgresStore) GetOffer(ctx context.Context, id string) (domain.Offer, error) {
	var o domain.Offer
	err := s.db.GetContext(ctx, &o, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	if err != nil {
		return domain.Offer{}, notFound(errors.Wrap(err, "get offer"))
	}
	return o, nil
}

func (s *PostgresStore) DeleteOffer(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return notFound(errors.Wrap(err, "delete offer"))
	}
	return checkAffected(res)
}

func (s *PostgresStore) ListOffersByCarDeal(ctx context.Context, carDealID string) ([]domain.Offer, error) {
	out := []domain.Offer{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT `+offerColumns+`
		FROM offers
		WHERE car_deal_id = $1
		ORDER BY created_at DESC
	`, carDealID)
	if err != nil {
		return nil, notFound(errors.Wrap(err, "list offers by car deal"))
	}
	return out, nil
}

func (s *PostgresStore) ListOffersByDealership(ctx context.Context, dealershipID string) ([]domain.Offer, error) {
	out := []domain.Offer{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT `+offerColumns+`
		FROM offers
		WHERE dealership_id = $1
		ORDER BY created_at DESC
	`, dealershipID)
	if err != nil {
		return nil, notFound(errors.Wrap(err, "list offers by dealership"))
	}
	return out, nil
}

// --- NoteRepository ---------------------------------------------------------

func (s *PostgresStore) CreateNote(ctx context.Context, n domain.NegotiationNote) (domain.NegotiationNote, error) {
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO negotiation_notes (id, offer_id, note, created_at)
		VALUES (:id, :offer_id, :note, :created_at)
	`, n)
	if err != nil {
		return domain.NegotiationNote{}, foreignKey(errors.Wrap(err, "insert note"))
	}
	return n, nil
}

func (s *PostgresStore) ListNotes(ctx context.Context, offerID string) ([]domain.NegotiationNote, error) {
	out := []domain.NegotiationNote{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, offer_id, note, created_at
		FROM negotiation_notes
		WHERE offer_id = $1
		ORDER BY created_at DESC
	`, offerID)
	if err != nil {
		return nil, notFound(errors.Wrap(err, "list notes"))
	}
	return out, nil
}

// foreignKey maps a foreign key violation (the parent row is missing) to
// domain.ErrNotFound. Malformed ids are treated the same way.
func foreignKey(err error) error {
	if code := pqCode(err); code == pqForeignKeyViolation || code == pqInvalidText {
		return domain.ErrNotFound
	}
	return err
}
