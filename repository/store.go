package repository

import (
	"context"

	"lease-agent/domain"
)

type CarDealRepository interface {
	CreateCarDeal(ctx context.Context, deal domain.CarDeal) (domain.CarDeal, error)
	UpdateCarDeal(ctx context.Context, deal domain.CarDeal) (domain.CarDeal, error)
	GetCarDeal(ctx context.Context, id string) (domain.CarDeal, error)
	ListCarDeals(ctx context.Context) ([]domain.CarDeal, error)
	// DeleteCarDeal removes the deal with its dealerships, contacts, offers and notes.
	DeleteCarDeal(ctx context.Context, id string) error
}

type DealershipRepository interface {
	CreateDealership(ctx context.Context, d domain.Dealership) (domain.Dealership, error)
	GetDealership(ctx context.Context, id string) (domain.Dealership, error)
	ListDealerships(ctx context.Context, carDealID string) ([]domain.Dealership, error)
	// DeleteDealership removes the dealership and its contacts. Offers keep
	// their data and lose the dealership reference.
	DeleteDealership(ctx context.Context, id string) error
}

type ContactRepository interface {
	CreateContact(ctx context.Context, c domain.Contact) (domain.Contact, error)
	GetContact(ctx context.Context, id string) (domain.Contact, error)
	ListContactsByDealerships(ctx context.Context, dealershipIDs []string) ([]domain.Contact, error)
	DeleteContact(ctx context.Context, id string) error
}

type OfferRepository interface {
	CreateOffer(ctx context.Context, o domain.Offer) (domain.Offer, error)
	UpdateOffer(ctx context.Context, o domain.Offer) (domain.Offer, error)
	GetOffer(ctx context.Context, id string) (domain.Offer, error)
	DeleteOffer(ctx context.Context, id string) error
	ListOffersByCarDeal(ctx context.Context, carDealID string) ([]domain.Offer, error)
	ListOffersByDealership(ctx context.Context, dealershipID string) ([]domain.Offer, error)
}

type NoteRepository interface {
	CreateNote(ctx context.Context, n domain.NegotiationNote) (domain.NegotiationNote, error)
	ListNotes(ctx context.Context, offerID string) ([]domain.NegotiationNote, error)
}

// Store groups every entity repository. Create methods always assign a new
// ID, ignoring any ID on the argument. Lists are returned newest first.
type Store interface {
	CarDealRepository
	DealershipRepository
	ContactRepository
	OfferRepository
	NoteRepository
}
