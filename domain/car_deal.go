package domain

import (
	"fmt"
	"strings"
	"time"
)

// CarDeal is a vehicle the user is shopping for.
type CarDeal struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	ImageURL    *string   `json:"image_url" db:"image_url"`
	OwnerID     *string   `json:"owner_id" db:"owner_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (c *CarDeal) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return nil
}

type Dealership struct {
	ID        string    `json:"id" db:"id"`
	CarDealID string    `json:"car_deal_id" db:"car_deal_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (d *Dealership) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if d.CarDealID == "" {
		return fmt.Errorf("%w: car_deal_id is required", ErrInvalidInput)
	}
	return nil
}

// Contact is a salesperson at a dealership.
type Contact struct {
	ID           string    `json:"id" db:"id"`
	DealershipID string    `json:"dealership_id" db:"dealership_id"`
	Name         string    `json:"name" db:"name"`
	Title        *string   `json:"title" db:"title"`
	Email        *string   `json:"email" db:"email"`
	Phone        *string   `json:"phone" db:"phone"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (c *Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if c.DealershipID == "" {
		return fmt.Errorf("%w: dealership_id is required", ErrInvalidInput)
	}
	return nil
}

type NegotiationNote struct {
	ID        string    `json:"id" db:"id"`
	OfferID   string    `json:"offer_id" db:"offer_id"`
	Note      string    `json:"note" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (n *NegotiationNote) Validate() error {
	if strings.TrimSpace(n.Note) == "" {
		return fmt.Errorf("%w: note is required", ErrInvalidInput)
	}
	return nil
}

// CarDealOverview is everything a car deal page shows at once.
type CarDealOverview struct {
	CarDeal     CarDeal            `json:"car_deal"`
	AllCarDeals []CarDeal          `json:"all_car_deals"`
	Offers      []OfferWithPayment `json:"offers"`
	Dealerships []Dealership       `json:"dealerships"`
	Contacts    []Contact          `json:"contacts"`
}
