package models

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeSale = "sale"
	TypeRent = "rent"

	MinNameLength = 10
	MaxNameLength = 62
	MaxImageURLs  = 6
)

// ErrInvalidListing wraps all listing validation failures.
var ErrInvalidListing = errors.New("invalid listing")

// Listing is a property offered for sale or rent. UserRef is the owner
// and is fixed at creation.
type Listing struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name          string    `json:"name" gorm:"not null;index"`
	Description   string    `json:"description" gorm:"not null"`
	Address       string    `json:"address" gorm:"not null"`
	Type          string    `json:"type" gorm:"not null;index"`
	Bedrooms      int       `json:"bedrooms" gorm:"not null"`
	Bathrooms     int       `json:"bathrooms" gorm:"not null"`
	RegularPrice  float64   `json:"regularPrice" gorm:"not null"`
	DiscountPrice float64   `json:"discountPrice" gorm:"not null"`
	Offer         bool      `json:"offer" gorm:"default:false"`
	Parking       bool      `json:"parking" gorm:"default:false"`
	Furnished     bool      `json:"furnished" gorm:"default:false"`
	ImageURLs     []string  `json:"imageUrls" gorm:"serializer:json"`
	UserRef       uuid.UUID `json:"userRef" gorm:"type:uuid;index;not null"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Validate checks the field bounds for create and for the merged result
// of a partial update.
func (l *Listing) Validate() error {
	if n := utf8.RuneCountInString(l.Name); n < MinNameLength || n > MaxNameLength {
		return fmt.Errorf("%w: name must be between %d and %d characters", ErrInvalidListing, MinNameLength, MaxNameLength)
	}
	if l.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidListing)
	}
	if l.Address == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidListing)
	}
	if l.Type != TypeSale && l.Type != TypeRent {
		return fmt.Errorf("%w: type must be %q or %q", ErrInvalidListing, TypeSale, TypeRent)
	}
	if l.Bedrooms < 1 {
		return fmt.Errorf("%w: bedrooms must be at least 1", ErrInvalidListing)
	}
	if l.Bathrooms < 1 {
		return fmt.Errorf("%w: bathrooms must be at least 1", ErrInvalidListing)
	}
	if l.RegularPrice < 0 {
		return fmt.Errorf("%w: regular price cannot be negative", ErrInvalidListing)
	}
	if l.DiscountPrice < 0 {
		return fmt.Errorf("%w: discount price cannot be negative", ErrInvalidListing)
	}
	if l.Offer && l.DiscountPrice >= l.RegularPrice {
		return fmt.Errorf("%w: discount price must be lower than regular price", ErrInvalidListing)
	}
	if len(l.ImageURLs) < 1 || len(l.ImageURLs) > MaxImageURLs {
		return fmt.Errorf("%w: between 1 and %d image URLs are required", ErrInvalidListing, MaxImageURLs)
	}
	return nil
}
