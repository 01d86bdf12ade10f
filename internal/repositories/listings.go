package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/estate-ease/api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// DefaultSearchLimit matches the page size the frontend expects.
	DefaultSearchLimit = 9
	MaxSearchLimit     = 100
)

// sortColumns is the fixed allow-list of sortable fields. Client-supplied
// sort keys outside this map fall back to creation time instead of being
// passed through to the store.
var sortColumns = map[string]string{
	"createdAt":     "created_at",
	"created_at":    "created_at",
	"regularPrice":  "regular_price",
	"regular_price": "regular_price",
	"name":          "name",
	"bedrooms":      "bedrooms",
	"bathrooms":     "bathrooms",
}

// SearchParams is the bounded filter/sort/pagination surface of the
// listing search. Nil tri-state filters match both values.
type SearchParams struct {
	SearchTerm string
	Type       string // "sale", "rent" or empty/"all"/"any" for both
	Offer      *bool
	Parking    *bool
	Furnished  *bool
	Sort       string
	Order      string // "asc" or "desc" (default)
	Limit      int
	StartIndex int
}

// ListingUpdate holds the fields a partial update may change. The owner
// reference is deliberately absent: it is immutable after creation.
type ListingUpdate struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Address       *string  `json:"address"`
	Type          *string  `json:"type"`
	Bedrooms      *int     `json:"bedrooms"`
	Bathrooms     *int     `json:"bathrooms"`
	RegularPrice  *float64 `json:"regularPrice"`
	DiscountPrice *float64 `json:"discountPrice"`
	Offer         *bool    `json:"offer"`
	Parking       *bool    `json:"parking"`
	Furnished     *bool    `json:"furnished"`
	ImageURLs     []string `json:"imageUrls"`
}

func (u *ListingUpdate) apply(l *models.Listing) {
	if u.Name != nil {
		l.Name = *u.Name
	}
	if u.Description != nil {
		l.Description = *u.Description
	}
	if u.Address != nil {
		l.Address = *u.Address
	}
	if u.Type != nil {
		l.Type = *u.Type
	}
	if u.Bedrooms != nil {
		l.Bedrooms = *u.Bedrooms
	}
	if u.Bathrooms != nil {
		l.Bathrooms = *u.Bathrooms
	}
	if u.RegularPrice != nil {
		l.RegularPrice = *u.RegularPrice
	}
	if u.DiscountPrice != nil {
		l.DiscountPrice = *u.DiscountPrice
	}
	if u.Offer != nil {
		l.Offer = *u.Offer
	}
	if u.Parking != nil {
		l.Parking = *u.Parking
	}
	if u.Furnished != nil {
		l.Furnished = *u.Furnished
	}
	if u.ImageURLs != nil {
		l.ImageURLs = u.ImageURLs
	}
}

// escapeLike neutralizes LIKE metacharacters so the search term matches
// them literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// Create validates and persists a new listing. The caller sets UserRef;
// id and timestamps are assigned here.
func (r *ListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if err := listing.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// Update merges the provided fields into the listing after checking that
// the caller owns it. Unspecified fields keep their prior values and the
// merged result is re-validated before the write.
func (r *ListingRepository) Update(ctx context.Context, id, callerID uuid.UUID, update ListingUpdate) (*models.Listing, error) {
	listing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.UserRef != callerID {
		return nil, ErrNotOwner
	}

	update.apply(listing)
	if err := listing.Validate(); err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Save(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// Delete permanently removes the listing if the caller owns it.
func (r *ListingRepository) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	listing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.UserRef != callerID {
		return ErrNotOwner
	}
	return r.db.WithContext(ctx).Delete(listing).Error
}

// Search returns the page of listings matching all filters. An empty
// result is an empty slice, never an error.
func (r *ListingRepository) Search(ctx context.Context, params SearchParams) ([]models.Listing, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	offset := params.StartIndex
	if offset < 0 {
		offset = 0
	}

	query := r.db.WithContext(ctx).Model(&models.Listing{})

	if params.SearchTerm != "" {
		pattern := "%" + escapeLike(strings.ToLower(params.SearchTerm)) + "%"
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}
	switch params.Type {
	case models.TypeSale, models.TypeRent:
		query = query.Where("type = ?", params.Type)
	}
	if params.Offer != nil {
		query = query.Where("offer = ?", *params.Offer)
	}
	if params.Parking != nil {
		query = query.Where("parking = ?", *params.Parking)
	}
	if params.Furnished != nil {
		query = query.Where("furnished = ?", *params.Furnished)
	}

	column, ok := sortColumns[params.Sort]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(params.Order, "asc") {
		direction = "ASC"
	}

	listings := make([]models.Listing, 0, limit)
	err := query.Order(column + " " + direction).
		Offset(offset).
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}
