package domain

import "fmt"

// Criteria is the structured part of a catalog search. A nil field puts no
// constraint on its dimension; zero is a real bound.
type Criteria struct {
	Category    *Category        `json:"category,omitempty" yaml:"category,omitempty"`
	Transaction *TransactionKind `json:"transaction,omitempty" yaml:"transaction,omitempty"`
	City        *string          `json:"city,omitempty" yaml:"city,omitempty"`
	MinPrice    *int64           `json:"min_price,omitempty" yaml:"min_price,omitempty"`
	MaxPrice    *int64           `json:"max_price,omitempty" yaml:"max_price,omitempty"`
	MinBedrooms *int             `json:"min_bedrooms,omitempty" yaml:"min_bedrooms,omitempty"`
	// Area is a geohash prefix the listing location must fall into.
	Area *string `json:"area,omitempty" yaml:"area,omitempty"`
}

type FilterField string

const (
	FieldCategory    FilterField = "category"
	FieldTransaction FilterField = "transaction"
	FieldCity        FilterField = "city"
	FieldMinPrice    FilterField = "min_price"
	FieldMaxPrice    FilterField = "max_price"
	FieldMinBedrooms FilterField = "min_bedrooms"
	FieldArea        FilterField = "area"
)

func Ptr[T any](v T) *T {
	return &v
}

func (c Criteria) IsEmpty() bool {
	return c.Category == nil && c.Transaction == nil && c.City == nil &&
		c.MinPrice == nil && c.MaxPrice == nil && c.MinBedrooms == nil && c.Area == nil
}

// Merge overlays the non-nil fields of patch onto c. Fields patch leaves
// nil keep their current value.
func (c Criteria) Merge(patch Criteria) Criteria {
	out := c
	if patch.Category != nil {
		out.Category = Ptr(*patch.Category)
	}
	if patch.Transaction != nil {
		out.Transaction = Ptr(*patch.Transaction)
	}
	if patch.City != nil {
		out.City = Ptr(*patch.City)
	}
	if patch.MinPrice != nil {
		out.MinPrice = Ptr(*patch.MinPrice)
	}
	if patch.MaxPrice != nil {
		out.MaxPrice = Ptr(*patch.MaxPrice)
	}
	if patch.MinBedrooms != nil {
		out.MinBedrooms = Ptr(*patch.MinBedrooms)
	}
	if patch.Area != nil {
		out.Area = Ptr(*patch.Area)
	}
	return out
}

// Without returns c with the given fields unset.
func (c Criteria) Without(fields ...FilterField) Criteria {
	out := c
	for _, f := range fields {
		switch f {
		case FieldCategory:
			out.Category = nil
		case FieldTransaction:
			out.Transaction = nil
		case FieldCity:
			out.City = nil
		case FieldMinPrice:
			out.MinPrice = nil
		case FieldMaxPrice:
			out.MaxPrice = nil
		case FieldMinBedrooms:
			out.MinBedrooms = nil
		case FieldArea:
			out.Area = nil
		}
	}
	return out
}

func (c Criteria) Validate() error {
	if c.Category != nil && !c.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidFilter, *c.Category)
	}
	if c.Transaction != nil && !c.Transaction.IsValid() {
		return fmt.Errorf("%w: unknown transaction kind %q", ErrInvalidFilter, *c.Transaction)
	}
	if c.MinPrice != nil && c.MaxPrice != nil && *c.MinPrice > *c.MaxPrice {
		return fmt.Errorf("%w: min price %d is above max price %d", ErrInvalidFilter, *c.MinPrice, *c.MaxPrice)
	}
	if c.MinBedrooms != nil && *c.MinBedrooms < 0 {
		return fmt.Errorf("%w: negative bedroom count", ErrInvalidFilter)
	}
	return nil
}
