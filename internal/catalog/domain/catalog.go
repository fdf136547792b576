package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidCatalog = errors.New("invalid catalog data")

// Validate checks the shape rules providers cannot express in their own
// formats: unique listing ids, known enums, at least one image per listing.
func (c *Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Listings))
	for i, l := range c.Listings {
		if l.ID == "" {
			return fmt.Errorf("%w: listing #%d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := seen[l.ID]; dup {
			return fmt.Errorf("%w: duplicate listing id %q", ErrInvalidCatalog, l.ID)
		}
		seen[l.ID] = struct{}{}
		if !l.Category.IsValid() {
			return fmt.Errorf("%w: listing %q has unknown category %q", ErrInvalidCatalog, l.ID, l.Category)
		}
		if !l.Transaction.IsValid() {
			return fmt.Errorf("%w: listing %q has unknown transaction kind %q", ErrInvalidCatalog, l.ID, l.Transaction)
		}
		if len(l.Images) == 0 {
			return fmt.Errorf("%w: listing %q has no images", ErrInvalidCatalog, l.ID)
		}
		if l.Status != "" && !l.Status.IsValid() {
			return fmt.Errorf("%w: listing %q has unknown status %q", ErrInvalidCatalog, l.ID, l.Status)
		}
	}
	for _, cr := range c.Credentials {
		if cr.Email == "" {
			return fmt.Errorf("%w: credential without email", ErrInvalidCatalog)
		}
	}
	return nil
}
