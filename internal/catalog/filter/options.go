package filter

import (
	"sort"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
)

// BuildOptions collects the distinct values a filter form can offer.
func BuildOptions(listings []domain.Listing) domain.FilterOptions {
	opts := domain.FilterOptions{
		Cities:       []string{},
		Categories:   []domain.Category{},
		ListingCount: len(listings),
	}
	if len(listings) == 0 {
		return opts
	}

	cities := make(map[string]struct{})
	categories := make(map[domain.Category]struct{})
	opts.Price = domain.PriceRange{Min: listings[0].Price, Max: listings[0].Price}

	for _, l := range listings {
		if l.City != "" {
			cities[l.City] = struct{}{}
		}
		if l.Category != "" {
			categories[l.Category] = struct{}{}
		}
		if l.Price < opts.Price.Min {
			opts.Price.Min = l.Price
		}
		if l.Price > opts.Price.Max {
			opts.Price.Max = l.Price
		}
		if l.Bedrooms > opts.MaxBedrooms {
			opts.MaxBedrooms = l.Bedrooms
		}
	}

	for c := range cities {
		opts.Cities = append(opts.Cities, c)
	}
	sort.Strings(opts.Cities)
	for c := range categories {
		opts.Categories = append(opts.Categories, c)
	}
	sort.Slice(opts.Categories, func(i, j int) bool { return opts.Categories[i] < opts.Categories[j] })
	return opts
}
