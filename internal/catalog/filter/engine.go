// Package filter evaluates catalog searches. Every function here is pure:
// the input slice is never modified and results keep the catalog order.
package filter

import (
	"strings"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/mmcloughlin/geohash"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Apply returns the listings that pass the text query and every non-nil
// criterion, in their original order.
func Apply(listings []domain.Listing, query string, c domain.Criteria) []domain.Listing {
	m := newMatcher(query, c)
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if m.match(l) {
			out = append(out, l)
		}
	}
	return out
}

// Matches reports whether a single listing passes the query and criteria.
func Matches(l domain.Listing, query string, c domain.Criteria) bool {
	return newMatcher(query, c).match(l)
}

type matcher struct {
	lower    cases.Caser
	query    string
	criteria domain.Criteria
	area     string
}

func newMatcher(query string, c domain.Criteria) *matcher {
	m := &matcher{
		lower:    cases.Lower(language.Und),
		criteria: c,
	}
	if query != "" {
		m.query = m.lower.String(query)
	}
	if c.Area != nil {
		m.area = strings.ToLower(*c.Area)
	}
	return m
}

func (m *matcher) match(l domain.Listing) bool {
	c := m.criteria
	if m.query != "" && !m.matchText(l) {
		return false
	}
	if c.Category != nil && l.Category != *c.Category {
		return false
	}
	if c.Transaction != nil && l.Transaction != *c.Transaction {
		return false
	}
	if c.City != nil && l.City != *c.City {
		return false
	}
	if c.MinPrice != nil && l.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && l.Price > *c.MaxPrice {
		return false
	}
	if c.MinBedrooms != nil && l.Bedrooms < *c.MinBedrooms {
		return false
	}
	if c.Area != nil && !m.matchArea(l) {
		return false
	}
	return true
}

func (m *matcher) matchText(l domain.Listing) bool {
	for _, field := range []string{l.Title, l.City, l.Neighborhood, string(l.Category)} {
		if strings.Contains(m.lower.String(field), m.query) {
			return true
		}
	}
	return false
}

func (m *matcher) matchArea(l domain.Listing) bool {
	if l.Location == nil {
		return false
	}
	return strings.HasPrefix(Geohash(*l.Location), m.area)
}

// Geohash encodes a location at full precision.
func Geohash(c domain.Coordinates) string {
	return geohash.Encode(c.Latitude, c.Longitude)
}
