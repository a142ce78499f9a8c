package models

import "slices"

// Currency is the ISO code a share keeps its fares in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// DefaultCurrency is used when a share is created without one.
const DefaultCurrency = CurrencyUSD

var currencySymbols = map[Currency]string{
	CurrencyUSD: "$",
	CurrencyEUR: "€",
	CurrencyGBP: "£",
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	_, ok := currencySymbols[c]
	return ok
}

// Symbol returns the display symbol, or the code itself for unknown currencies.
func (c Currency) Symbol() string {
	if s, ok := currencySymbols[c]; ok {
		return s
	}
	return string(c)
}

// Share represents a named group of users jointly tracking expenses.
type Share struct {
	// ID is the unique identifier for the share (UUID format).
	ID string

	// Title is the display name of the share (e.g., "Lisbon Trip").
	Title string

	// Currency is the single currency all fares in the share use.
	Currency Currency

	// CreatorID is the user who created the share. Only the creator
	// may edit or delete the share and its fares.
	CreatorID string

	// Participants is the ordered list of member user IDs.
	// The creator is always a member.
	Participants []string

	// CreatedAt is the Unix timestamp when the share was created.
	CreatedAt int64
}

// HasParticipant reports whether userID is a member of the share.
func (s *Share) HasParticipant(userID string) bool {
	return slices.Contains(s.Participants, userID)
}

// EnsureCreator puts the creator first in Participants if missing and
// drops duplicate IDs, keeping first occurrences.
func (s *Share) EnsureCreator() {
	members := make([]string, 0, len(s.Participants)+1)
	seen := make(map[string]bool, len(s.Participants)+1)
	if !slices.Contains(s.Participants, s.CreatorID) {
		members = append(members, s.CreatorID)
		seen[s.CreatorID] = true
	}
	for _, p := range s.Participants {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		members = append(members, p)
	}
	s.Participants = members
}
