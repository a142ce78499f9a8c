// Package calculator computes share balance reports from fares.
//
// Everything here is a pure function over values handed in by the caller:
// no storage access, no shared state, safe for concurrent use.
package calculator

import (
	"math/big"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/sharefare/internal/models"
)

// FareForBalance represents a fare with the minimal information needed for balance calculations.
type FareForBalance struct {
	Amount       decimal.Decimal
	Category     models.Category
	PaidBy       string
	SplitBetween []string
}

// MemberBalance represents the balance information for one share member.
// Owes, Paid and Net are each rounded from their own exact accumulator,
// so Net can differ by a cent from Paid - Owes.
type MemberBalance struct {
	MemberID string
	Owes     decimal.Decimal // This member's share of every fare they are split into
	Paid     decimal.Decimal // Total amount paid across all fares
	Net      decimal.Decimal // Positive = owed money, Negative = owes money

	// Former is set for users referenced by fares who are no longer participants.
	Former bool

	owes *big.Rat
	paid *big.Rat
}

// ExactNet returns paid minus owed before rounding.
func (b MemberBalance) ExactNet() *big.Rat {
	return new(big.Rat).Sub(b.paid, b.owes)
}

// CategoryTotal is the sum of all fare amounts in one category.
type CategoryTotal struct {
	Category models.Category
	Label    string
	Total    decimal.Decimal
}

// Report is the computed balance view of a share for one viewer.
type Report struct {
	// TotalExpenses is the exact sum of every fare amount.
	TotalExpenses decimal.Decimal

	// MyExpenses is the viewer's equal share of the fares they are split into.
	MyExpenses decimal.Decimal

	// Balances lists the viewer first (when a participant), then the other
	// participants in their stored order, then former members.
	Balances []MemberBalance

	// CategoryTotals is sorted by total descending, ties in first-seen order.
	CategoryTotals []CategoryTotal
}

// CalculateReport aggregates fares into a balance report.
//
// Fares are taken as-is: negative amounts or splits naming non-participants
// are not rejected here. A fare with an empty split adds to the payer's paid
// total and to TotalExpenses but nobody owes anything for it.
//
// Users referenced by a fare but missing from participants are still counted
// and appended to Balances with Former set, in the order they are first seen.
func CalculateReport(fares []FareForBalance, participants []string, viewer string) *Report {
	order := uniqueIDs(participants)
	members := make(map[string]*MemberBalance, len(order))
	for _, id := range order {
		members[id] = newMemberBalance(id, false)
	}
	viewerIsMember := members[viewer] != nil

	member := func(id string) *MemberBalance {
		if m, ok := members[id]; ok {
			return m
		}
		m := newMemberBalance(id, true)
		members[id] = m
		order = append(order, id)
		return m
	}

	total := decimal.Zero
	mine := new(big.Rat)
	var categories []CategoryTotal
	categoryIndex := make(map[models.Category]int)

	for _, fare := range fares {
		total = total.Add(fare.Amount)

		if fare.PaidBy != "" {
			payer := member(fare.PaidBy)
			payer.paid.Add(payer.paid, fare.Amount.Rat())
		}

		// Empty split: nobody owes, no division.
		if split := uniqueIDs(fare.SplitBetween); len(split) > 0 {
			each := equalShare(fare.Amount, len(split))
			for _, id := range split {
				m := member(id)
				m.owes.Add(m.owes, each)
				if id == viewer {
					mine.Add(mine, each)
				}
			}
		}

		idx, seen := categoryIndex[fare.Category]
		if !seen {
			idx = len(categories)
			categoryIndex[fare.Category] = idx
			categories = append(categories, CategoryTotal{
				Category: fare.Category,
				Label:    fare.Category.Label(),
				Total:    decimal.Zero,
			})
		}
		categories[idx].Total = categories[idx].Total.Add(fare.Amount)
	}

	balances := make([]MemberBalance, 0, len(order))
	if viewerIsMember {
		balances = append(balances, members[viewer].rounded())
	}
	for _, id := range order {
		if viewerIsMember && id == viewer {
			continue
		}
		balances = append(balances, members[id].rounded())
	}

	slices.SortStableFunc(categories, func(a, b CategoryTotal) int {
		return b.Total.Cmp(a.Total)
	})

	return &Report{
		TotalExpenses:  total,
		MyExpenses:     RoundCents(mine),
		Balances:       balances,
		CategoryTotals: categories,
	}
}

func newMemberBalance(id string, former bool) *MemberBalance {
	return &MemberBalance{
		MemberID: id,
		Former:   former,
		owes:     new(big.Rat),
		paid:     new(big.Rat),
	}
}

func (b *MemberBalance) rounded() MemberBalance {
	out := *b
	out.Owes = RoundCents(b.owes)
	out.Paid = RoundCents(b.paid)
	out.Net = RoundCents(b.ExactNet())
	return out
}

// uniqueIDs drops empty and repeated IDs, keeping first occurrences.
func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
