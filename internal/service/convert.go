package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/sharefare/internal/access"
	"github.com/mmynk/sharefare/internal/api"
	"github.com/mmynk/sharefare/internal/calculator"
	"github.com/mmynk/sharefare/internal/models"
	"github.com/mmynk/sharefare/internal/storage"
)

const (
	maxTitleLength = 100
	maxNameLength  = 100
)

// maxAmount bounds fare amounts to ten digits, two of them after the point.
var maxAmount = decimal.New(1, 8)

// connectError maps store and guard sentinels to Connect codes.
func connectError(err error) *connect.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, access.ErrForbidden):
		return connect.NewError(connect.CodePermissionDenied, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// parseAmount accepts a non-negative decimal below maxAmount with at most
// two fractional digits.
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must not be negative")
	}
	if !amount.Equal(amount.Truncate(2)) {
		return decimal.Zero, fmt.Errorf("amount must have at most 2 decimal places")
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, fmt.Errorf("amount must be less than %s", maxAmount)
	}
	return amount, nil
}

func parseDate(s string) (time.Time, error) {
	date, err := time.Parse(models.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return date, nil
}

func parseCategory(s string) (models.Category, error) {
	if s == "" {
		return models.DefaultCategory, nil
	}
	c := models.Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

func parseCurrency(s string) (models.Currency, error) {
	if s == "" {
		return models.DefaultCurrency, nil
	}
	c := models.Currency(strings.ToUpper(s))
	if !c.Valid() {
		return "", fmt.Errorf("unsupported currency %q", s)
	}
	return c, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("title required")
	}
	if len([]rune(title)) > maxTitleLength {
		return "", fmt.Errorf("title must be at most %d characters", maxTitleLength)
	}
	return title, nil
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func displayName(users map[string]*models.User, id string) string {
	if u, ok := users[id]; ok {
		return u.DisplayName
	}
	return ""
}

func toAPIShare(share *models.Share, users map[string]*models.User) *api.Share {
	participants := make([]api.Participant, len(share.Participants))
	for i, id := range share.Participants {
		participants[i] = api.Participant{ID: id, DisplayName: displayName(users, id)}
	}
	return &api.Share{
		ID:             share.ID,
		Title:          share.Title,
		Currency:       string(share.Currency),
		CurrencySymbol: share.Currency.Symbol(),
		CreatorID:      share.CreatorID,
		Participants:   participants,
		CreatedAt:      share.CreatedAt,
	}
}

func toAPIFare(fare *models.Fare) *api.Fare {
	split := fare.SplitBetween
	if split == nil {
		split = []string{}
	}
	return &api.Fare{
		ID:            fare.ID,
		ShareID:       fare.ShareID,
		Name:          fare.Name,
		Amount:        fare.Amount.StringFixed(2),
		Date:          fare.Date.Format(models.DateLayout),
		Category:      string(fare.Category),
		CategoryLabel: fare.Category.Label(),
		PaidBy:        fare.PaidBy,
		SplitBetween:  split,
		CreatedAt:     fare.CreatedAt,
	}
}

func toAPIFares(fares []*models.Fare) []*api.Fare {
	out := make([]*api.Fare, len(fares))
	for i, f := range fares {
		out[i] = toAPIFare(f)
	}
	return out
}

// toBalanceFares strips fares down to what the calculator needs, keeping order.
func toBalanceFares(fares []*models.Fare) []calculator.FareForBalance {
	out := make([]calculator.FareForBalance, len(fares))
	for i, f := range fares {
		out[i] = calculator.FareForBalance{
			Amount:       f.Amount,
			Category:     f.Category,
			PaidBy:       f.PaidBy,
			SplitBetween: f.SplitBetween,
		}
	}
	return out
}

func toAPIReport(report *calculator.Report, transfers []calculator.Transfer, users map[string]*models.User) *api.BalanceReport {
	balances := make([]api.MemberBalance, len(report.Balances))
	for i, b := range report.Balances {
		balances[i] = api.MemberBalance{
			ParticipantID: b.MemberID,
			DisplayName:   displayName(users, b.MemberID),
			Owes:          b.Owes.StringFixed(2),
			Paid:          b.Paid.StringFixed(2),
			Net:           b.Net.StringFixed(2),
			Former:        b.Former,
		}
	}

	categories := make([]api.CategoryTotal, len(report.CategoryTotals))
	for i, c := range report.CategoryTotals {
		categories[i] = api.CategoryTotal{
			Category: string(c.Category),
			Label:    c.Label,
			Total:    exact(c.Total),
		}
	}

	suggested := make([]api.Transfer, len(transfers))
	for i, t := range transfers {
		suggested[i] = api.Transfer{From: t.From, To: t.To, Amount: t.Amount.StringFixed(2)}
	}

	return &api.BalanceReport{
		TotalExpenses:  exact(report.TotalExpenses),
		MyExpenses:     report.MyExpenses.StringFixed(2),
		Balances:       balances,
		CategoryTotals: categories,
		Transfers:      suggested,
	}
}

// exact formats an unrounded sum with at least two decimal places.
func exact(d decimal.Decimal) string {
	if d.Exponent() >= -2 {
		return d.StringFixed(2)
	}
	return d.StringFixed(-d.Exponent())
}
