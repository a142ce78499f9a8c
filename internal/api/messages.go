package api

// User is the public view of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

// Participant is a share member with their display name resolved.
type Participant struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type Share struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Currency       string        `json:"currency"`
	CurrencySymbol string        `json:"currency_symbol"`
	CreatorID      string        `json:"creator_id"`
	Participants   []Participant `json:"participants"`
	CreatedAt      int64         `json:"created_at"`
}

type Fare struct {
	ID            string   `json:"id"`
	ShareID       string   `json:"share_id"`
	Name          string   `json:"name"`
	Amount        string   `json:"amount"`
	Date          string   `json:"date"`
	Category      string   `json:"category"`
	CategoryLabel string   `json:"category_label"`
	PaidBy        string   `json:"paid_by"`
	SplitBetween  []string `json:"split_between"`
	CreatedAt     int64    `json:"created_at"`
}

type MemberBalance struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	Owes          string `json:"owes"`
	Paid          string `json:"paid"`
	Net           string `json:"net"`
	Former        bool   `json:"former,omitempty"`
}

type CategoryTotal struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Total    string `json:"total"`
}

type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// BalanceReport is the computed balance view of a share for the caller.
type BalanceReport struct {
	TotalExpenses  string          `json:"total_expenses"`
	MyExpenses     string          `json:"my_expenses"`
	Balances       []MemberBalance `json:"balances"`
	CategoryTotals []CategoryTotal `json:"category_totals"`
	Transfers      []Transfer      `json:"transfers"`
}

// Auth

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// Shares

type CreateShareRequest struct {
	Title          string   `json:"title"`
	Currency       string   `json:"currency"`
	ParticipantIDs []string `json:"participant_ids"`
}

type CreateShareResponse struct {
	Share *Share `json:"share"`
}

type GetShareRequest struct {
	ShareID string `json:"share_id"`
}

// GetShareResponse is the share detail view: the share, its fares in
// stored order and the caller's balance report.
type GetShareResponse struct {
	Share  *Share         `json:"share"`
	Fares  []*Fare        `json:"fares"`
	Report *BalanceReport `json:"report"`
}

type ListSharesRequest struct {
	// IncludeParticipating also lists shares created by others that the caller belongs to.
	IncludeParticipating bool `json:"include_participating"`
}

type ListSharesResponse struct {
	Shares []*Share `json:"shares"`
}

type UpdateShareRequest struct {
	ShareID        string   `json:"share_id"`
	Title          string   `json:"title"`
	Currency       string   `json:"currency"`
	ParticipantIDs []string `json:"participant_ids"`
}

type UpdateShareResponse struct {
	Share *Share `json:"share"`
}

type DeleteShareRequest struct {
	ShareID string `json:"share_id"`
}

type DeleteShareResponse struct{}

// Fares

type CreateFareRequest struct {
	ShareID      string   `json:"share_id"`
	Name         string   `json:"name"`
	Amount       string   `json:"amount"`
	Date         string   `json:"date"`
	Category     string   `json:"category"`
	PaidBy       string   `json:"paid_by"`
	SplitBetween []string `json:"split_between"`
}

type CreateFareResponse struct {
	Fare *Fare `json:"fare"`
}

type GetFareRequest struct {
	FareID string `json:"fare_id"`
}

type GetFareResponse struct {
	Fare *Fare `json:"fare"`
}

type ListFaresRequest struct {
	ShareID string `json:"share_id"`
}

type ListFaresResponse struct {
	Fares []*Fare `json:"fares"`
}

type UpdateFareRequest struct {
	FareID       string   `json:"fare_id"`
	Name         string   `json:"name"`
	Amount       string   `json:"amount"`
	Date         string   `json:"date"`
	Category     string   `json:"category"`
	PaidBy       string   `json:"paid_by"`
	SplitBetween []string `json:"split_between"`
}

type UpdateFareResponse struct {
	Fare *Fare `json:"fare"`
}

type DeleteFareRequest struct {
	FareID string `json:"fare_id"`
}

type DeleteFareResponse struct{}
