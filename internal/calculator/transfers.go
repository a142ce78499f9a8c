package calculator

import "github.com/shopspring/decimal"

// Transfer is a suggested payment from a debtor to a creditor.
type Transfer struct {
	From   string // Member who owes
	To     string // Member who is owed
	Amount decimal.Decimal
}

// SuggestTransfers matches debtors with creditors to clear the given
// balances in few payments. It works on the rounded nets, walking both
// sides in balance-list order, so the result is deterministic.
// Nothing is recorded; the suggestions are informational.
func SuggestTransfers(balances []MemberBalance) []Transfer {
	type position struct {
		id   string
		left decimal.Decimal
	}

	var debtors, creditors []position
	for _, b := range balances {
		switch b.Net.Sign() {
		case -1:
			debtors = append(debtors, position{id: b.MemberID, left: b.Net.Neg()})
		case 1:
			creditors = append(creditors, position{id: b.MemberID, left: b.Net})
		}
	}

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := decimal.Min(debtors[i].left, creditors[j].left)
		if amount.IsPositive() {
			transfers = append(transfers, Transfer{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: amount,
			})
		}

		debtors[i].left = debtors[i].left.Sub(amount)
		creditors[j].left = creditors[j].left.Sub(amount)

		if !debtors[i].left.IsPositive() {
			i++
		}
		if !creditors[j].left.IsPositive() {
			j++
		}
	}

	return transfers
}
