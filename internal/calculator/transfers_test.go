package calculator

import (
	"testing"

	"github.com/mmynk/sharefare/internal/models"
)

func TestSuggestTransfers(t *testing.T) {
	tests := []struct {
		name  string
		fares []FareForBalance
		want  []Transfer
	}{
		{
			name: "trip",
			fares: []FareForBalance{
				fare("30.00", models.CategoryFoodDrink, "alice", "alice", "bob", "carol"),
				fare("15.00", models.CategoryTransportation, "bob", "bob", "carol"),
			},
			want: []Transfer{
				{From: "bob", To: "alice", Amount: d("2.50")},
				{From: "carol", To: "alice", Amount: d("17.50")},
			},
		},
		{
			name: "one debtor two creditors",
			fares: []FareForBalance{
				fare("10.00", models.CategoryFoodDrink, "alice", "carol"),
				fare("6.00", models.CategoryFoodDrink, "bob", "carol"),
			},
			want: []Transfer{
				{From: "carol", To: "alice", Amount: d("10.00")},
				{From: "carol", To: "bob", Amount: d("6.00")},
			},
		},
		{
			name: "everyone even",
			fares: []FareForBalance{
				fare("10.00", models.CategoryFoodDrink, "alice", "alice", "bob"),
				fare("10.00", models.CategoryFoodDrink, "bob", "alice", "bob"),
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := CalculateReport(tt.fares, []string{"alice", "bob", "carol"}, "alice")
			got := SuggestTransfers(r.Balances)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d transfers %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i].From != tt.want[i].From || got[i].To != tt.want[i].To || !got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("transfer %d: got %s -> %s %s, want %s -> %s %s", i,
						got[i].From, got[i].To, got[i].Amount,
						tt.want[i].From, tt.want[i].To, tt.want[i].Amount)
				}
			}
		})
	}
}
