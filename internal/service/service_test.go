package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/sharefare/internal/api"
	"github.com/mmynk/sharefare/internal/middleware"
	"github.com/mmynk/sharefare/internal/models"
	"github.com/mmynk/sharefare/internal/storage/sqlite"
)

const testUserHeader = "X-Test-User"

// testAuthInterceptor returns a Connect interceptor that trusts the test user header.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if id := req.Header().Get(testUserHeader); id != "" {
				ctx = middleware.WithUser(ctx, id, "")
			}
			return next(ctx, req)
		}
	}
}

type testEnv struct {
	store  *sqlite.SQLiteStore
	shares *api.ShareServiceClient
	fares  *api.FareServiceClient
	users  map[string]*models.User
}

// setupTestServer creates a test server backed by a temp SQLite database
// with alice, bob, carol and mallory registered.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	interceptors := connect.WithInterceptors(testAuthInterceptor())
	sharePath, shareHandler := api.NewShareServiceHandler(NewShareService(store), interceptors)
	farePath, fareHandler := api.NewFareServiceHandler(NewFareService(store), interceptors)

	mux := http.NewServeMux()
	mux.Handle(sharePath, shareHandler)
	mux.Handle(farePath, fareHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	env := &testEnv{
		store:  store,
		shares: api.NewShareServiceClient(http.DefaultClient, server.URL),
		fares:  api.NewFareServiceClient(http.DefaultClient, server.URL),
		users:  make(map[string]*models.User),
	}
	for _, name := range []string{"alice", "bob", "carol", "mallory"} {
		user := models.NewUser(name+"@example.com", name, "hash")
		if err := store.CreateUser(context.Background(), user); err != nil {
			t.Fatalf("failed to create user %s: %v", name, err)
		}
		env.users[name] = user
	}

	return env
}

func (e *testEnv) id(name string) string {
	return e.users[name].ID
}

// as builds a request sent on behalf of the named user.
func as[T any](e *testEnv, name string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(testUserHeader, e.id(name))
	return req
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected %v, got %v (%v)", want, got, err)
	}
}

func (e *testEnv) createShare(t *testing.T, creator string, members ...string) *api.Share {
	t.Helper()
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = e.id(m)
	}
	resp, err := e.shares.CreateShare(context.Background(), as(e, creator, &api.CreateShareRequest{
		Title:          "Trip",
		ParticipantIDs: ids,
	}))
	if err != nil {
		t.Fatalf("CreateShare failed: %v", err)
	}
	return resp.Msg.Share
}

func (e *testEnv) createFare(t *testing.T, caller, shareID, amount, date, paidBy string, split ...string) *api.Fare {
	t.Helper()
	ids := make([]string, len(split))
	for i, m := range split {
		ids[i] = e.id(m)
	}
	resp, err := e.fares.CreateFare(context.Background(), as(e, caller, &api.CreateFareRequest{
		ShareID:      shareID,
		Name:         "Fare " + amount,
		Amount:       amount,
		Date:         date,
		Category:     string(models.CategoryFoodDrink),
		PaidBy:       e.id(paidBy),
		SplitBetween: ids,
	}))
	if err != nil {
		t.Fatalf("CreateFare failed: %v", err)
	}
	return resp.Msg.Fare
}

func TestCreateShare(t *testing.T) {
	env := setupTestServer(t)

	share := env.createShare(t, "alice", "bob", "carol")

	if share.ID == "" {
		t.Error("expected non-empty share ID")
	}
	if share.CreatorID != env.id("alice") {
		t.Errorf("creator: expected alice, got %s", share.CreatorID)
	}
	if share.Currency != "USD" || share.CurrencySymbol != "$" {
		t.Errorf("currency: expected USD/$, got %s/%s", share.Currency, share.CurrencySymbol)
	}
	if len(share.Participants) != 3 {
		t.Fatalf("participants: expected 3, got %d", len(share.Participants))
	}
	if share.Participants[0].ID != env.id("alice") || share.Participants[0].DisplayName != "alice" {
		t.Errorf("expected creator first, got %+v", share.Participants[0])
	}
	if share.CreatedAt == 0 {
		t.Error("expected non-zero CreatedAt")
	}
}

func TestCreateShare_Validation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *api.CreateShareRequest
	}{
		{"empty title", &api.CreateShareRequest{Title: "  "}},
		{"unknown currency", &api.CreateShareRequest{Title: "Trip", Currency: "JPY"}},
		{"unknown participant", &api.CreateShareRequest{Title: "Trip", ParticipantIDs: []string{"ghost"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.shares.CreateShare(ctx, as(env, "alice", tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := env.shares.CreateShare(ctx, connect.NewRequest(&api.CreateShareRequest{Title: "Trip"}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("lowercase currency accepted", func(t *testing.T) {
		resp, err := env.shares.CreateShare(ctx, as(env, "alice", &api.CreateShareRequest{Title: "Trip", Currency: "eur"}))
		if err != nil {
			t.Fatalf("CreateShare failed: %v", err)
		}
		if resp.Msg.Share.Currency != "EUR" {
			t.Errorf("expected EUR, got %s", resp.Msg.Share.Currency)
		}
	})
}

func TestGetShare_BalanceReport(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	share := env.createShare(t, "alice", "bob", "carol")
	env.createFare(t, "alice", share.ID, "30.00", "2024-06-01", "alice", "alice", "bob", "carol")
	env.createFare(t, "bob", share.ID, "15.00", "2024-06-02", "bob", "bob", "carol")

	resp, err := env.shares.GetShare(ctx, as(env, "bob", &api.GetShareRequest{ShareID: share.ID}))
	if err != nil {
		t.Fatalf("GetShare failed: %v", err)
	}

	if len(resp.Msg.Fares) != 2 || resp.Msg.Fares[0].Amount != "15.00" {
		t.Errorf("expected newest fare first, got %+v", resp.Msg.Fares)
	}

	report := resp.Msg.Report
	if report.TotalExpenses != "45.00" {
		t.Errorf("total_expenses: expected 45.00, got %s", report.TotalExpenses)
	}
	if report.MyExpenses != "17.50" {
		t.Errorf("my_expenses: expected 17.50, got %s", report.MyExpenses)
	}

	want := []struct {
		name, paid, owes, net string
	}{
		{"bob", "15.00", "17.50", "-2.50"},
		{"alice", "30.00", "10.00", "20.00"},
		{"carol", "0.00", "17.50", "-17.50"},
	}
	if len(report.Balances) != len(want) {
		t.Fatalf("balances: expected %d, got %d", len(want), len(report.Balances))
	}
	for i, w := range want {
		b := report.Balances[i]
		if b.ParticipantID != env.id(w.name) || b.DisplayName != w.name {
			t.Errorf("balance %d: expected %s, got %s", i, w.name, b.DisplayName)
		}
		if b.Paid != w.paid || b.Owes != w.owes || b.Net != w.net {
			t.Errorf("%s: got paid=%s owes=%s net=%s, want paid=%s owes=%s net=%s",
				w.name, b.Paid, b.Owes, b.Net, w.paid, w.owes, w.net)
		}
	}

	if len(report.CategoryTotals) != 1 || report.CategoryTotals[0].Label != "Food & Drink" || report.CategoryTotals[0].Total != "45.00" {
		t.Errorf("unexpected category totals: %+v", report.CategoryTotals)
	}

	if len(report.Transfers) != 2 {
		t.Fatalf("transfers: expected 2, got %d", len(report.Transfers))
	}
	if report.Transfers[0].From != env.id("bob") || report.Transfers[0].To != env.id("alice") || report.Transfers[0].Amount != "2.50" {
		t.Errorf("unexpected first transfer: %+v", report.Transfers[0])
	}
}

func TestGetShare_RemovedParticipantStillCounted(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	share := env.createShare(t, "alice", "bob", "carol")
	env.createFare(t, "alice", share.ID, "9.00", "2024-06-01", "alice", "alice", "bob", "carol")

	_, err := env.shares.UpdateShare(ctx, as(env, "alice", &api.UpdateShareRequest{
		ShareID:        share.ID,
		Title:          "Trip",
		ParticipantIDs: []string{env.id("bob")},
	}))
	if err != nil {
		t.Fatalf("UpdateShare failed: %v", err)
	}

	resp, err := env.shares.GetShare(ctx, as(env, "alice", &api.GetShareRequest{ShareID: share.ID}))
	if err != nil {
		t.Fatalf("GetShare failed: %v", err)
	}

	balances := resp.Msg.Report.Balances
	if len(balances) != 3 {
		t.Fatalf("expected 3 balances, got %d", len(balances))
	}
	carol := balances[2]
	if carol.ParticipantID != env.id("carol") || !carol.Former || carol.Owes != "3.00" {
		t.Errorf("expected carol as former member owing 3.00, got %+v", carol)
	}
	if carol.DisplayName != "carol" {
		t.Errorf("expected former member name to resolve, got %q", carol.DisplayName)
	}
}

func TestShareAccess(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	share := env.createShare(t, "alice", "bob")
	fare := env.createFare(t, "bob", share.ID, "12.00", "2024-06-01", "bob", "alice", "bob")

	t.Run("outsider cannot view", func(t *testing.T) {
		_, err := env.shares.GetShare(ctx, as(env, "mallory", &api.GetShareRequest{ShareID: share.ID}))
		assertCode(t, err, connect.CodePermissionDenied)

		_, err = env.fares.GetFare(ctx, as(env, "mallory", &api.GetFareRequest{FareID: fare.ID}))
		assertCode(t, err, connect.CodePermissionDenied)

		_, err = env.fares.ListFares(ctx, as(env, "mallory", &api.ListFaresRequest{ShareID: share.ID}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("outsider cannot add fares", func(t *testing.T) {
		_, err := env.fares.CreateFare(ctx, as(env, "mallory", &api.CreateFareRequest{
			ShareID: share.ID, Name: "Sneaky", Amount: "1.00", Date: "2024-06-01", PaidBy: env.id("alice"),
		}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("participant cannot edit share", func(t *testing.T) {
		_, err := env.shares.UpdateShare(ctx, as(env, "bob", &api.UpdateShareRequest{ShareID: share.ID, Title: "Mine"}))
		assertCode(t, err, connect.CodePermissionDenied)

		_, err = env.shares.DeleteShare(ctx, as(env, "bob", &api.DeleteShareRequest{ShareID: share.ID}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("participant cannot edit own fare", func(t *testing.T) {
		_, err := env.fares.UpdateFare(ctx, as(env, "bob", &api.UpdateFareRequest{
			FareID: fare.ID, Name: "Lunch", Amount: "1.00", Date: "2024-06-01", PaidBy: env.id("bob"),
		}))
		assertCode(t, err, connect.CodePermissionDenied)

		_, err = env.fares.DeleteFare(ctx, as(env, "bob", &api.DeleteFareRequest{FareID: fare.ID}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("creator edits the fare", func(t *testing.T) {
		resp, err := env.fares.UpdateFare(ctx, as(env, "alice", &api.UpdateFareRequest{
			FareID:       fare.ID,
			Name:         "Lunch",
			Amount:       "20",
			Date:         "2024-06-03",
			Category:     string(models.CategoryMisc),
			PaidBy:       env.id("alice"),
			SplitBetween: []string{env.id("bob")},
		}))
		if err != nil {
			t.Fatalf("UpdateFare failed: %v", err)
		}
		got := resp.Msg.Fare
		if got.Amount != "20.00" || got.Name != "Lunch" || got.CategoryLabel != "Miscellaneous" {
			t.Errorf("unexpected fare: %+v", got)
		}
		if len(got.SplitBetween) != 1 || got.SplitBetween[0] != env.id("bob") {
			t.Errorf("unexpected split: %v", got.SplitBetween)
		}
	})

	t.Run("bob still sees the share", func(t *testing.T) {
		resp, err := env.fares.GetFare(ctx, as(env, "bob", &api.GetFareRequest{FareID: fare.ID}))
		if err != nil {
			t.Fatalf("GetFare failed: %v", err)
		}
		if resp.Msg.Fare.Date != "2024-06-03" {
			t.Errorf("expected updated date, got %s", resp.Msg.Fare.Date)
		}
	})
}

func TestCreateFare_Validation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	share := env.createShare(t, "alice", "bob")

	valid := func() *api.CreateFareRequest {
		return &api.CreateFareRequest{
			ShareID:      share.ID,
			Name:         "Dinner",
			Amount:       "10.00",
			Date:         "2024-06-01",
			PaidBy:       env.id("alice"),
			SplitBetween: []string{env.id("alice"), env.id("bob")},
		}
	}

	tests := []struct {
		name   string
		mutate func(r *api.CreateFareRequest)
	}{
		{"empty name", func(r *api.CreateFareRequest) { r.Name = "" }},
		{"negative amount", func(r *api.CreateFareRequest) { r.Amount = "-1.00" }},
		{"too many decimals", func(r *api.CreateFareRequest) { r.Amount = "1.005" }},
		{"amount too large", func(r *api.CreateFareRequest) { r.Amount = "100000000" }},
		{"not a number", func(r *api.CreateFareRequest) { r.Amount = "ten" }},
		{"bad date", func(r *api.CreateFareRequest) { r.Date = "01/06/2024" }},
		{"bad category", func(r *api.CreateFareRequest) { r.Category = "gambling" }},
		{"missing payer", func(r *api.CreateFareRequest) { r.PaidBy = "" }},
		{"payer outside share", func(r *api.CreateFareRequest) { r.PaidBy = env.id("carol") }},
		{"split outside share", func(r *api.CreateFareRequest) { r.SplitBetween = []string{env.id("carol")} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			_, err := env.fares.CreateFare(ctx, as(env, "bob", req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}

	t.Run("defaults and dedupe", func(t *testing.T) {
		req := valid()
		req.SplitBetween = []string{env.id("bob"), env.id("bob")}
		resp, err := env.fares.CreateFare(ctx, as(env, "bob", req))
		if err != nil {
			t.Fatalf("CreateFare failed: %v", err)
		}
		if resp.Msg.Fare.Category != string(models.DefaultCategory) {
			t.Errorf("expected default category, got %s", resp.Msg.Fare.Category)
		}
		if len(resp.Msg.Fare.SplitBetween) != 1 {
			t.Errorf("expected duplicate split member collapsed, got %v", resp.Msg.Fare.SplitBetween)
		}
	})

	t.Run("empty split allowed", func(t *testing.T) {
		req := valid()
		req.SplitBetween = nil
		resp, err := env.fares.CreateFare(ctx, as(env, "alice", req))
		if err != nil {
			t.Fatalf("CreateFare failed: %v", err)
		}
		if resp.Msg.Fare.SplitBetween == nil || len(resp.Msg.Fare.SplitBetween) != 0 {
			t.Errorf("expected empty split, got %v", resp.Msg.Fare.SplitBetween)
		}
	})

	t.Run("unknown share", func(t *testing.T) {
		req := valid()
		req.ShareID = "nonexistent-id"
		_, err := env.fares.CreateFare(ctx, as(env, "alice", req))
		assertCode(t, err, connect.CodeNotFound)
	})
}

func TestUpdateShare_KeepsCreator(t *testing.T) {
	env := setupTestServer(t)
	share := env.createShare(t, "alice", "bob")

	resp, err := env.shares.UpdateShare(context.Background(), as(env, "alice", &api.UpdateShareRequest{
		ShareID:        share.ID,
		Title:          "Renamed",
		Currency:       "GBP",
		ParticipantIDs: []string{env.id("carol")},
	}))
	if err != nil {
		t.Fatalf("UpdateShare failed: %v", err)
	}

	got := resp.Msg.Share
	if got.Title != "Renamed" || got.Currency != "GBP" || got.CurrencySymbol != "£" {
		t.Errorf("unexpected share: %+v", got)
	}
	if len(got.Participants) != 2 || got.Participants[0].ID != env.id("alice") || got.Participants[1].ID != env.id("carol") {
		t.Errorf("expected [alice carol], got %+v", got.Participants)
	}
}

func TestDeleteShare_RemovesFares(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	share := env.createShare(t, "alice", "bob")
	fare := env.createFare(t, "bob", share.ID, "5.00", "2024-06-01", "bob", "alice")

	if _, err := env.shares.DeleteShare(ctx, as(env, "alice", &api.DeleteShareRequest{ShareID: share.ID})); err != nil {
		t.Fatalf("DeleteShare failed: %v", err)
	}

	_, err := env.shares.GetShare(ctx, as(env, "alice", &api.GetShareRequest{ShareID: share.ID}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = env.fares.GetFare(ctx, as(env, "alice", &api.GetFareRequest{FareID: fare.ID}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestDeleteFare(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	share := env.createShare(t, "alice", "bob")
	fare := env.createFare(t, "bob", share.ID, "5.00", "2024-06-01", "bob", "alice")

	if _, err := env.fares.DeleteFare(ctx, as(env, "alice", &api.DeleteFareRequest{FareID: fare.ID})); err != nil {
		t.Fatalf("DeleteFare failed: %v", err)
	}

	resp, err := env.fares.ListFares(ctx, as(env, "bob", &api.ListFaresRequest{ShareID: share.ID}))
	if err != nil {
		t.Fatalf("ListFares failed: %v", err)
	}
	if len(resp.Msg.Fares) != 0 {
		t.Errorf("expected no fares, got %d", len(resp.Msg.Fares))
	}
}

func TestListShares(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	mine := env.createShare(t, "alice", "bob")
	theirs := env.createShare(t, "bob", "alice")
	env.createShare(t, "carol")

	resp, err := env.shares.ListShares(ctx, as(env, "alice", &api.ListSharesRequest{}))
	if err != nil {
		t.Fatalf("ListShares failed: %v", err)
	}
	if len(resp.Msg.Shares) != 1 || resp.Msg.Shares[0].ID != mine.ID {
		t.Errorf("expected only alice's own share, got %d", len(resp.Msg.Shares))
	}

	resp, err = env.shares.ListShares(ctx, as(env, "alice", &api.ListSharesRequest{IncludeParticipating: true}))
	if err != nil {
		t.Fatalf("ListShares failed: %v", err)
	}
	if len(resp.Msg.Shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(resp.Msg.Shares))
	}
	if resp.Msg.Shares[0].ID != theirs.ID {
		t.Errorf("expected newest share first")
	}
	if resp.Msg.Shares[0].Participants[1].DisplayName != "alice" {
		t.Errorf("expected participant names resolved, got %+v", resp.Msg.Shares[0].Participants)
	}
}
