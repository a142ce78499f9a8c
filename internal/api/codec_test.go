package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
)

// stubShares answers GetShare; every other procedure is unimplemented.
type stubShares struct{}

func unimplemented() error {
	return connect.NewError(connect.CodeUnimplemented, nil)
}

func (stubShares) CreateShare(context.Context, *connect.Request[CreateShareRequest]) (*connect.Response[CreateShareResponse], error) {
	return nil, unimplemented()
}

func (stubShares) ListShares(context.Context, *connect.Request[ListSharesRequest]) (*connect.Response[ListSharesResponse], error) {
	return nil, unimplemented()
}

func (stubShares) UpdateShare(context.Context, *connect.Request[UpdateShareRequest]) (*connect.Response[UpdateShareResponse], error) {
	return nil, unimplemented()
}

func (stubShares) DeleteShare(context.Context, *connect.Request[DeleteShareRequest]) (*connect.Response[DeleteShareResponse], error) {
	return nil, unimplemented()
}

func (stubShares) GetShare(ctx context.Context, req *connect.Request[GetShareRequest]) (*connect.Response[GetShareResponse], error) {
	if req.Msg.ShareID == "missing" {
		return nil, connect.NewError(connect.CodeNotFound, nil)
	}
	return connect.NewResponse(&GetShareResponse{
		Share: &Share{ID: req.Msg.ShareID, Title: "Trip", Currency: "USD"},
		Fares: []*Fare{{ID: "f1", Amount: "30.00", SplitBetween: []string{}}},
		Report: &BalanceReport{
			TotalExpenses: "30.00",
			MyExpenses:    "10.00",
			Balances:      []MemberBalance{{ParticipantID: "u1", Paid: "30.00", Owes: "10.00", Net: "20.00"}},
		},
	}), nil
}

func TestCodec_Unmarshal(t *testing.T) {
	var req CreateFareRequest
	if err := Codec.Unmarshal([]byte(`{"share_id":"s1","amount":"12.50","split_between":["a","b"]}`), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if req.ShareID != "s1" || req.Amount != "12.50" || len(req.SplitBetween) != 2 {
		t.Errorf("unexpected request: %+v", req)
	}

	var empty GetCurrentUserRequest
	if err := Codec.Unmarshal(nil, &empty); err != nil {
		t.Errorf("empty body should decode, got %v", err)
	}

	if err := Codec.Unmarshal([]byte(`{"share_id":`), &req); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestCodec_MarshalOmitsCurrentMember(t *testing.T) {
	data, err := Codec.Marshal(MemberBalance{ParticipantID: "u1", Net: "0.00"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "former") {
		t.Errorf("former should be omitted for current members: %s", data)
	}
}

func TestShareService_JSONOverHTTP(t *testing.T) {
	path, handler := NewShareServiceHandler(stubShares{})
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	defer server.Close()

	t.Run("plain POST", func(t *testing.T) {
		resp, err := http.Post(server.URL+ShareServiceGetShareProcedure, "application/json", strings.NewReader(`{"share_id":"s1"}`))
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
		}

		var got map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		report, ok := got["report"].(map[string]any)
		if !ok || report["total_expenses"] != "30.00" {
			t.Errorf("expected snake_case report with string money, got %v", got)
		}
	})

	t.Run("client round trip", func(t *testing.T) {
		client := NewShareServiceClient(http.DefaultClient, server.URL+"/")
		resp, err := client.GetShare(context.Background(), connect.NewRequest(&GetShareRequest{ShareID: "s1"}))
		if err != nil {
			t.Fatalf("GetShare failed: %v", err)
		}
		if resp.Msg.Share.ID != "s1" || resp.Msg.Report.Balances[0].Net != "20.00" {
			t.Errorf("unexpected response: %+v", resp.Msg)
		}

		_, err = client.GetShare(context.Background(), connect.NewRequest(&GetShareRequest{ShareID: "missing"}))
		if connect.CodeOf(err) != connect.CodeNotFound {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}
