package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/sharefare/internal/access"
	"github.com/mmynk/sharefare/internal/api"
	"github.com/mmynk/sharefare/internal/models"
	"github.com/mmynk/sharefare/internal/storage"
)

var _ api.FareServiceHandler = (*FareService)(nil)

// FareService implements the Connect FareService
type FareService struct {
	store storage.Store
}

// NewFareService creates a new FareService with the given storage backend.
func NewFareService(store storage.Store) *FareService {
	return &FareService{store: store}
}

// fareInput is the editable part of a fare as it arrives on the wire.
type fareInput struct {
	Name         string
	Amount       string
	Date         string
	Category     string
	PaidBy       string
	SplitBetween []string
}

// validatePayer checks that the payer is one of the participants.
func validatePayer(paidBy string, share *models.Share) error {
	if paidBy == "" {
		return fmt.Errorf("paid_by required")
	}
	if !share.HasParticipant(paidBy) {
		return fmt.Errorf("paid_by '%s' must be one of the participants", paidBy)
	}
	return nil
}

// validateSplit checks that everyone splitting the fare is a participant
// and drops repeated IDs.
func validateSplit(split []string, share *models.Share) ([]string, error) {
	seen := make(map[string]bool, len(split))
	out := make([]string, 0, len(split))
	for _, id := range split {
		if seen[id] {
			continue
		}
		if !share.HasParticipant(id) {
			return nil, fmt.Errorf("split member '%s' must be one of the participants", id)
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

// apply validates in against the share and writes it onto fare.
func (in fareInput) apply(fare *models.Fare, share *models.Share) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("name required")
	}
	if len([]rune(name)) > maxNameLength {
		return fmt.Errorf("name must be at most %d characters", maxNameLength)
	}
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return err
	}
	category, err := parseCategory(in.Category)
	if err != nil {
		return err
	}
	if err := validatePayer(in.PaidBy, share); err != nil {
		return err
	}
	split, err := validateSplit(in.SplitBetween, share)
	if err != nil {
		return err
	}

	fare.Name = name
	fare.Amount = amount
	fare.Date = date
	fare.Category = category
	fare.PaidBy = in.PaidBy
	fare.SplitBetween = split
	return nil
}

// loadFare fetches a fare together with its owning share.
func (s *FareService) loadFare(ctx context.Context, fareID string) (*models.Fare, *models.Share, error) {
	if fareID == "" {
		return nil, nil, invalidArgument("fare_id required")
	}
	fare, err := s.store.GetFare(ctx, fareID)
	if err != nil {
		return nil, nil, connectError(err)
	}
	share, err := s.store.GetShare(ctx, fare.ShareID)
	if err != nil {
		return nil, nil, connectError(err)
	}
	return fare, share, nil
}

// CreateFare records a fare in a share. Any participant may add fares.
func (s *FareService) CreateFare(ctx context.Context, req *connect.Request[api.CreateFareRequest]) (*connect.Response[api.CreateFareResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateFare request received",
		"share_id", req.Msg.ShareID,
		"name", req.Msg.Name,
		"amount", req.Msg.Amount,
		"split_count", len(req.Msg.SplitBetween),
	)

	if req.Msg.ShareID == "" {
		return nil, invalidArgument("share_id required")
	}
	share, err := s.store.GetShare(ctx, req.Msg.ShareID)
	if err != nil {
		slog.Error("CreateFare failed", "share_id", req.Msg.ShareID, "error", err)
		return nil, connectError(err)
	}
	if err := access.Require(access.CanAddFare(userID, share)); err != nil {
		slog.Warn("CreateFare denied", "share_id", share.ID, "user_id", userID)
		return nil, connectError(err)
	}

	fare := &models.Fare{ShareID: share.ID}
	in := fareInput{
		Name:         req.Msg.Name,
		Amount:       req.Msg.Amount,
		Date:         req.Msg.Date,
		Category:     req.Msg.Category,
		PaidBy:       req.Msg.PaidBy,
		SplitBetween: req.Msg.SplitBetween,
	}
	if err := in.apply(fare, share); err != nil {
		slog.Warn("CreateFare rejected", "share_id", share.ID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateFare(ctx, fare); err != nil {
		slog.Error("CreateFare failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Fare created", "fare_id", fare.ID, "share_id", share.ID)

	return connect.NewResponse(&api.CreateFareResponse{Fare: toAPIFare(fare)}), nil
}

// GetFare returns one fare to anyone who may view its share.
func (s *FareService) GetFare(ctx context.Context, req *connect.Request[api.GetFareRequest]) (*connect.Response[api.GetFareResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetFare request received", "fare_id", req.Msg.FareID)

	fare, share, err := s.loadFare(ctx, req.Msg.FareID)
	if err != nil {
		slog.Error("GetFare failed", "fare_id", req.Msg.FareID, "error", err)
		return nil, err
	}
	if err := access.Require(access.CanViewShare(userID, share)); err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetFareResponse{Fare: toAPIFare(fare)}), nil
}

// ListFares returns the fares of a share, most recent date first.
func (s *FareService) ListFares(ctx context.Context, req *connect.Request[api.ListFaresRequest]) (*connect.Response[api.ListFaresResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListFares request received", "share_id", req.Msg.ShareID)

	if req.Msg.ShareID == "" {
		return nil, invalidArgument("share_id required")
	}
	share, err := s.store.GetShare(ctx, req.Msg.ShareID)
	if err != nil {
		slog.Error("ListFares failed", "share_id", req.Msg.ShareID, "error", err)
		return nil, connectError(err)
	}
	if err := access.Require(access.CanViewShare(userID, share)); err != nil {
		return nil, connectError(err)
	}

	fares, err := s.store.ListFaresByShare(ctx, share.ID)
	if err != nil {
		slog.Error("ListFares failed", "share_id", share.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("ListFares successful", "share_id", share.ID, "count", len(fares))

	return connect.NewResponse(&api.ListFaresResponse{Fares: toAPIFares(fares)}), nil
}

// UpdateFare replaces a fare as a whole. Only the share's creator may update.
func (s *FareService) UpdateFare(ctx context.Context, req *connect.Request[api.UpdateFareRequest]) (*connect.Response[api.UpdateFareResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateFare request received", "fare_id", req.Msg.FareID)

	fare, share, err := s.loadFare(ctx, req.Msg.FareID)
	if err != nil {
		slog.Error("UpdateFare failed", "fare_id", req.Msg.FareID, "error", err)
		return nil, err
	}
	if err := access.Require(access.CanEditFare(userID, share, fare)); err != nil {
		slog.Warn("UpdateFare denied", "fare_id", fare.ID, "user_id", userID)
		return nil, connectError(err)
	}

	in := fareInput{
		Name:         req.Msg.Name,
		Amount:       req.Msg.Amount,
		Date:         req.Msg.Date,
		Category:     req.Msg.Category,
		PaidBy:       req.Msg.PaidBy,
		SplitBetween: req.Msg.SplitBetween,
	}
	if err := in.apply(fare, share); err != nil {
		slog.Warn("UpdateFare rejected", "fare_id", fare.ID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.UpdateFare(ctx, fare); err != nil {
		slog.Error("UpdateFare failed", "error", err)
		return nil, connectError(err)
	}

	slog.Info("Fare updated", "fare_id", fare.ID)

	return connect.NewResponse(&api.UpdateFareResponse{Fare: toAPIFare(fare)}), nil
}

// DeleteFare removes a fare. Only the share's creator may delete.
func (s *FareService) DeleteFare(ctx context.Context, req *connect.Request[api.DeleteFareRequest]) (*connect.Response[api.DeleteFareResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteFare request received", "fare_id", req.Msg.FareID)

	fare, share, err := s.loadFare(ctx, req.Msg.FareID)
	if err != nil {
		slog.Error("DeleteFare failed", "fare_id", req.Msg.FareID, "error", err)
		return nil, err
	}
	if err := access.Require(access.CanEditFare(userID, share, fare)); err != nil {
		slog.Warn("DeleteFare denied", "fare_id", fare.ID, "user_id", userID)
		return nil, connectError(err)
	}

	if err := s.store.DeleteFare(ctx, fare.ID); err != nil {
		slog.Error("DeleteFare failed", "error", err)
		return nil, connectError(err)
	}

	slog.Info("Fare deleted", "fare_id", fare.ID, "share_id", share.ID)

	return connect.NewResponse(&api.DeleteFareResponse{}), nil
}
