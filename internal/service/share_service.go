package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/sharefare/internal/access"
	"github.com/mmynk/sharefare/internal/api"
	"github.com/mmynk/sharefare/internal/auth"
	"github.com/mmynk/sharefare/internal/calculator"
	"github.com/mmynk/sharefare/internal/middleware"
	"github.com/mmynk/sharefare/internal/models"
	"github.com/mmynk/sharefare/internal/storage"
)

var _ api.ShareServiceHandler = (*ShareService)(nil)

// ShareService implements the Connect ShareService
type ShareService struct {
	store storage.Store
}

// NewShareService creates a new ShareService with the given storage backend.
func NewShareService(store storage.Store) *ShareService {
	return &ShareService{store: store}
}

// callerID returns the authenticated user or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// resolveParticipants checks that every participant is a registered user
// and returns the users keyed by ID.
func resolveParticipants(ctx context.Context, store storage.Store, ids []string) (map[string]*models.User, error) {
	users, err := store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	for _, id := range ids {
		if _, ok := users[id]; !ok {
			return nil, invalidArgument("unknown participant %q", id)
		}
	}
	return users, nil
}

// CreateShare creates a share owned by the caller. The caller is always a participant.
func (s *ShareService) CreateShare(ctx context.Context, req *connect.Request[api.CreateShareRequest]) (*connect.Response[api.CreateShareResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateShare request received",
		"title", req.Msg.Title,
		"participants_count", len(req.Msg.ParticipantIDs),
	)

	title, err := validateTitle(req.Msg.Title)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	currency, err := parseCurrency(req.Msg.Currency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	share := &models.Share{
		Title:        title,
		Currency:     currency,
		CreatorID:    userID,
		Participants: req.Msg.ParticipantIDs,
	}
	share.EnsureCreator()

	users, err := resolveParticipants(ctx, s.store, share.Participants)
	if err != nil {
		return nil, err
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateShare(ctx, share); err != nil {
		slog.Error("CreateShare failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Share created", "share_id", share.ID, "creator_id", userID)

	return connect.NewResponse(&api.CreateShareResponse{
		Share: toAPIShare(share, users),
	}), nil
}

// GetShare returns the share detail view: the share, its fares and the
// caller's balance report, recomputed from stored data on every call.
func (s *ShareService) GetShare(ctx context.Context, req *connect.Request[api.GetShareRequest]) (*connect.Response[api.GetShareResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	shareID := req.Msg.ShareID
	slog.Info("GetShare request received", "share_id", shareID)

	if shareID == "" {
		return nil, invalidArgument("share_id required")
	}

	share, err := s.store.GetShare(ctx, shareID)
	if err != nil {
		slog.Error("GetShare failed", "share_id", shareID, "error", err)
		return nil, connectError(err)
	}
	if err := access.Require(access.CanViewShare(userID, share)); err != nil {
		return nil, connectError(err)
	}

	fares, err := s.store.ListFaresByShare(ctx, shareID)
	if err != nil {
		slog.Error("GetShare failed - could not list fares", "share_id", shareID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	report := calculator.CalculateReport(toBalanceFares(fares), share.Participants, userID)
	transfers := calculator.SuggestTransfers(report.Balances)

	// Former members still appear in the report, so resolve every listed ID
	ids := make([]string, len(report.Balances))
	for i, b := range report.Balances {
		ids[i] = b.MemberID
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		slog.Error("GetShare failed - could not resolve users", "share_id", shareID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("GetShare successful",
		"share_id", shareID,
		"fares_count", len(fares),
		"members_count", len(report.Balances),
		"transfers_count", len(transfers),
	)

	return connect.NewResponse(&api.GetShareResponse{
		Share:  toAPIShare(share, users),
		Fares:  toAPIFares(fares),
		Report: toAPIReport(report, transfers, users),
	}), nil
}

// ListShares lists the shares the caller created, newest first.
func (s *ShareService) ListShares(ctx context.Context, req *connect.Request[api.ListSharesRequest]) (*connect.Response[api.ListSharesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListShares request received", "include_participating", req.Msg.IncludeParticipating)

	var shares []*models.Share
	if req.Msg.IncludeParticipating {
		shares, err = s.store.ListSharesByParticipant(ctx, userID)
	} else {
		shares, err = s.store.ListSharesByCreator(ctx, userID)
	}
	if err != nil {
		slog.Error("ListShares failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	var ids []string
	for _, share := range shares {
		ids = append(ids, share.Participants...)
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		slog.Error("ListShares failed - could not resolve users", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Share, len(shares))
	for i, share := range shares {
		out[i] = toAPIShare(share, users)
	}

	slog.Info("ListShares successful", "count", len(shares))

	return connect.NewResponse(&api.ListSharesResponse{Shares: out}), nil
}

// UpdateShare replaces the title, currency and participants of a share.
// Only the creator may update; the creator stays a participant.
func (s *ShareService) UpdateShare(ctx context.Context, req *connect.Request[api.UpdateShareRequest]) (*connect.Response[api.UpdateShareResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateShare request received",
		"share_id", req.Msg.ShareID,
		"title", req.Msg.Title,
		"participants_count", len(req.Msg.ParticipantIDs),
	)

	share, err := s.store.GetShare(ctx, req.Msg.ShareID)
	if err != nil {
		slog.Error("UpdateShare failed", "share_id", req.Msg.ShareID, "error", err)
		return nil, connectError(err)
	}
	if err := access.Require(access.CanEditShare(userID, share)); err != nil {
		slog.Warn("UpdateShare denied", "share_id", share.ID, "user_id", userID)
		return nil, connectError(err)
	}

	title, err := validateTitle(req.Msg.Title)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	currency, err := parseCurrency(req.Msg.Currency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	share.Title = title
	share.Currency = currency
	share.Participants = req.Msg.ParticipantIDs
	share.EnsureCreator()

	users, err := resolveParticipants(ctx, s.store, share.Participants)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateShare(ctx, share); err != nil {
		slog.Error("UpdateShare failed", "error", err)
		return nil, connectError(err)
	}

	slog.Info("Share updated", "share_id", share.ID)

	return connect.NewResponse(&api.UpdateShareResponse{
		Share: toAPIShare(share, users),
	}), nil
}

// DeleteShare removes a share and all of its fares. Only the creator may delete.
func (s *ShareService) DeleteShare(ctx context.Context, req *connect.Request[api.DeleteShareRequest]) (*connect.Response[api.DeleteShareResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteShare request received", "share_id", req.Msg.ShareID)

	share, err := s.store.GetShare(ctx, req.Msg.ShareID)
	if err != nil {
		slog.Error("DeleteShare failed", "share_id", req.Msg.ShareID, "error", err)
		return nil, connectError(err)
	}
	if err := access.Require(access.CanEditShare(userID, share)); err != nil {
		slog.Warn("DeleteShare denied", "share_id", share.ID, "user_id", userID)
		return nil, connectError(err)
	}

	if err := s.store.DeleteShare(ctx, share.ID); err != nil {
		slog.Error("DeleteShare failed", "error", err)
		return nil, connectError(fmt.Errorf("failed to delete share: %w", err))
	}

	slog.Info("Share deleted", "share_id", share.ID)

	return connect.NewResponse(&api.DeleteShareResponse{}), nil
}
