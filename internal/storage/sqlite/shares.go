package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharefare/internal/models"
)

// CreateShare persists a new share and its participants.
func (s *SQLiteStore) CreateShare(ctx context.Context, share *models.Share) error {
	// Generate ID if not set
	if share.ID == "" {
		share.ID = uuid.New().String()
	}
	if share.CreatedAt == 0 {
		share.CreatedAt = time.Now().Unix()
	}
	if share.Currency == "" {
		share.Currency = models.DefaultCurrency
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO shares (id, title, currency, creator_id, created_at) VALUES (?, ?, ?, ?, ?)",
		share.ID, share.Title, string(share.Currency), share.CreatorID, share.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert share: %w", err)
	}

	if err := insertParticipants(ctx, tx, share.ID, share.Participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetShare retrieves a share by ID, including its participants.
func (s *SQLiteStore) GetShare(ctx context.Context, shareID string) (*models.Share, error) {
	share := &models.Share{}
	var currency string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, currency, creator_id, created_at FROM shares WHERE id = ?",
		shareID,
	).Scan(&share.ID, &share.Title, &currency, &share.CreatorID, &share.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("share", shareID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	share.Currency = models.Currency(currency)

	share.Participants, err = s.participants(ctx, shareID)
	if err != nil {
		return nil, err
	}

	return share, nil
}

// ListSharesByCreator retrieves the shares a user created, newest first.
func (s *SQLiteStore) ListSharesByCreator(ctx context.Context, creatorID string) ([]*models.Share, error) {
	return s.listShares(ctx,
		`SELECT id, title, currency, creator_id, created_at FROM shares
		 WHERE creator_id = ? ORDER BY created_at DESC, rowid DESC`,
		creatorID,
	)
}

// ListSharesByParticipant retrieves the shares a user belongs to, newest first.
func (s *SQLiteStore) ListSharesByParticipant(ctx context.Context, userID string) ([]*models.Share, error) {
	return s.listShares(ctx,
		`SELECT s.id, s.title, s.currency, s.creator_id, s.created_at FROM shares s
		 JOIN share_participants p ON p.share_id = s.id
		 WHERE p.user_id = ? ORDER BY s.created_at DESC, s.rowid DESC`,
		userID,
	)
}

func (s *SQLiteStore) listShares(ctx context.Context, query string, args ...any) ([]*models.Share, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}

	var shares []*models.Share
	for rows.Next() {
		share := &models.Share{}
		var currency string
		if err := rows.Scan(&share.ID, &share.Title, &currency, &share.CreatorID, &share.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		share.Currency = models.Currency(currency)
		shares = append(shares, share)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	for _, share := range shares {
		if share.Participants, err = s.participants(ctx, share.ID); err != nil {
			return nil, err
		}
	}

	return shares, nil
}

// UpdateShare replaces a share's editable fields and participant list.
func (s *SQLiteStore) UpdateShare(ctx context.Context, share *models.Share) error {
	if share.Currency == "" {
		share.Currency = models.DefaultCurrency
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE shares SET title = ?, currency = ? WHERE id = ?",
		share.Title, string(share.Currency), share.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update share: %w", err)
	}
	if err := requireAffected(res, "share", share.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM share_participants WHERE share_id = ?", share.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if err := insertParticipants(ctx, tx, share.ID, share.Participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteShare removes a share. Participants, fares and splits cascade.
func (s *SQLiteStore) DeleteShare(ctx context.Context, shareID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM shares WHERE id = ?", shareID)
	if err != nil {
		return fmt.Errorf("failed to delete share: %w", err)
	}
	return requireAffected(res, "share", shareID)
}

// GetParticipants returns the participant IDs of a share in stored order.
func (s *SQLiteStore) GetParticipants(ctx context.Context, shareID string) ([]string, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM shares WHERE id = ?", shareID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("share", shareID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check share existence: %w", err)
	}

	return s.participants(ctx, shareID)
}

func (s *SQLiteStore) participants(ctx context.Context, shareID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM share_participants WHERE share_id = ? ORDER BY position",
		shareID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return ids, nil
}

func insertParticipants(ctx context.Context, tx execer, shareID string, userIDs []string) error {
	for i, userID := range userIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO share_participants (share_id, user_id, position) VALUES (?, ?, ?)",
			shareID, userID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	return nil
}
