package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/sharefare/internal/models"
)

const fareColumns = `id, share_id, name, amount, date, category, paid_by, created_at`

// CreateFare persists a new fare and its split.
func (s *SQLiteStore) CreateFare(ctx context.Context, fare *models.Fare) error {
	// Generate ID if not set
	if fare.ID == "" {
		fare.ID = uuid.New().String()
	}
	if fare.CreatedAt == 0 {
		fare.CreatedAt = time.Now().Unix()
	}
	if fare.Category == "" {
		fare.Category = models.DefaultCategory
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO fares (`+fareColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		fare.ID, fare.ShareID, fare.Name, fare.Amount.String(), fare.Date.Format(models.DateLayout),
		string(fare.Category), fare.PaidBy, fare.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fare: %w", err)
	}

	if err := insertSplit(ctx, tx, fare.ID, fare.SplitBetween); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetFare retrieves a fare by ID, including its split.
func (s *SQLiteStore) GetFare(ctx context.Context, fareID string) (*models.Fare, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+fareColumns+` FROM fares WHERE id = ?`, fareID)

	fare, err := scanFare(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("fare", fareID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fare: %w", err)
	}

	splits, err := s.splits(ctx, []string{fare.ID})
	if err != nil {
		return nil, err
	}
	fare.SplitBetween = splits[fare.ID]

	return fare, nil
}

// ListFaresByShare retrieves all fares of a share, most recent date first.
// Fares on the same day are ordered newest recorded first.
func (s *SQLiteStore) ListFaresByShare(ctx context.Context, shareID string) ([]*models.Fare, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fareColumns+` FROM fares WHERE share_id = ?
		 ORDER BY date DESC, created_at DESC, rowid DESC`,
		shareID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fares by share: %w", err)
	}

	var fares []*models.Fare
	var ids []string
	for rows.Next() {
		fare, err := scanFare(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan fare: %w", err)
		}
		fares = append(fares, fare)
		ids = append(ids, fare.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fares: %w", err)
	}

	splits, err := s.splits(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, fare := range fares {
		fare.SplitBetween = splits[fare.ID]
	}

	return fares, nil
}

// UpdateFare replaces every editable field of a fare, including its split.
func (s *SQLiteStore) UpdateFare(ctx context.Context, fare *models.Fare) error {
	if fare.Category == "" {
		fare.Category = models.DefaultCategory
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE fares SET name = ?, amount = ?, date = ?, category = ?, paid_by = ? WHERE id = ?",
		fare.Name, fare.Amount.String(), fare.Date.Format(models.DateLayout),
		string(fare.Category), fare.PaidBy, fare.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fare: %w", err)
	}
	if err := requireAffected(res, "fare", fare.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM fare_splits WHERE fare_id = ?", fare.ID); err != nil {
		return fmt.Errorf("failed to clear split: %w", err)
	}
	if err := insertSplit(ctx, tx, fare.ID, fare.SplitBetween); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteFare removes a fare by ID. Its split cascades.
func (s *SQLiteStore) DeleteFare(ctx context.Context, fareID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM fares WHERE id = ?", fareID)
	if err != nil {
		return fmt.Errorf("failed to delete fare: %w", err)
	}
	return requireAffected(res, "fare", fareID)
}

// splits loads the split members of the given fares, keyed by fare ID.
func (s *SQLiteStore) splits(ctx context.Context, fareIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(fareIDs))
	if len(fareIDs) == 0 {
		return out, nil
	}

	args := make([]any, len(fareIDs))
	for i, id := range fareIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT fare_id, user_id FROM fare_splits WHERE fare_id IN (`+placeholders(len(fareIDs))+`)
		 ORDER BY fare_id, position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get fare splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fareID, userID string
		if err := rows.Scan(&fareID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan fare split: %w", err)
		}
		out[fareID] = append(out[fareID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fare splits: %w", err)
	}

	return out, nil
}

func insertSplit(ctx context.Context, tx execer, fareID string, userIDs []string) error {
	for i, userID := range userIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO fare_splits (fare_id, user_id, position) VALUES (?, ?, ?)",
			fareID, userID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert fare split: %w", err)
		}
	}
	return nil
}

func scanFare(row scanner) (*models.Fare, error) {
	fare := &models.Fare{}
	var amount, date, category string
	if err := row.Scan(&fare.ID, &fare.ShareID, &fare.Name, &amount, &date, &category,
		&fare.PaidBy, &fare.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if fare.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	if fare.Date, err = time.Parse(models.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid stored date %q: %w", date, err)
	}
	fare.Category = models.Category(category)

	return fare, nil
}
