// Package access decides who may view or change shares and fares.
package access

import (
	"errors"

	"github.com/mmynk/sharefare/internal/models"
)

// ErrForbidden is returned when a user lacks the capability for an operation.
var ErrForbidden = errors.New("permission denied")

// CanViewShare reports whether the user may see the share and its balances.
// The creator and any participant may.
func CanViewShare(userID string, share *models.Share) bool {
	if userID == "" || share == nil {
		return false
	}
	return share.CreatorID == userID || share.HasParticipant(userID)
}

// CanEditShare reports whether the user may change or delete the share.
// Only the creator may.
func CanEditShare(userID string, share *models.Share) bool {
	return userID != "" && share != nil && share.CreatorID == userID
}

// CanAddFare reports whether the user may record a fare in the share.
func CanAddFare(userID string, share *models.Share) bool {
	return userID != "" && share != nil && share.HasParticipant(userID)
}

// CanEditFare reports whether the user may change or delete the fare.
// Only the creator of the owning share may.
func CanEditFare(userID string, share *models.Share, fare *models.Fare) bool {
	if fare == nil || share == nil || fare.ShareID != share.ID {
		return false
	}
	return CanEditShare(userID, share)
}

// Require turns a capability check into an error.
func Require(allowed bool) error {
	if !allowed {
		return ErrForbidden
	}
	return nil
}
