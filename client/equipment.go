package client

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"puttpals_server/models"
)

// ErrInvalidClubInput flags bag/club input rejected before any network
// traffic.
var ErrInvalidClubInput = errors.New("invalid club input")

// ValidateBagID rejects placeholder and malformed bag ids before any
// network traffic. Mirrors the backend's pre-write check so a bad id is
// caught on whichever side sees it first.
func ValidateBagID(bagID string) error {
	if bagID == "" {
		return fmt.Errorf("%w: empty bag id", ErrInvalidClubInput)
	}
	if bagID == models.NewBagSentinel {
		return fmt.Errorf("%w: bag id %q is a placeholder, load the bag first", ErrInvalidClubInput, bagID)
	}
	if _, err := uuid.Parse(bagID); err != nil {
		return fmt.Errorf("%w: bag id %q is not a valid id", ErrInvalidClubInput, bagID)
	}
	return nil
}

// ValidateClub rejects clubs that would fail server-side validation.
func ValidateClub(club models.Club) error {
	if club.Brand == "" || club.Model == "" {
		return fmt.Errorf("%w: brand and model are required", ErrInvalidClubInput)
	}
	if !models.IsValidClubType(club.Type) {
		return fmt.Errorf("%w: unknown club type %q", ErrInvalidClubInput, club.Type)
	}
	return nil
}
