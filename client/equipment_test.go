package client

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"puttpals_server/models"
)

func TestValidateBagID(t *testing.T) {
	tests := []struct {
		name    string
		bagID   string
		wantErr bool
	}{
		{"valid uuid", uuid.NewString(), false},
		{"empty", "", true},
		{"placeholder sentinel", models.NewBagSentinel, true},
		{"malformed", "bag-123", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBagID(tt.bagID)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClubInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateClub(t *testing.T) {
	loft := 56.0
	assert.NoError(t, ValidateClub(models.Club{
		Brand: "Cleveland", Model: "RTX6", Type: models.ClubWedge, Loft: &loft,
	}))

	assert.ErrorIs(t, ValidateClub(models.Club{Model: "RTX6", Type: models.ClubWedge}), ErrInvalidClubInput)
	assert.ErrorIs(t, ValidateClub(models.Club{Brand: "Cleveland", Type: models.ClubWedge}), ErrInvalidClubInput)
	assert.ErrorIs(t, ValidateClub(models.Club{Brand: "Cleveland", Model: "RTX6", Type: "Spade"}), ErrInvalidClubInput)
}
