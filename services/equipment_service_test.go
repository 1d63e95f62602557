package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puttpals_server/models"
)

func TestGetBagCreatesOnceWithStableID(t *testing.T) {
	es := &EquipmentService{Dynamo: NewMemoryDB()}

	first, err := es.GetBag(context.Background(), "anna")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultBagName, first.Name)
	assert.Equal(t, "anna", first.UserID)
	require.NotNil(t, first.Clubs)
	assert.Empty(t, first.Clubs)

	second, err := es.GetBag(context.Background(), "anna")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other, err := es.GetBag(context.Background(), "bjorn")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestAddClubRejectsBadBagIDsBeforeWriting(t *testing.T) {
	es := &EquipmentService{Dynamo: NewMemoryDB()}
	club := models.Club{Brand: "Titleist", Model: "TSR3", Type: models.ClubDriver}

	for _, bagID := range []string{"", models.NewBagSentinel, "not-a-uuid"} {
		_, err := es.AddClub(context.Background(), "anna", bagID, club)
		assert.ErrorIs(t, err, ErrInvalidBagID, "bag id %q", bagID)
	}

	// Nothing reached storage.
	bag, err := es.GetBag(context.Background(), "anna")
	require.NoError(t, err)
	assert.Empty(t, bag.Clubs)
}

func TestAddClubValidatesClub(t *testing.T) {
	es := &EquipmentService{Dynamo: NewMemoryDB()}
	bagID := uuid.NewString()

	tests := []struct {
		name string
		club models.Club
	}{
		{"missing brand", models.Club{Model: "TSR3", Type: models.ClubDriver}},
		{"missing model", models.Club{Brand: "Titleist", Type: models.ClubDriver}},
		{"unknown type", models.Club{Brand: "Titleist", Model: "TSR3", Type: "Spade"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := es.AddClub(context.Background(), "anna", bagID, tt.club)
			assert.ErrorIs(t, err, ErrInvalidClub)
		})
	}
}

func TestAddClubUnknownBag(t *testing.T) {
	es := &EquipmentService{Dynamo: NewMemoryDB()}

	_, err := es.AddClub(context.Background(), "anna", uuid.NewString(), models.Club{
		Brand: "Titleist", Model: "TSR3", Type: models.ClubDriver,
	})
	assert.ErrorIs(t, err, ErrBagNotFound)
}

func TestAddClubRejectsForeignBag(t *testing.T) {
	es := &EquipmentService{Dynamo: NewMemoryDB()}

	bag, err := es.GetBag(context.Background(), "anna")
	require.NoError(t, err)

	_, err = es.AddClub(context.Background(), "bjorn", bag.ID, models.Club{
		Brand: "Callaway", Model: "Paradym", Type: models.ClubDriver,
	})
	assert.ErrorIs(t, err, ErrNotBagOwner)

	reloaded, err := es.GetBag(context.Background(), "anna")
	require.NoError(t, err)
	assert.Empty(t, reloaded.Clubs)
}

func TestAddClubStoresIntoBag(t *testing.T) {
	es := &EquipmentService{Dynamo: NewMemoryDB()}

	bag, err := es.GetBag(context.Background(), "anna")
	require.NoError(t, err)

	loft := 10.5
	saved, err := es.AddClub(context.Background(), "anna", bag.ID, models.Club{
		Brand: "Titleist",
		Model: "TSR3",
		Type:  models.ClubDriver,
		Loft:  &loft,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, bag.ID, saved.BagID)

	reloaded, err := es.GetBag(context.Background(), "anna")
	require.NoError(t, err)
	require.Len(t, reloaded.Clubs, 1)
	assert.Equal(t, saved.ID, reloaded.Clubs[0].ID)
	require.NotNil(t, reloaded.Clubs[0].Loft)
	assert.Equal(t, 10.5, *reloaded.Clubs[0].Loft)
}
