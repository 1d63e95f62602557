package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"puttpals_server/logger"
	"puttpals_server/models"
)

var (
	// ErrInvalidBagID rejects writes against a placeholder or malformed bag
	// id before they reach storage.
	ErrInvalidBagID = errors.New("invalid bag id")
	ErrInvalidClub  = errors.New("invalid club")
	ErrBagNotFound  = errors.New("bag not found")
	// ErrNotBagOwner rejects writes into a bag that belongs to someone else.
	ErrNotBagOwner = errors.New("bag belongs to another user")
)

const (
	bagUserIndex = "user_id-index"
	clubBagIndex = "bag_id-index"
)

// EquipmentService manages the per-user golf bag and its clubs. A bag is
// created lazily on first read, so the first GetBag for a user carries the
// write latency.
type EquipmentService struct {
	Dynamo DB
}

// GetBag returns the user's bag with its clubs, creating the bag with a
// default name if none exists yet. Repeated calls return the same bag id.
func (es *EquipmentService) GetBag(ctx context.Context, userID string) (*models.GolfBag, error) {
	items, err := es.Dynamo.QueryByField(ctx, models.GolfBagsTable, bagUserIndex, "user_id", userID, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bag: %w", err)
	}

	var bag models.GolfBag
	if len(items) > 0 {
		if err := attributevalue.UnmarshalMap(items[0], &bag); err != nil {
			return nil, fmt.Errorf("failed to parse bag: %w", err)
		}
	} else {
		bag = models.GolfBag{
			ID:     uuid.NewString(),
			UserID: userID,
			Name:   models.DefaultBagName,
		}
		if err := es.Dynamo.PutItem(ctx, models.GolfBagsTable, bag); err != nil {
			return nil, fmt.Errorf("failed to create bag: %w", err)
		}
		logger.Log.Infof("created bag %s for user %s", bag.ID, userID)
	}

	clubs, err := es.clubsInBag(ctx, bag.ID)
	if err != nil {
		return nil, err
	}
	bag.Clubs = clubs
	return &bag, nil
}

// AddClub validates the target bag id and the club, checks that the bag
// belongs to the caller, then stores the club. The UI uses the sentinel id
// "new" while a real bag id is still unknown; writes carrying it fail fast
// here instead of surfacing an opaque storage error.
func (es *EquipmentService) AddClub(ctx context.Context, userID, bagID string, club models.Club) (*models.Club, error) {
	if bagID == "" || bagID == models.NewBagSentinel {
		return nil, fmt.Errorf("%w: %q is a placeholder, fetch the bag first", ErrInvalidBagID, bagID)
	}
	if _, err := uuid.Parse(bagID); err != nil {
		return nil, fmt.Errorf("%w: %q is not a well-formed identifier", ErrInvalidBagID, bagID)
	}
	if club.Brand == "" || club.Model == "" {
		return nil, fmt.Errorf("%w: brand and model are required", ErrInvalidClub)
	}
	if !contains(models.ClubTypes, club.Type) {
		return nil, fmt.Errorf("%w: unknown club type %q", ErrInvalidClub, club.Type)
	}

	bag, err := es.bagByID(ctx, bagID)
	if err != nil {
		return nil, err
	}
	if bag.UserID != userID {
		return nil, ErrNotBagOwner
	}

	club.ID = uuid.NewString()
	club.BagID = bagID
	if err := es.Dynamo.PutItem(ctx, models.ClubsTable, club); err != nil {
		return nil, fmt.Errorf("failed to store club: %w", err)
	}
	return &club, nil
}

func (es *EquipmentService) bagByID(ctx context.Context, bagID string) (*models.GolfBag, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: bagID},
	}
	item, err := es.Dynamo.GetItem(ctx, models.GolfBagsTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrBagNotFound
		}
		return nil, err
	}
	var bag models.GolfBag
	if err := attributevalue.UnmarshalMap(item, &bag); err != nil {
		return nil, fmt.Errorf("failed to parse bag: %w", err)
	}
	return &bag, nil
}

func (es *EquipmentService) clubsInBag(ctx context.Context, bagID string) ([]models.Club, error) {
	items, err := es.Dynamo.QueryByField(ctx, models.ClubsTable, clubBagIndex, "bag_id", bagID, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clubs: %w", err)
	}

	var clubs []models.Club
	if err := attributevalue.UnmarshalListOfMaps(items, &clubs); err != nil {
		return nil, fmt.Errorf("failed to parse clubs: %w", err)
	}
	if clubs == nil {
		clubs = []models.Club{}
	}
	return clubs, nil
}
