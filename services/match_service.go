package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"puttpals_server/logger"
	"puttpals_server/models"
)

var (
	ErrSelfLike      = errors.New("cannot like your own profile")
	ErrMatchNotFound = errors.New("match not found")
)

// GSI names on the matches table, one per side of the pair
const (
	matchGolferIndex      = "golfer_id-index"
	matchMatchedWithIndex = "matched_with_id-index"
)

// MatchService owns match creation and retrieval. Matching is unconditional
// mutual-like: a like creates a confirmed match immediately, there is no
// pending-approval workflow. Storage enforces no pair uniqueness, so the
// like path checks both directional orderings before inserting.
type MatchService struct {
	Dynamo    DB
	Profiles  *ProfileService
	Publisher ChangePublisher
	Push      PushSender
}

// ListMatches returns every match with userID on either side, newest first.
func (ms *MatchService) ListMatches(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match

	asGolfer, err := ms.Dynamo.QueryByField(ctx, models.MatchesTable, matchGolferIndex, "golfer_id", userID, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches: %w", err)
	}
	asMatched, err := ms.Dynamo.QueryByField(ctx, models.MatchesTable, matchMatchedWithIndex, "matched_with_id", userID, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches: %w", err)
	}

	seen := map[string]struct{}{}
	for _, item := range append(asGolfer, asMatched...) {
		var m models.Match
		if err := attributevalue.UnmarshalMap(item, &m); err != nil {
			logger.Log.Warnf("skipping unreadable match record: %v", err)
			continue
		}
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Timestamp > matches[j].Timestamp
	})
	return matches, nil
}

// ListMatchesWithProfiles returns the caller's matches with the other
// participant's profile attached. A match whose partner profile is missing
// is still returned, with a nil profile.
func (ms *MatchService) ListMatchesWithProfiles(ctx context.Context, userID string) ([]models.MatchWithProfile, error) {
	matches, err := ms.ListMatches(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.MatchWithProfile, 0, len(matches))
	for _, m := range matches {
		enriched := models.MatchWithProfile{Match: m}
		if ms.Profiles != nil {
			profile, err := ms.Profiles.GetProfile(ctx, m.OtherParticipant(userID))
			if err != nil && !errors.Is(err, ErrProfileNotFound) {
				return nil, err
			}
			enriched.Profile = profile
		}
		out = append(out, enriched)
	}
	return out, nil
}

// GetMatch retrieves a single match by id.
func (ms *MatchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: matchID},
	}
	item, err := ms.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	var m models.Match
	if err := attributevalue.UnmarshalMap(item, &m); err != nil {
		return nil, fmt.Errorf("failed to parse match: %w", err)
	}
	return &m, nil
}

// Like records a like from golferID on candidateID. The operation is
// idempotent: if a match already exists for the unordered pair, in either
// directional ordering, the existing record is returned untouched and
// created is false. Otherwise a confirmed match is inserted, both
// participants get an INSERT change event and the candidate a push
// notification.
func (ms *MatchService) Like(ctx context.Context, golferID, candidateID string) (*models.Match, bool, error) {
	if golferID == candidateID {
		return nil, false, ErrSelfLike
	}

	existing, err := ms.findPair(ctx, golferID, candidateID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	match := &models.Match{
		ID:            uuid.NewString(),
		GolferID:      golferID,
		MatchedWithID: candidateID,
		Status:        models.MatchStatusConfirmed,
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
		Read:          false,
		LastMessage:   models.DefaultMatchPreview,
	}
	if err := ms.Dynamo.PutItem(ctx, models.MatchesTable, match); err != nil {
		return nil, false, fmt.Errorf("failed to create match: %w", err)
	}
	logger.Log.Infof("match %s created between %s and %s", match.ID, golferID, candidateID)

	ms.publish(models.EventInsert, match, nil)
	if ms.Push != nil {
		payload := models.PushPayload{
			Title: "Ny matchning!",
			Body:  "Du har en ny golfpartner. Börja chatta!",
			URL:   "/matches",
		}
		if err := ms.Push.Notify(ctx, candidateID, payload); err != nil {
			logger.Log.Warnf("push notify failed for %s: %v", candidateID, err)
		}
	}

	return match, true, nil
}

// UpdatePreview replaces the match's last-message preview and timestamp and
// emits an UPDATE change event to both participants.
func (ms *MatchService) UpdatePreview(ctx context.Context, matchID, preview, timestamp string) (*models.Match, error) {
	before, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: matchID},
	}
	set := map[string]types.AttributeValue{
		"last_message": &types.AttributeValueMemberS{Value: preview},
		"timestamp":    &types.AttributeValueMemberS{Value: timestamp},
	}
	attrs, err := ms.Dynamo.UpdateItem(ctx, models.MatchesTable, key, set)
	if err != nil {
		return nil, fmt.Errorf("failed to update match preview: %w", err)
	}

	var after models.Match
	if err := attributevalue.UnmarshalMap(attrs, &after); err != nil {
		return nil, fmt.Errorf("failed to parse updated match: %w", err)
	}

	ms.publish(models.EventUpdate, &after, before)
	return &after, nil
}

// findPair looks for an existing record covering the unordered pair, via
// the caller's match list so both directional orderings are covered.
func (ms *MatchService) findPair(ctx context.Context, a, b string) (*models.Match, error) {
	matches, err := ms.ListMatches(ctx, a)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		if matches[i].SamePair(a, b) {
			return &matches[i], nil
		}
	}
	return nil, nil
}

func (ms *MatchService) publish(eventType string, newRow, oldRow *models.Match) {
	if ms.Publisher == nil {
		return
	}
	var old interface{}
	if oldRow != nil {
		old = oldRow
	}
	ev, err := models.NewChangeEvent(eventType, models.MatchesTable, newRow, old)
	if err != nil {
		logger.Log.Warnf("failed to build change event: %v", err)
		return
	}
	ms.Publisher.PublishToUser(newRow.GolferID, ev)
	ms.Publisher.PublishToUser(newRow.MatchedWithID, ev)
}
