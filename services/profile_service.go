package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"puttpals_server/models"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidProfile  = errors.New("invalid profile")
)

// ProfileService handles CRUD over golfer profiles.
type ProfileService struct {
	Dynamo DB
}

// GetProfile retrieves a profile by user id.
func (ps *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: userID},
	}
	item, err := ps.Dynamo.GetItem(ctx, models.ProfilesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var profile models.Profile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile validates and stores a full profile record. The id must match
// the authenticated user; controllers enforce that before calling in.
func (ps *ProfileService) SaveProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	if err := ps.Dynamo.PutItem(ctx, models.ProfilesTable, profile); err != nil {
		return nil, fmt.Errorf("failed to store profile: %w", err)
	}
	return profile, nil
}

func validateProfile(p *models.Profile) error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidProfile)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if p.Handicap < 0 || p.Handicap > 54 {
		return fmt.Errorf("%w: handicap must be between 0 and 54", ErrInvalidProfile)
	}
	if p.Age < 0 {
		return fmt.Errorf("%w: age cannot be negative", ErrInvalidProfile)
	}
	switch p.Gender {
	case "", models.GenderMan, models.GenderKvinna, models.GenderAnnat:
	default:
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidProfile, p.Gender)
	}
	for _, rt := range p.RoundTypes {
		if !contains(models.RoundTypes, rt) {
			return fmt.Errorf("%w: unknown round type %q", ErrInvalidProfile, rt)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
