package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"puttpals_server/logger"
	"puttpals_server/models"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	// ErrInvalidToken covers malformed, expired and revoked tokens. Clients
	// receiving it should clear any cached token.
	ErrInvalidToken = errors.New("invalid or expired session token")
)

// SessionStore tracks live session ids (jti) so tokens can be revoked
// before their expiry. Backed by redis in production.
type SessionStore interface {
	Put(ctx context.Context, jti, userID string, ttl time.Duration) error
	Get(ctx context.Context, jti string) (string, error)
	Delete(ctx context.Context, jti string) error
}

// AuthService implements the auth sub-service: session issuance, refresh
// and revocation over credential records in the users table.
type AuthService struct {
	Dynamo   DB
	Sessions SessionStore
	Secret   []byte
	TokenTTL time.Duration
}

// Session is what a successful sign-in or sign-up hands back to the client.
type Session struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	AccessToken string `json:"accessToken"`
	ExpiresAt   string `json:"expiresAt"`
}

// SignUp registers a new user and creates the minimal default profile the
// completion step fills in later.
func (as *AuthService) SignUp(ctx context.Context, email, password string) (*Session, error) {
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	key := map[string]types.AttributeValue{
		"email": &types.AttributeValueMemberS{Value: email},
	}
	if _, err := as.Dynamo.GetItem(ctx, models.UsersTable, key); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrItemNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		UserID:       uuid.NewString(),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := as.Dynamo.PutItem(ctx, models.UsersTable, user); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}

	profile := models.Profile{
		ID:         user.UserID,
		Handicap:   models.DefaultHandicap,
		RoundTypes: []string{models.RoundSallskapsrunda},
	}
	if err := as.Dynamo.PutItem(ctx, models.ProfilesTable, profile); err != nil {
		return nil, fmt.Errorf("failed to store default profile: %w", err)
	}

	logger.Log.Infof("registered user %s", user.UserID)
	return as.issueSession(ctx, &user)
}

// SignIn verifies credentials and issues a fresh session. A credential
// mismatch is reported as ErrInvalidCredentials, never as a server fault.
func (as *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := as.getUser(ctx, email)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return as.issueSession(ctx, user)
}

// SignOut revokes the session carried by the token. Revoking an already
// dead token is a no-op.
func (as *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := as.parseToken(token)
	if err != nil {
		return nil
	}
	if err := as.Sessions.Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// ValidateSession checks signature, expiry and liveness of a token and
// returns the authenticated user id.
func (as *AuthService) ValidateSession(ctx context.Context, token string) (string, error) {
	claims, err := as.parseToken(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	userID, err := as.Sessions.Get(ctx, claims.ID)
	if err != nil || userID != claims.Subject {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func (as *AuthService) getUser(ctx context.Context, email string) (*models.User, error) {
	key := map[string]types.AttributeValue{
		"email": &types.AttributeValueMemberS{Value: email},
	}
	item, err := as.Dynamo.GetItem(ctx, models.UsersTable, key)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return nil, fmt.Errorf("failed to parse user record: %w", err)
	}
	return &user, nil
}

func (as *AuthService) issueSession(ctx context.Context, user *models.User) (*Session, error) {
	jti := uuid.NewString()
	expiresAt := time.Now().Add(as.TokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   user.UserID,
		ID:        jti,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if err := as.Sessions.Put(ctx, jti, user.UserID, as.TokenTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &Session{
		UserID:      user.UserID,
		Email:       user.Email,
		AccessToken: token,
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

func (as *AuthService) parseToken(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return as.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
