package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"photoshare/domain/core/entities"
	"photoshare/domain/core/valueobjects"
	"photoshare/domain/events"
	"photoshare/infrastructure/persistence/memory"
	"photoshare/pkg/auth"
	pkgerrors "photoshare/pkg/errors"
	"photoshare/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*AuthService, *auth.JWTService, *mocks.MockEventPublisher) {
	t.Helper()
	tokens, err := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", Issuer: "photoshare", TTL: time.Hour})
	require.NoError(t, err)

	publisher := &mocks.MockEventPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	svc := NewAuthService(memory.NewStore().Users(), auth.NewBcryptHasher(bcrypt.MinCost), tokens, publisher, nil, zap.NewNop())
	return svc, tokens, publisher
}

func TestSignUp(t *testing.T) {
	svc, _, publisher := newAuthService(t)
	ctx := context.Background()

	res, err := svc.SignUp(ctx, Credentials{Email: "  Ada@Example.com ", Password: "secret1", Name: "Ada"}, valueobjects.RoleCreator)
	require.NoError(t, err)
	assert.Equal(t, "User (Creator) registered successfully", res.Message)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.Equal(t, "creator", res.User.Role)
	assert.NotEmpty(t, res.User.ID)

	publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e events.DomainEvent) bool {
		return e.GetEventType() == events.TypeUserRegistered && e.GetAggregateID() == res.User.ID
	}))
}

func TestSignUp_DuplicateEmailIgnoresCase(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, Credentials{Email: "lin@example.com", Password: "secret1", Name: "Lin"}, valueobjects.RoleConsumer)
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, Credentials{Email: "LIN@example.com", Password: "other12", Name: "Lin 2"}, valueobjects.RoleConsumer)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, pkgerrors.StatusOf(err))
	assert.Equal(t, "User (Consumer) with this email already exists.", pkgerrors.GetAppError(err).Message)
}

func TestSignUp_Validation(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	for name, creds := range map[string]Credentials{
		"missing name":     {Email: "a@b.co", Password: "secret1"},
		"missing email":    {Password: "secret1", Name: "A"},
		"missing password": {Email: "a@b.co", Name: "A"},
		"bad email":        {Email: "not-an-email", Password: "secret1", Name: "A"},
		"short password":   {Email: "a@b.co", Password: "123", Name: "A"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.SignUp(ctx, creds, valueobjects.RoleConsumer)
			assert.Equal(t, http.StatusBadRequest, pkgerrors.StatusOf(err))
		})
	}
}

func TestSignIn(t *testing.T) {
	svc, tokens, _ := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "secret1", Name: "Ada"}, valueobjects.RoleCreator)
	require.NoError(t, err)

	res, err := svc.SignIn(ctx, Credentials{Email: "ADA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Sign-in successful.", res.Message)
	assert.Equal(t, registered.User, res.User)

	claims, err := tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, "creator", claims.Role)
	assert.Equal(t, "Ada", claims.Name)
}

func TestSignIn_Rejections(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "secret1", Name: "Ada"}, valueobjects.RoleCreator)
	require.NoError(t, err)

	tests := []struct {
		name    string
		creds   Credentials
		message string
	}{
		{"missing password", Credentials{Email: "ada@example.com"}, "Email and password are required."},
		{"unknown email", Credentials{Email: "bob@example.com", Password: "secret1"}, "Invalid email or password."},
		{"wrong password", Credentials{Email: "ada@example.com", Password: "nope123"}, "Invalid email or password."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignIn(ctx, tt.creds)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, pkgerrors.StatusOf(err))
			assert.Equal(t, tt.message, pkgerrors.GetAppError(err).Message)
		})
	}
}

type brokenUserRepository struct{ err error }

func (r *brokenUserRepository) Save(context.Context, *entities.User) error { return r.err }
func (r *brokenUserRepository) GetByEmail(context.Context, valueobjects.Email) (*entities.User, error) {
	return nil, r.err
}
func (r *brokenUserRepository) GetByID(context.Context, string) (*entities.User, error) {
	return nil, r.err
}

func TestSignIn_StoreFailureIsInternal(t *testing.T) {
	tokens, err := auth.NewJWTService(auth.JWTConfig{SecretKey: "k"})
	require.NoError(t, err)
	users := &brokenUserRepository{err: errors.New("dynamodb unavailable")}
	svc := NewAuthService(users, auth.NewBcryptHasher(bcrypt.MinCost), tokens, nil, nil, zap.NewNop())

	_, err = svc.SignIn(context.Background(), Credentials{Email: "a@b.co", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, pkgerrors.StatusOf(err))
}
