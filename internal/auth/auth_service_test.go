package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dailypizza/pizza-orders-api/internal/models"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Account{})
	require.NoError(t, err)

	return db
}

func TestSignUpCreatesAndSignsIn(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := NewAuthService(db, "test-jwt-secret-key-32-characters")

	id, err := svc.SignUp("Test User", "test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, id.UID)
	assert.Equal(t, "customer", id.Role)

	current := svc.Current()
	require.NotNil(t, current)
	assert.Equal(t, id.UID, current.UID)
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := NewAuthService(db, "test-jwt-secret-key-32-characters")

	_, err := svc.SignUp("Test User", "test@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.SignUp("Other User", "test@example.com", "different456")
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestSignInVerifiesCredentials(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := NewAuthService(db, "test-jwt-secret-key-32-characters")

	_, err := svc.SignUp("Test User", "test@example.com", "password123")
	require.NoError(t, err)
	svc.SignOut()

	_, err = svc.SignIn("test@example.com", "wrong")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.SignIn("unknown@example.com", "password123")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	id, err := svc.SignIn("test@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", id.Email)
}

func TestSignOutClearsIdentity(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := NewAuthService(db, "test-jwt-secret-key-32-characters")

	_, err := svc.SignUp("Test User", "test@example.com", "password123")
	require.NoError(t, err)

	svc.SignOut()
	assert.Nil(t, svc.Current())
}

func TestOnChangeHandlersRunInOrder(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := NewAuthService(db, "test-jwt-secret-key-32-characters")

	var calls []string
	svc.OnChange(func(id *Identity) {
		if id == nil {
			calls = append(calls, "first:out")
		} else {
			calls = append(calls, "first:in")
		}
	})
	svc.OnChange(func(id *Identity) {
		if id == nil {
			calls = append(calls, "second:out")
		} else {
			calls = append(calls, "second:in")
		}
	})

	_, err := svc.SignUp("Test User", "test@example.com", "password123")
	require.NoError(t, err)
	svc.SignOut()

	assert.Equal(t, []string{"first:in", "second:in", "first:out", "second:out"}, calls)
}

func TestIssueTokenCarriesIdentityClaims(t *testing.T) {
	db := setupAuthTestDB(t)
	secret := "test-jwt-secret-key-32-characters"
	svc := NewAuthService(db, secret)

	id, err := svc.SignUp("Test User", "test@example.com", "password123")
	require.NoError(t, err)

	tokenString, expiresIn, err := svc.IssueToken(id)
	require.NoError(t, err)
	assert.Equal(t, int64(86400), expiresIn)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, id.UID, claims["uid"])
	assert.Equal(t, "customer", claims["role"])
}
