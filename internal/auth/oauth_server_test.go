package auth

import (
	"context"
	"testing"

	"github.com/go-oauth2/oauth2/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dailypizza/pizza-orders-api/internal/models"
)

func setupOAuthTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Account{}, &models.OAuthClient{}, &models.OAuthToken{})
	require.NoError(t, err)

	return db
}

func createTestClient(t *testing.T, db *gorm.DB, uid string) (string, string) {
	plainSecret := "test_secret"
	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(plainSecret), bcrypt.DefaultCost)
	require.NoError(t, err)

	client := &models.OAuthClient{
		ID:         "test_client",
		Secret:     string(hashedSecret),
		Name:       "Test Client",
		Domain:     "http://localhost",
		Scopes:     "read,write",
		UserID:     uid,
		GrantTypes: "client_credentials",
	}
	require.NoError(t, db.Create(client).Error)
	return client.ID, plainSecret
}

func TestOAuthServerInitialization(t *testing.T) {
	db := setupOAuthTestDB(t)

	oauthService := NewOAuthService(db, "test-jwt-secret-key-32-characters")
	assert.NotNil(t, oauthService)
	assert.NotNil(t, oauthService.GetServer())
}

func TestClientCredentialsTokenCarriesAccountClaims(t *testing.T) {
	db := setupOAuthTestDB(t)
	secret := "test-jwt-secret-key-32-characters"
	oauthService := NewOAuthService(db, secret)

	account := &models.Account{
		UID:          "uid-oauth-1",
		Email:        "service@example.com",
		PasswordHash: "irrelevant",
		Name:         "Service Account",
		Role:         "admin",
	}
	require.NoError(t, db.Create(account).Error)

	clientID, clientSecret := createTestClient(t, db, account.UID)

	ctx := context.Background()
	tokenInfo, err := oauthService.GetServer().Manager.GenerateAccessToken(ctx, oauth2.ClientCredentials, &oauth2.TokenGenerateRequest{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scope:        "read,write",
	})
	require.NoError(t, err)
	require.NotNil(t, tokenInfo)
	require.NotEmpty(t, tokenInfo.GetAccess())

	token, err := jwt.Parse(tokenInfo.GetAccess(), func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "uid-oauth-1", claims["uid"])
	assert.Equal(t, "admin", claims["role"], "role comes from the account store")
	assert.Equal(t, "test_client", claims["aud"])
}

func TestTokenGenerationRejectsUnknownAccount(t *testing.T) {
	db := setupOAuthTestDB(t)
	oauthService := NewOAuthService(db, "test-jwt-secret-key-32-characters")

	// Client bound to an account that does not exist.
	clientID, clientSecret := createTestClient(t, db, "ghost-uid")

	_, err := oauthService.GetServer().Manager.GenerateAccessToken(context.Background(), oauth2.ClientCredentials, &oauth2.TokenGenerateRequest{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scope:        "read,write",
	})
	assert.Error(t, err)
}

func TestClientStoreIntegration(t *testing.T) {
	db := setupOAuthTestDB(t)

	client := &models.OAuthClient{
		ID:     "integration_test_client",
		Secret: "integration_test_secret",
		Name:   "Integration Client",
		Domain: "http://localhost:8080",
		Scopes: "read,write",
	}
	require.NoError(t, db.Create(client).Error)

	store := NewGormClientStore(db)
	loaded, err := store.GetByID(context.Background(), "integration_test_client")
	require.NoError(t, err)
	assert.Equal(t, "integration_test_client", loaded.GetID())
	assert.Equal(t, "http://localhost:8080", loaded.GetDomain())
}
