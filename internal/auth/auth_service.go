package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dailypizza/pizza-orders-api/internal/models"
)

// ErrAccountExists is returned when a signup reuses a registered email.
var ErrAccountExists = errors.New("account already exists")

// Identity is the opaque authenticated-user handle issued by the provider.
type Identity struct {
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthService is the identity provider: it owns credential verification,
// token issuance and the stream of identity-change events the
// state-synchronization services subscribe to.
//
// Events are delivered synchronously in subscription order, so every handler
// runs to completion before the transition is considered settled.
type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
	tokenTTL  time.Duration

	mu          sync.RWMutex
	current     *Identity
	subscribers []func(*Identity)
}

// NewAuthService creates the identity provider over the local account store.
func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
	}
}

// SignUp registers a new account and signs it in.
func (s *AuthService) SignUp(name, email, password string) (*Identity, error) {
	var existing models.Account
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.Account{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         "customer",
	}
	if err := s.db.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	log.WithField("uid", account.UID).Info("Account created")
	return s.setCurrent(&account), nil
}

// SignIn verifies credentials and makes the account the active identity.
// Returns models.ErrUnauthorized on unknown email or wrong password.
func (s *AuthService) SignIn(email, password string) (*Identity, error) {
	var account models.Account
	if err := s.db.Where("email = ?", email).First(&account).Error; err != nil {
		return nil, models.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrUnauthorized
	}
	return s.setCurrent(&account), nil
}

// SignOut clears the active identity and notifies subscribers.
func (s *AuthService) SignOut() {
	s.mu.Lock()
	s.current = nil
	subs := s.subscribers
	s.mu.Unlock()

	log.Info("Identity signed out")
	for _, fn := range subs {
		fn(nil)
	}
}

// Current returns the active identity, or nil when signed out.
func (s *AuthService) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	id := *s.current
	return &id
}

// OnChange registers a handler for identity transitions. Handlers are called
// with the new identity on sign-in and nil on sign-out.
func (s *AuthService) OnChange(fn func(*Identity)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// IssueToken signs a bearer token for the given identity.
func (s *AuthService) IssueToken(id *Identity) (string, int64, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"uid":  id.UID,
		"role": id.Role,
		"exp":  now.Add(s.tokenTTL).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, int64(s.tokenTTL.Seconds()), nil
}

func (s *AuthService) setCurrent(account *models.Account) *Identity {
	id := &Identity{
		UID:   account.UID,
		Name:  account.Name,
		Email: account.Email,
		Role:  account.Role,
	}

	s.mu.Lock()
	s.current = id
	subs := s.subscribers
	s.mu.Unlock()

	log.WithField("uid", id.UID).Info("Identity signed in")
	for _, fn := range subs {
		fn(id)
	}

	out := *id
	return &out
}
