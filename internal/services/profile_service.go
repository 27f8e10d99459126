package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/dailypizza/pizza-orders-api/internal/auth"
	"github.com/dailypizza/pizza-orders-api/internal/models"
	"github.com/dailypizza/pizza-orders-api/internal/store"
)

// ProfileUpdate carries the profile fields a partial update may change. Nil
// pointers leave the stored field untouched.
type ProfileUpdate struct {
	Name            *string `json:"name"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	Bio             *string `json:"bio"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// ProfileService owns the profile document for the active identity, the
// favorites list embedded in it, the theme preference, and feedback
// submission. On sign-in it ensures the profile document exists and absorbs
// any locally cached profile fragments.
type ProfileService struct {
	store store.DocumentStore
	cache store.KeyValueStore
	ids   IdentityProvider

	mu      sync.Mutex
	profile *models.User
}

// NewProfileService creates the profile state and subscribes it to identity
// transitions.
func NewProfileService(docs store.DocumentStore, cache store.KeyValueStore, ids IdentityProvider) *ProfileService {
	s := &ProfileService{
		store: docs,
		cache: cache,
		ids:   ids,
	}
	ids.OnChange(s.handleIdentityChange)
	return s
}

func (s *ProfileService) handleIdentityChange(id *auth.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == nil {
		s.profile = nil
		return
	}
	s.ensureProfileLocked(context.Background(), id)
}

// ensureProfileLocked loads the profile document, creating it on first
// sign-in, then folds in any locally cached favorites and profile fields.
func (s *ProfileService) ensureProfileLocked(ctx context.Context, id *auth.Identity) {
	var profile models.User
	err := s.store.Get(ctx, store.CollectionUsers, id.UID, &profile)
	switch {
	case err == nil:
		// Existing profile.
	case errors.Is(err, store.ErrNotFound):
		profile = models.User{
			UID:       id.UID,
			Name:      id.Name,
			Email:     id.Email,
			Role:      id.Role,
			Favorites: []int{},
			CreatedAt: time.Now(),
		}
		if err := s.store.Set(ctx, store.CollectionUsers, id.UID, profile); err != nil {
			log.WithError(err).Error("Failed to create profile document")
			s.profile = &profile
			return
		}
		log.WithField("uid", id.UID).Info("Created profile document")
	default:
		log.WithError(err).Error("Failed to load profile, using identity fields")
		profile = models.User{UID: id.UID, Name: id.Name, Email: id.Email, Role: id.Role, Favorites: []int{}}
		s.profile = &profile
		return
	}

	if profile.Favorites == nil {
		profile.Favorites = []int{}
	}
	s.profile = &profile
	s.migrateLocalLocked(ctx, id.UID)
}

// migrateLocalLocked pushes locally cached favorites and profile fields into
// the remote document, deleting each key after a successful merge. A failed
// merge keeps the key so the next sign-in retries.
func (s *ProfileService) migrateLocalLocked(ctx context.Context, uid string) {
	if raw, err := s.cache.Get(store.KeyFavorites); err == nil {
		var favorites []int
		if err := json.Unmarshal([]byte(raw), &favorites); err != nil {
			log.WithError(err).Error("Failed to decode local favorites, dropping them")
			s.deleteKey(store.KeyFavorites)
		} else if len(favorites) > 0 {
			merged := mergeFavorites(s.profile.Favorites, favorites)
			err := s.store.Merge(ctx, store.CollectionUsers, uid, map[string]interface{}{
				"favorites": merged,
			})
			if err != nil {
				log.WithError(err).Error("Failed to migrate local favorites")
			} else {
				s.profile.Favorites = merged
				s.deleteKey(store.KeyFavorites)
				log.WithField("count", len(favorites)).Info("Migrated local favorites")
			}
		} else {
			s.deleteKey(store.KeyFavorites)
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		log.WithError(err).Error("Failed to read local favorites for migration")
	}

	if raw, err := s.cache.Get(store.KeyProfile); err == nil {
		var fields map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			log.WithError(err).Error("Failed to decode local profile, dropping it")
			s.deleteKey(store.KeyProfile)
		} else if len(fields) > 0 {
			// Identity-owned fields never come from the local fragment.
			delete(fields, "uid")
			delete(fields, "email")
			delete(fields, "role")
			if err := s.store.Merge(ctx, store.CollectionUsers, uid, fields); err != nil {
				log.WithError(err).Error("Failed to migrate local profile fields")
			} else {
				s.applyFieldsLocked(fields)
				s.deleteKey(store.KeyProfile)
				log.Info("Migrated local profile fields")
			}
		} else {
			s.deleteKey(store.KeyProfile)
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		log.WithError(err).Error("Failed to read local profile for migration")
	}
}

func (s *ProfileService) deleteKey(key string) {
	if err := s.cache.Delete(key); err != nil {
		log.WithError(err).WithField("key", key).Error("Failed to delete local cache key")
	}
}

func (s *ProfileService) applyFieldsLocked(fields map[string]interface{}) {
	for k, v := range fields {
		val, ok := v.(string)
		if !ok {
			continue
		}
		switch k {
		case "name":
			s.profile.Name = val
		case "phone":
			s.profile.Phone = val
		case "address":
			s.profile.Address = val
		case "bio":
			s.profile.Bio = val
		case "profileImageUrl":
			s.profile.ProfileImageURL = val
		}
	}
}

// mergeFavorites unions remote and local favorites, remote order first.
func mergeFavorites(remote, local []int) []int {
	seen := make(map[int]bool, len(remote)+len(local))
	out := make([]int, 0, len(remote)+len(local))
	for _, id := range remote {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range local {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Get returns the profile for the active identity.
func (s *ProfileService) Get() (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil, models.ErrAuthRequired
	}
	out := *s.profile
	return &out, nil
}

// Update merges the provided fields into the profile document.
func (s *ProfileService) Update(ctx context.Context, update ProfileUpdate) (*models.User, error) {
	id := s.ids.Current()
	if id == nil {
		return nil, models.ErrAuthRequired
	}

	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Phone != nil {
		fields["phone"] = *update.Phone
	}
	if update.Address != nil {
		fields["address"] = *update.Address
	}
	if update.Bio != nil {
		fields["bio"] = *update.Bio
	}
	if update.ProfileImageURL != nil {
		fields["profileImageUrl"] = *update.ProfileImageURL
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(fields) == 0 {
		if s.profile == nil {
			return nil, models.ErrAuthRequired
		}
		out := *s.profile
		return &out, nil
	}

	if err := s.store.Merge(ctx, store.CollectionUsers, id.UID, fields); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrRemoteUnavailable, err)
	}

	if s.profile == nil {
		s.profile = &models.User{UID: id.UID, Email: id.Email, Role: id.Role, Favorites: []int{}}
	}
	s.applyFieldsLocked(fields)
	out := *s.profile
	return &out, nil
}

// Favorites returns the favorite pizza ids for the active identity.
func (s *ProfileService) Favorites() ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil, models.ErrAuthRequired
	}
	out := make([]int, len(s.profile.Favorites))
	copy(out, s.profile.Favorites)
	return out, nil
}

// ToggleFavorite adds the pizza id to the favorites list, or removes it when
// already present. Returns the updated list.
func (s *ProfileService) ToggleFavorite(ctx context.Context, pizzaID int) ([]int, error) {
	id := s.ids.Current()
	if id == nil {
		return nil, models.ErrAuthRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil, models.ErrAuthRequired
	}

	favorites := make([]int, 0, len(s.profile.Favorites)+1)
	found := false
	for _, f := range s.profile.Favorites {
		if f == pizzaID {
			found = true
			continue
		}
		favorites = append(favorites, f)
	}
	if !found {
		favorites = append(favorites, pizzaID)
	}

	err := s.store.Merge(ctx, store.CollectionUsers, id.UID, map[string]interface{}{
		"favorites": favorites,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrRemoteUnavailable, err)
	}

	s.profile.Favorites = favorites
	out := make([]int, len(favorites))
	copy(out, favorites)
	return out, nil
}

// Theme returns the stored theme preference, defaulting to "light".
func (s *ProfileService) Theme() string {
	raw, err := s.cache.Get(store.KeyTheme)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.WithError(err).Error("Failed to read theme preference")
		}
		return "light"
	}
	if raw != "dark" && raw != "light" {
		return "light"
	}
	return raw
}

// SetTheme stores the theme preference locally. The theme is a device
// preference and never syncs remotely.
func (s *ProfileService) SetTheme(theme string) error {
	if theme != "dark" && theme != "light" {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.cache.Set(store.KeyTheme, theme)
}

// SubmitFeedback records a rating and comment: remotely when an identity is
// present, appended to the local feedback key when not.
func (s *ProfileService) SubmitFeedback(ctx context.Context, rating int, comment string) (*models.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	fb := models.Feedback{
		ID:        uuid.NewString(),
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}

	if id := s.ids.Current(); id != nil {
		fb.UserID = id.UID
		if err := s.store.Set(ctx, store.CollectionFeedback, fb.ID, fb); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrRemoteUnavailable, err)
		}
		return &fb, nil
	}

	var pending []models.Feedback
	if raw, err := s.cache.Get(store.KeyFeedback); err == nil {
		if err := json.Unmarshal([]byte(raw), &pending); err != nil {
			log.WithError(err).Error("Failed to decode local feedback, starting over")
			pending = nil
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	pending = append(pending, fb)
	raw, err := json.Marshal(pending)
	if err != nil {
		return nil, fmt.Errorf("failed to encode feedback: %w", err)
	}
	if err := s.cache.Set(store.KeyFeedback, string(raw)); err != nil {
		return nil, err
	}
	return &fb, nil
}
