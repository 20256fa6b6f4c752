package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/lingua-backend/internal/models"
)

// MemoryUserStore is an in-process UserStore with the same uniqueness and
// not-found semantics as MongoUserStore. Used by tests.
type MemoryUserStore struct {
	mu      sync.Mutex
	byID    map[primitive.ObjectID]models.User
	byEmail map[string]primitive.ObjectID

	// Err, when set, is returned by every operation.
	Err error
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[primitive.ObjectID]models.User),
		byEmail: make(map[string]primitive.ObjectID),
	}
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := s.byID[id]
	return &u, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.byEmail[user.Email]; ok {
		return ErrEmailTaken
	}
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.byID[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *MemoryUserStore) UpdateOnboarding(_ context.Context, id primitive.ObjectID, p models.OnboardingProfile) (*models.User, error) {
	return s.update(id, func(u *models.User) {
		u.FullName = p.FullName
		u.Bio = p.Bio
		u.NativeLanguage = p.NativeLanguage
		u.LearningLanguage = p.LearningLanguage
		u.Location = p.Location
		u.IsOnboarded = true
	})
}

func (s *MemoryUserStore) UpdateProfilePic(_ context.Context, id primitive.ObjectID, url string) (*models.User, error) {
	return s.update(id, func(u *models.User) { u.ProfilePic = url })
}

func (s *MemoryUserStore) update(id primitive.ObjectID, apply func(*models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	apply(&u)
	u.UpdatedAt = time.Now().UTC()
	s.byID[id] = u
	return &u, nil
}

// Delete removes a user; tests use it to simulate a record vanishing.
func (s *MemoryUserStore) Delete(id primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		delete(s.byEmail, u.Email)
		delete(s.byID, id)
	}
}

// Count returns the number of stored users.
func (s *MemoryUserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
