package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/lingua-backend/pkg/utils"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Email    string `bson:"email" json:"email"`
	FullName string `bson:"fullName" json:"fullName"`
	// Password holds the Argon2id hash, never the plaintext. It is still
	// serialized on signup/login responses; see DESIGN.md before changing.
	Password string `bson:"password" json:"password,omitempty"`

	ProfilePic       string `bson:"profilePic" json:"profilePic"`
	Bio              string `bson:"bio" json:"bio"`
	NativeLanguage   string `bson:"nativeLanguage" json:"nativeLanguage"`
	LearningLanguage string `bson:"learningLanguage" json:"learningLanguage"`
	Location         string `bson:"location" json:"location"`
	IsOnboarded      bool   `bson:"isOnboarded" json:"isOnboarded"`
}

// MatchPassword verifies a plaintext password against the stored hash.
func (u *User) MatchPassword(password string) (bool, error) {
	return utils.VerifyPassword(password, u.Password)
}

// Redacted returns a copy without the password hash.
func (u User) Redacted() User {
	u.Password = ""
	return u
}

// OnboardingProfile is the set of fields written by onboarding.
type OnboardingProfile struct {
	FullName         string
	Bio              string
	NativeLanguage   string
	LearningLanguage string
	Location         string
}
