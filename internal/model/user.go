package model

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is an employee account. Live usernames and emails are unique.
type User struct {
	BaseModel
	Username       string  `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_username,where:deleted_at IS NULL" json:"username"`
	Password       string  `gorm:"type:varchar(255);not null" json:"-"`
	Name           string  `gorm:"type:varchar(255);not null" json:"name"`
	Email          string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email,where:deleted_at IS NULL" json:"email"`
	Phone          string  `gorm:"type:varchar(30);not null" json:"phone"`
	Address        string  `gorm:"type:text;not null" json:"address"`
	Role           string  `gorm:"type:varchar(50);not null" json:"role"`
	ProfilePicture *string `gorm:"type:text" json:"profile_picture"`
}

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// HashPassword returns the bcrypt hash of password. A cost outside bcrypt's
// range falls back to the default.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string, cost int) error {
	hashed, err := HashPassword(password, cost)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// HasHashedPassword reports whether the stored value is a bcrypt hash.
func (u *User) HasHashedPassword() bool {
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(u.Password, p) {
			return true
		}
	}
	return false
}

// CheckPassword verifies password against the stored value. Rows created before
// hashing was introduced hold plaintext and are compared verbatim.
func (u *User) CheckPassword(password string) bool {
	if u.HasHashedPassword() {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
	}
	if u.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	Role           string    `json:"role"`
	ProfilePicture *string   `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		Address:        u.Address,
		Role:           u.Role,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func ToUserResponses(users []User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = users[i].ToResponse()
	}
	return out
}
