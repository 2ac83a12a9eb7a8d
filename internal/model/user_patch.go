package model

import (
	"strings"

	"cashierhub-api/pkg/apperr"
	"cashierhub-api/pkg/validator"
)

const MinPasswordLength = 6

// UserPatch is a partial user update. Absent fields are left untouched.
type UserPatch struct {
	Username       Field[string] `json:"username"`
	Password       Field[string] `json:"password"`
	Name           Field[string] `json:"name"`
	Email          Field[string] `json:"email"`
	Phone          Field[string] `json:"phone"`
	Address        Field[string] `json:"address"`
	Role           Field[string] `json:"role"`
	ProfilePicture Field[string] `json:"profile_picture"`
}

// Columns compiles the patch into a column map for gorm Updates.
// A blank username or password means "keep the current one". An explicit null
// profile_picture clears it. hash is called only when a new password is given.
func (p UserPatch) Columns(hash func(string) (string, error)) (map[string]interface{}, error) {
	cols := make(map[string]interface{})

	if v, ok := p.Username.Get(); ok && strings.TrimSpace(v) != "" {
		cols["username"] = strings.TrimSpace(v)
	}

	if v, ok := p.Password.Get(); ok && strings.TrimSpace(v) != "" {
		if len(v) < MinPasswordLength {
			return nil, apperr.Validation("password must be at least 6 characters")
		}
		hashed, err := hash(v)
		if err != nil {
			return nil, err
		}
		cols["password"] = hashed
	}

	if p.Name.Set {
		v, ok := p.Name.Get()
		if !ok || strings.TrimSpace(v) == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		cols["name"] = strings.TrimSpace(v)
	}

	if p.Email.Set {
		v, ok := p.Email.Get()
		v = strings.TrimSpace(v)
		if !ok || !validator.Var(v, "required,email") {
			return nil, apperr.Validation("email is invalid")
		}
		cols["email"] = v
	}

	if p.Phone.Set {
		cols["phone"] = p.Phone.Value
	}
	if p.Address.Set {
		cols["address"] = p.Address.Value
	}

	if p.Role.Set {
		v, ok := p.Role.Get()
		if !ok || strings.TrimSpace(v) == "" {
			return nil, apperr.Validation("role cannot be empty")
		}
		cols["role"] = strings.TrimSpace(v)
	}

	if p.ProfilePicture.Set {
		if v, ok := p.ProfilePicture.Get(); ok && v != "" {
			cols["profile_picture"] = v
		} else {
			cols["profile_picture"] = nil
		}
	}

	return cols, nil
}
