package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/frostwarlord/portal/core"
)

type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	IsVerified     bool   `json:"is_verified"`
	IsAdmin        bool   `json:"is_admin"`

	PasswordHash             []byte    `json:"-"`
	VerificationToken        string    `json:"-"`
	VerificationTokenExpires time.Time `json:"-"`
	ResetToken               string    `json:"-"`
	ResetTokenExpires        time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Phone = core.CleanString(nu.Phone)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ctx, nu.Email)
}

// UpdateProfile defines what information a User may change on their own record.
type UpdateProfile struct {
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	Role           string `json:"role" validate:"required"`
	ProfilePicture string `json:"profile_picture" validate:"omitempty,url"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.Name = core.CleanString(up.Name)
	up.Phone = core.CleanString(up.Phone)
	up.Role = core.CleanString(up.Role)
	up.ProfilePicture = core.CleanString(up.ProfilePicture)
	return validate.Struct(up)
}

type ResetUserPassword struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (rp ResetUserPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}

// GetFilter selects a single User by exactly one of its unique keys.
type GetFilter struct {
	ID                string
	Email             string
	VerificationToken string
	ResetToken        string
}
