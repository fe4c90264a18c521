package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/frostwarlord/portal/core"
)

var (
	// errors
	ErrNotFound     = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")
	ErrNotVerified  = errors.New("please verify your email before logging in")
	ErrInvalidToken = errors.New("invalid or expired token")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		// GetUser returns the single User matching the set field of the filter;
		// ErrNotFound if no row matches.
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUsersByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		CheckEmailUniqueness(ctx context.Context, email string) error
		Register(ctx context.Context, nu NewUser) (User, error)
		Verify(ctx context.Context, token string) (User, error)
		Authenticate(ctx context.Context, email, pwd string) (User, error)
		RequestPasswordReset(ctx context.Context, email string) error
		ResetPassword(ctx context.Context, rp ResetUserPassword) error
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		UpdateProfile(ctx context.Context, id string, up UpdateProfile) (User, error)
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) CheckEmailUniqueness(ctx context.Context, email string) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Register persists a new unverified User and mails them a verification link.
func (svc *service) Register(ctx context.Context, nu NewUser) (User, error) {
	now := nowFunc().UTC()
	usr := User{
		Name:                     nu.Name,
		Phone:                    nu.Phone,
		Email:                    nu.Email,
		Role:                     nu.Role,
		VerificationToken:        makeToken(),
		VerificationTokenExpires: now.Add(svc.conf.VerificationTokenTTL),
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "creating user")
	}

	svc.sendVerificationMail(usr)
	return usr, nil
}

// Verify consumes a verification token: the token is single-use and
// rejected once its expiry has passed.
func (svc *service) Verify(ctx context.Context, token string) (User, error) {
	if token == "" {
		return User{}, ErrInvalidToken
	}
	usr, err := svc.repo.GetUser(ctx, GetFilter{VerificationToken: token})
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidToken
		}
		return User{}, errors.Wrap(err, "finding user by verification token")
	}
	if !nowFunc().UTC().Before(usr.VerificationTokenExpires) {
		return User{}, ErrInvalidToken
	}

	usr.IsVerified = true
	usr.VerificationToken = ""
	usr.VerificationTokenExpires = time.Time{}
	usr.UpdatedAt = nowFunc().UTC()

	usr, err = svc.repo.UpdateUser(ctx, usr)
	return usr, errors.Wrap(err, "updating user")
}

// Authenticate checks the credentials of a registered User.
// Unverified accounts are rejected with ErrNotVerified before the
// password is checked.
func (svc *service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if !usr.IsVerified {
		return User{}, ErrNotVerified
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrNotFound
	}
	return usr, nil
}

// RequestPasswordReset issues a reset token and mails a reset link.
// Callers are expected to swallow ErrNotFound so that the existence of
// an email address is never revealed.
func (svc *service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	usr.ResetToken = makeToken()
	usr.ResetTokenExpires = nowFunc().UTC().Add(svc.conf.PasswordResetTokenTTL)
	usr.UpdatedAt = nowFunc().UTC()

	if usr, err = svc.repo.UpdateUser(ctx, usr); err != nil {
		return errors.Wrap(err, "updating user")
	}

	svc.sendPasswordResetMail(usr)
	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (svc *service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	usr, err := svc.repo.GetUser(ctx, GetFilter{ResetToken: rp.Token})
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return ErrInvalidToken
		}
		return errors.Wrap(err, "finding user by reset token")
	}
	if !nowFunc().UTC().Before(usr.ResetTokenExpires) {
		return ErrInvalidToken
	}

	if err = usr.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.ResetToken = ""
	usr.ResetTokenExpires = time.Time{}
	usr.UpdatedAt = nowFunc().UTC()

	_, err = svc.repo.UpdateUser(ctx, usr)
	return errors.Wrap(err, "updating user")
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

func (svc *service) UpdateProfile(ctx context.Context, id string, up UpdateProfile) (User, error) {
	usr, err := svc.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	usr.Name = up.Name
	usr.Phone = up.Phone
	usr.Role = up.Role
	usr.ProfilePicture = up.ProfilePicture
	usr.UpdatedAt = nowFunc().UTC()

	usr, err = svc.repo.UpdateUser(ctx, usr)
	return usr, errors.Wrap(err, "updating user")
}

func (svc *service) sendVerificationMail(usr User) {
	url := fmt.Sprintf("%s/verify?token=%s", svc.conf.FrontendBaseURL, usr.VerificationToken)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Verify your email",
		TemplateName: "verification",
		TemplateData: tokenEmailData{
			Name:     usr.Name,
			URL:      url,
			TTLHours: int(svc.conf.VerificationTokenTTL / time.Hour),
		},
	})
}

func (svc *service) sendPasswordResetMail(usr User) {
	url := fmt.Sprintf("%s/reset-password?token=%s", svc.conf.FrontendBaseURL, usr.ResetToken)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Reset your password",
		TemplateName: "password_reset",
		TemplateData: tokenEmailData{
			Name:     usr.Name,
			URL:      url,
			TTLHours: int(svc.conf.PasswordResetTokenTTL / time.Hour),
		},
	})
}

type tokenEmailData struct {
	Name     string
	URL      string
	TTLHours int
}
