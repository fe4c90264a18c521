package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/frostwarlord/portal/core/user"
)

type userRow struct {
	ID                       string      `db:"id"`
	Name                     string      `db:"name"`
	Phone                    string      `db:"phone"`
	Email                    string      `db:"email"`
	PasswordHash             []byte      `db:"password_hash"`
	Role                     string      `db:"role"`
	ProfilePicture           null.String `db:"profile_picture"`
	IsVerified               bool        `db:"is_verified"`
	IsAdmin                  bool        `db:"is_admin"`
	VerificationToken        null.String `db:"verification_token"`
	VerificationTokenExpires null.Time   `db:"verification_token_expires"`
	ResetToken               null.String `db:"reset_token"`
	ResetTokenExpires        null.Time   `db:"reset_token_expires"`
	CreatedAt                time.Time   `db:"created_at"`
	UpdatedAt                time.Time   `db:"updated_at"`
}

func (r userRow) unpack() user.User {
	return user.User{
		ID:                       r.ID,
		Name:                     r.Name,
		Phone:                    r.Phone,
		Email:                    r.Email,
		PasswordHash:             r.PasswordHash,
		Role:                     r.Role,
		ProfilePicture:           r.ProfilePicture.String,
		IsVerified:               r.IsVerified,
		IsAdmin:                  r.IsAdmin,
		VerificationToken:        r.VerificationToken.String,
		VerificationTokenExpires: r.VerificationTokenExpires.Time,
		ResetToken:               r.ResetToken.String,
		ResetTokenExpires:        r.ResetTokenExpires.Time,
		CreatedAt:                r.CreatedAt,
		UpdatedAt:                r.UpdatedAt,
	}
}

func packUser(usr user.User) userRow {
	return userRow{
		ID:                       usr.ID,
		Name:                     usr.Name,
		Phone:                    usr.Phone,
		Email:                    usr.Email,
		PasswordHash:             usr.PasswordHash,
		Role:                     usr.Role,
		ProfilePicture:           null.NewString(usr.ProfilePicture, usr.ProfilePicture != ""),
		IsVerified:               usr.IsVerified,
		IsAdmin:                  usr.IsAdmin,
		VerificationToken:        null.NewString(usr.VerificationToken, usr.VerificationToken != ""),
		VerificationTokenExpires: null.NewTime(usr.VerificationTokenExpires.UTC(), !usr.VerificationTokenExpires.IsZero()),
		ResetToken:               null.NewString(usr.ResetToken, usr.ResetToken != ""),
		ResetTokenExpires:        null.NewTime(usr.ResetTokenExpires.UTC(), !usr.ResetTokenExpires.IsZero()),
		CreatedAt:                usr.CreatedAt.UTC(),
		UpdatedAt:                usr.UpdatedAt.UTC(),
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1)`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		query += ` AND NOT (id = ANY($2))`
		args = append(args, pq.Array(ids))
	}
	query += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	row := packUser(usr)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO users (
			id, name, phone, email, password_hash, role, profile_picture,
			is_verified, is_admin, verification_token, verification_token_expires,
			reset_token, reset_token_expires, created_at, updated_at
		) VALUES (
			:id, :name, :phone, :email, :password_hash, :role, :profile_picture,
			:is_verified, :is_admin, :verification_token, :verification_token_expires,
			:reset_token, :reset_token_expires, :created_at, :updated_at
		)`, row)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var (
		where string
		arg   interface{}
	)
	switch {
	case filter.ID != "":
		where, arg = "id = $1", filter.ID
	case filter.Email != "":
		where, arg = "LOWER(email) = LOWER($1)", filter.Email
	case filter.VerificationToken != "":
		where, arg = "verification_token = $1", filter.VerificationToken
	case filter.ResetToken != "":
		where, arg = "reset_token = $1", filter.ResetToken
	default:
		return user.User{}, user.ErrNotFound
	}

	if filter.ID != "" {
		if _, err := uuid.Parse(filter.ID); err != nil {
			return user.User{}, user.ErrNotFound
		}
	}

	var row userRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM users WHERE `+where, arg); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "getting user")
	}
	return row.unpack(), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	row := packUser(usr)
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE users SET
			name = :name,
			phone = :phone,
			email = :email,
			password_hash = :password_hash,
			role = :role,
			profile_picture = :profile_picture,
			is_verified = :is_verified,
			is_admin = :is_admin,
			verification_token = :verification_token,
			verification_token_expires = :verification_token_expires,
			reset_token = :reset_token,
			reset_token_expires = :reset_token_expires,
			updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}

// trapNoRowsErr maps psql "no rows" err to the domain's not-found error
func trapNoRowsErr(err, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}
