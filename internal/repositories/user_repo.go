package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rentalsBack/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

const userColumns = `id, username, email, password, role, is_active, is_staff, is_superuser, last_login, date_joined`

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
        INSERT INTO users (username, email, password, role, is_active, is_staff, is_superuser, date_joined)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}
	result, err := r.DB.ExecContext(ctx, query,
		user.Username, user.Email, user.Password, user.Role, user.IsActive, user.IsStaff, user.IsSuperuser, user.DateJoined,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.User{}, models.ErrDuplicateUsername
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(id)
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// UsernameExists is a pre-check for registration; the UNIQUE index stays authoritative.
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists int
	err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username = ?`, username).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int, at time.Time) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, at, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the user; properties, images, messages and favorites go with it.
func (r *UserRepository) DeleteUser(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user      models.User
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Password, &user.Role,
		&user.IsActive, &user.IsStaff, &user.IsSuperuser, &lastLogin, &user.DateJoined,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	return user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int, username, email string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE users SET username = ?, email = ? WHERE id = ?`, username, email, id)
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.ErrDuplicateUsername
		}
		return fmt.Errorf("update profile: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// nothing changed on mysql, or the user is gone
		if _, err := r.GetUserByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
