package dbhelper

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/platewise/platewise/database"
)

func CreateUser(tx *sql.Tx, name, email string) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(`INSERT INTO users (name, email) VALUES ($1, LOWER($2)) RETURNING id`,
		name, email).Scan(&id)
	return id, err
}

func IsUserExists(email string) (bool, error) {
	var count int
	err := database.Platewise.QueryRow(`SELECT COUNT(*) FROM users WHERE LOWER(email) = LOWER($1) AND archived_at IS NULL`, email).Scan(&count)
	return count > 0, err
}

func GetUserByEmail(email string) (uuid.UUID, error) {
	var userID uuid.UUID

	err := database.Platewise.QueryRow(`
		SELECT id FROM users
		WHERE LOWER(email) = LOWER($1) AND archived_at IS NULL`, email).
		Scan(&userID)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}

// GetOrCreateUserByEmail backs magic-link sign-in: a first-time email gets a
// user row on the fly, an existing one is reused.
func GetOrCreateUserByEmail(email string) (uuid.UUID, error) {
	userID, err := GetUserByEmail(email)
	if err == nil {
		return userID, nil
	}
	if err != sql.ErrNoRows {
		return uuid.Nil, err
	}

	txErr := database.Tx(func(tx *sql.Tx) error {
		userID, err = CreateUser(tx, "", email)
		return err
	})
	if txErr != nil {
		return uuid.Nil, txErr
	}
	return userID, nil
}

// GetUserByPassword authenticates restaurant staff for the dashboard.
func GetUserByPassword(email, password string) (uuid.UUID, string, error) {
	var id uuid.UUID
	var hashedPassword sql.NullString
	var name string

	err := database.Platewise.QueryRow(`
		SELECT id, name, password FROM users
		WHERE LOWER(email) = LOWER($1) AND archived_at IS NULL`, email).
		Scan(&id, &name, &hashedPassword)
	if err != nil {
		return uuid.Nil, "", err
	}

	if !hashedPassword.Valid {
		return uuid.Nil, "", fmt.Errorf("no password set for user")
	}
	if bcrypt.CompareHashAndPassword([]byte(hashedPassword.String), []byte(password)) != nil {
		return uuid.Nil, "", fmt.Errorf("incorrect password")
	}

	return id, name, nil
}
