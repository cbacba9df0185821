package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// DevAdminEmail and DevAdminPassword are the credentials of the seeded
// development account. The email must also be allow-listed to reach the
// dashboard.
const (
	DevAdminEmail    = "admin@folio.local"
	DevAdminPassword = "admin"
)

// Seed populates the database with initial development data: a password
// admin account and the singleton profile row. Each part is skipped if the
// table already has rows.
func Seed(db *sql.DB) error {
	var users int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if users == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(DevAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed bcrypt: %w", err)
		}

		_, err = db.Exec(`
			INSERT INTO users (email, password_hash, display_name)
			VALUES ($1, $2, $3)
		`, DevAdminEmail, string(hash), "Admin")
		if err != nil {
			return fmt.Errorf("seed insert admin: %w", err)
		}

		slog.Info("database seeded with default admin user",
			"email", DevAdminEmail,
			"password", DevAdminPassword,
		)
	}

	var profiles int
	if err := db.QueryRow("SELECT COUNT(*) FROM profile").Scan(&profiles); err != nil {
		return fmt.Errorf("seed check profile: %w", err)
	}

	if profiles == 0 {
		_, err := db.Exec(`
			INSERT INTO profile (full_name, role, bio, email, github, linkedin)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, "Your Name", "Software Engineer", "Edit this bio from the admin dashboard.",
			"you@example.com", "https://github.com/", "https://www.linkedin.com/")
		if err != nil {
			return fmt.Errorf("seed insert profile: %w", err)
		}
		slog.Info("database seeded with default profile")
	}

	return nil
}
