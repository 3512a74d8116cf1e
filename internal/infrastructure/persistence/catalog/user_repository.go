package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/StoryNest/storynest-go/internal/domain/entities/catalog"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/persistence/database"
)

type UserRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewUserRepository(db *sql.DB, logger *logging.ChanneledLogger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, email, role, password_hash, created_at`

// FindAll loads every account. Deployments migrated from the legacy
// console may only have an admins table, so a failing read of users
// falls back to it.
func (r *UserRepository) FindAll() ([]*catalog.User, error) {
	start := time.Now()
	r.logger.Database().Debug("Loading all users from database")

	users, err := r.findAllFrom("users")
	if err != nil {
		r.logger.Database().Warn("Primary users table unreadable, falling back to admins", "error", err.Error())
		users, err = r.findAllFrom("admins")
		if err != nil {
			return nil, fmt.Errorf("failed to query users: %w", err)
		}
	}

	r.logger.Database().Info("Loaded users from database", "count", len(users), "duration", time.Since(start))
	return users, nil
}

func (r *UserRepository) findAllFrom(table string) ([]*catalog.User, error) {
	query := `SELECT ` + userColumns + ` FROM ` + table + ` ORDER BY created_at`

	start := time.Now()
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*catalog.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return users, rows.Err()
}

func (r *UserRepository) FindByID(id string) (*catalog.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to scan user", "error", err.Error(), "id", id)
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(email string) (*catalog.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	user, err := scanUser(r.db.QueryRow(query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to scan user", "error", err.Error())
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Store(user *catalog.User) error {
	if user.CreatedAt == nil {
		now := time.Now().UTC()
		user.CreatedAt = &now
	}

	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing user insert", "id", user.ID)

	_, err := r.db.Exec(query, user.ID, user.Email, user.Role, user.PasswordHash,
		user.CreatedAt.Format(time.RFC3339))
	if err != nil {
		r.logger.Database().Error("User insert failed", "error", err.Error(), "id", user.ID)
		return fmt.Errorf("failed to insert user: %w", err)
	}

	r.logger.Database().Info("User insert completed", "id", user.ID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

func (r *UserRepository) UpdateRole(id, role string) error {
	query := `UPDATE users SET role = ? WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Executing user role update", "id", id, "role", role)

	_, err := r.db.Exec(query, role, id)
	if err != nil {
		r.logger.Database().Error("User role update failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to update user role: %w", err)
	}

	r.logger.Database().Info("User role update completed", "id", id, "duration", time.Since(start))
	return nil
}

func (r *UserRepository) Delete(id string) error {
	query := `DELETE FROM users WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Executing user delete", "id", id)

	_, err := r.db.Exec(query, id)
	if err != nil {
		r.logger.Database().Error("User delete failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.logger.Database().Info("User delete completed", "id", id, "duration", time.Since(start))
	return nil
}

func scanUser(row rowScanner) (*catalog.User, error) {
	var user catalog.User
	var role, passwordHash, createdAt sql.NullString

	err := row.Scan(&user.ID, &user.Email, &role, &passwordHash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.Role = role.String
	user.PasswordHash = passwordHash.String
	user.CreatedAt = catalog.ParseTimestamp(createdAt.String)
	return &user, nil
}
