package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `
	u.id, u.org_id, u.full_name, u.employee_no, u.status,
	COALESCE(ARRAY(SELECT ur.role FROM user_roles ur WHERE ur.user_id = u.id ORDER BY ur.role), '{}')
`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	var roles []string
	if err := row.Scan(&u.ID, &u.OrgID, &u.FullName, &u.EmployeeNo, &u.Status, &roles); err != nil {
		return user.User{}, err
	}
	u.Roles = user.ParseRoles(roles)
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepository) GetByID(ctx context.Context, id string, orgID string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1 AND u.org_id = $2`

	u, err := scanUser(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return u, nil
}

// GetActiveManager implements user.UserRepository.
func (r *userRepository) GetActiveManager(ctx context.Context, userID string, orgID string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + userColumns + `
		FROM user_managers um
		JOIN users u ON u.id = um.manager_id
		WHERE um.employee_id = $1
		  AND u.org_id = $2
		  AND u.status = 'ACTIVE'
	`

	u, err := scanUser(q.QueryRow(ctx, query, userID, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get manager: %w", err)
	}
	return &u, nil
}

// FindActiveByRole implements user.UserRepository.
func (r *userRepository) FindActiveByRole(ctx context.Context, orgID string, role user.Role, excludeUserID string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + userColumns + `
		FROM users u
		WHERE u.org_id = $1
		  AND u.status = 'ACTIVE'
		  AND EXISTS (SELECT 1 FROM user_roles ur WHERE ur.user_id = u.id AND ur.role = $2)
		  AND ($3 = '' OR u.id::text <> $3)
		ORDER BY u.created_at ASC
		LIMIT 1
	`

	u, err := scanUser(q.QueryRow(ctx, query, orgID, string(role), excludeUserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by role: %w", err)
	}
	return &u, nil
}

// ListActiveByOrg implements user.UserRepository.
func (r *userRepository) ListActiveByOrg(ctx context.Context, orgID string) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + userColumns + `
		FROM users u
		WHERE u.org_id = $1 AND u.status = 'ACTIVE'
		ORDER BY u.full_name
	`

	rows, err := q.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
