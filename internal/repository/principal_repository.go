package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tcgvault/card-catalog/internal/domain"
)

// PrincipalRepository resolves stored credentials for login.
type PrincipalRepository interface {
	// ListByUsername returns every credential registered under username.
	ListByUsername(ctx context.Context, username string) ([]domain.Credential, error)
}

type fileUser struct {
	ID       domain.Value `json:"id"`
	Username string       `json:"username"`
	Password string       `json:"password"`
}

type filePrincipalRepository struct {
	path string
}

// NewFilePrincipalRepository reads credentials from a JSON document of the form
// {"users": [{"id": ..., "username": ..., "password": ...}]}. The file is read on
// every lookup.
func NewFilePrincipalRepository(path string) PrincipalRepository {
	return &filePrincipalRepository{path: path}
}

func (r *filePrincipalRepository) ListByUsername(ctx context.Context, username string) ([]domain.Credential, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, r.path, err)
	}
	var doc struct {
		Users []fileUser `json:"users"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrStorage, r.path, err)
	}

	var out []domain.Credential
	for _, u := range doc.Users {
		if u.Username != username {
			continue
		}
		out = append(out, domain.Credential{
			Principal: domain.Principal{Username: u.Username, ID: u.ID},
			Password:  u.Password,
		})
	}
	return out, nil
}

type postgresPrincipalRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPrincipalRepository returns a Postgres-backed implementation.
func NewPostgresPrincipalRepository(pool *pgxpool.Pool) PrincipalRepository {
	return &postgresPrincipalRepository{pool: pool}
}

func (r *postgresPrincipalRepository) ListByUsername(ctx context.Context, username string) ([]domain.Credential, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("%w: postgres not configured", ErrStorage)
	}
	const query = `
        SELECT id, username, password
        FROM principals WHERE username=$1
        ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rows.Close()

	var out []domain.Credential
	for rows.Next() {
		var id, name, password string
		if err := rows.Scan(&id, &name, &password); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		out = append(out, domain.Credential{
			Principal: domain.Principal{Username: name, ID: domain.String(id)},
			Password:  password,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return out, nil
}
