package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deptportal/internal/platform/crypto"
)

// PostgresStore keeps sessions in portal_sessions; the API token is sealed
// before it is written.
type PostgresStore struct {
	DB     *pgxpool.Pool
	Sealer *crypto.Sealer
}

func NewPostgresStore(db *pgxpool.Pool, sealer *crypto.Sealer) *PostgresStore {
	return &PostgresStore{DB: db, Sealer: sealer}
}

func (p *PostgresStore) Load(ctx context.Context, id string) (Session, error) {
	var s Session
	var tokenEnc, flashes []byte
	err := p.DB.QueryRow(ctx, `
    SELECT id, token_enc, employee_id, role, flashes, created_at, expires_at
    FROM portal_sessions
    WHERE id = $1 AND expires_at > now()
  `, id).Scan(&s.ID, &tokenEnc, &s.EmployeeID, &s.Role, &flashes, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}
	token, err := p.Sealer.OpenString(tokenEnc)
	if err != nil {
		return Session{}, fmt.Errorf("session %s token: %w", id, err)
	}
	s.Token = token
	if len(flashes) > 0 {
		if err := json.Unmarshal(flashes, &s.Flashes); err != nil {
			return Session{}, fmt.Errorf("session %s flashes: %w", id, err)
		}
	}
	return s, nil
}

func (p *PostgresStore) Save(ctx context.Context, s Session) error {
	tokenEnc, err := p.Sealer.SealString(s.Token)
	if err != nil {
		return err
	}
	flashes := s.Flashes
	if flashes == nil {
		flashes = []Flash{}
	}
	flashJSON, err := json.Marshal(flashes)
	if err != nil {
		return err
	}
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = p.DB.Exec(ctx, `
    INSERT INTO portal_sessions (id, token_enc, employee_id, role, flashes, created_at, expires_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    ON CONFLICT (id)
    DO UPDATE SET token_enc = EXCLUDED.token_enc,
                  employee_id = EXCLUDED.employee_id,
                  role = EXCLUDED.role,
                  flashes = EXCLUDED.flashes,
                  expires_at = EXCLUDED.expires_at
  `, s.ID, tokenEnc, s.EmployeeID, s.Role, flashJSON, createdAt, s.ExpiresAt)
	return err
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := p.DB.Exec(ctx, "DELETE FROM portal_sessions WHERE id = $1", id)
	return err
}

// Sweep removes expired rows.
func (p *PostgresStore) Sweep(ctx context.Context) (int64, error) {
	tag, err := p.DB.Exec(ctx, "DELETE FROM portal_sessions WHERE expires_at <= now()")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
