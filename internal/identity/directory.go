// Package identity looks up the caller's role data so the dashboard can pick
// a persona for them.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/wardline/wardline/internal/dashboard"
)

// ErrNotFound is returned when the user does not exist.
var ErrNotFound = errors.New("identity: user not found")

// Profile is the raw user document plus the facility type of its tenant.
type Profile struct {
	UserID       string
	Document     map[string]any
	FacilityType string
}

// Directory resolves user profiles.
type Directory interface {
	Lookup(ctx context.Context, userID string) (Profile, error)
}

// Resolve picks the dashboard profile for userID.
func Resolve(ctx context.Context, dir Directory, userID string) (dashboard.Profile, []string, error) {
	userID = strings.TrimSpace(userID)
	if dir == nil || userID == "" {
		return dashboard.Profile{}, nil, ErrNotFound
	}
	p, err := dir.Lookup(ctx, userID)
	if err != nil {
		return dashboard.Profile{}, nil, err
	}
	tokens := dashboard.CollectRoleTokens(p.Document)
	return dashboard.ResolveRole(tokens, p.FacilityType), tokens, nil
}

// Static is an in-memory Directory keyed by user id.
type Static map[string]Profile

// Lookup implements Directory.
func (s Static) Lookup(_ context.Context, userID string) (Profile, error) {
	p, ok := s[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	p.UserID = userID
	return p, nil
}

// Querier is the subset of pgxpool.Pool the directory needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const lookupSQL = `SELECT COALESCE(u.profile, '{}'::jsonb), COALESCE(t.facility_type, '')
FROM users u
LEFT JOIN tenants t ON t.id = u.tenant_id
WHERE u.id::text = $1`

// PostgresDirectory reads users.profile and the tenant's facility type.
type PostgresDirectory struct {
	db Querier
}

// NewPostgresDirectory constructs the directory.
func NewPostgresDirectory(db Querier) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

// Lookup implements Directory.
func (d *PostgresDirectory) Lookup(ctx context.Context, userID string) (Profile, error) {
	var (
		raw      []byte
		facility string
	)
	err := d.db.QueryRow(ctx, lookupSQL, userID).Scan(&raw, &facility)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("identity: lookup %s: %w", userID, err)
	}
	doc := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return Profile{}, fmt.Errorf("identity: decode profile %s: %w", userID, err)
		}
	}
	return Profile{UserID: userID, Document: doc, FacilityType: facility}, nil
}
