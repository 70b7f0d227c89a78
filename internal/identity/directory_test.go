package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardline/wardline/internal/dashboard"
)

type stubRow struct {
	profile  []byte
	facility string
	err      error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.profile
	*(dest[1].(*string)) = r.facility
	return nil
}

type stubQuerier struct {
	row  stubRow
	args []any
}

func (q *stubQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	q.args = args
	return q.row
}

func TestPostgresDirectoryLookup(t *testing.T) {
	q := &stubQuerier{row: stubRow{
		profile:  []byte(`{"roles":[{"name":"Lab Technician"}]}`),
		facility: "HOSPITAL",
	}}
	dir := NewPostgresDirectory(q)

	p, err := dir.Lookup(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", p.UserID)
	assert.Equal(t, "HOSPITAL", p.FacilityType)
	assert.Equal(t, []any{"u-1"}, q.args)

	profile, tokens, err := Resolve(context.Background(), dir, "u-1")
	require.NoError(t, err)
	assert.Equal(t, dashboard.RoleLab, profile.ID)
	assert.Equal(t, []string{"lab_technician"}, tokens)
}

func TestPostgresDirectoryNotFound(t *testing.T) {
	dir := NewPostgresDirectory(&stubQuerier{row: stubRow{err: pgx.ErrNoRows}})
	_, err := dir.Lookup(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	dir = NewPostgresDirectory(&stubQuerier{row: stubRow{err: errors.New("conn reset")}})
	_, err = dir.Lookup(context.Background(), "u-2")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	dir = NewPostgresDirectory(&stubQuerier{row: stubRow{profile: []byte(`not json`)}})
	_, err = dir.Lookup(context.Background(), "u-3")
	assert.Error(t, err)
}

func TestResolveStatic(t *testing.T) {
	dir := Static{
		"p1": {Document: map[string]any{"role": "Pharmacist"}},
		"g1": {Document: map[string]any{}, FacilityType: "HOSPITAL"},
	}
	ctx := context.Background()

	profile, _, err := Resolve(ctx, dir, "p1")
	require.NoError(t, err)
	assert.Equal(t, dashboard.RolePharmacy, profile.ID)

	profile, tokens, err := Resolve(ctx, dir, "g1")
	require.NoError(t, err)
	assert.Equal(t, dashboard.RoleGeneral, profile.ID)
	assert.Empty(t, tokens)

	_, _, err = Resolve(ctx, dir, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = Resolve(ctx, dir, " ")
	assert.ErrorIs(t, err, ErrNotFound)
}
