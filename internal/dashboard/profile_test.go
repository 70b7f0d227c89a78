package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardline/wardline/internal/feed"
)

func TestResolveRole(t *testing.T) {
	cases := []struct {
		name     string
		tokens   []string
		facility string
		want     RoleID
	}{
		{"lab technician", []string{"lab_technician"}, "", RoleLab},
		{"pharmacist", []string{"pharmacist"}, "", RolePharmacy},
		{"empty hospital", nil, "HOSPITAL", RoleGeneral},
		{"lab wins over pharmacy", []string{"Pharmacist", "Lab Manager"}, "", RoleLab},
		{"facility decides", []string{"staff"}, "Pharmacy", RolePharmacy},
		{"facility laboratory", nil, "laboratory", RoleLab},
		{"admin", []string{"admin", "doctor"}, "clinic", RoleGeneral},
		{"keyword inside a word", []string{"collaborator"}, "", RoleGeneral},
		{"pharm inside a word", []string{"nonpharmacist_liaison"}, "", RoleGeneral},
		{"keyword in a later part", []string{"senior_laboratory_analyst"}, "", RoleLab},
		{"hyphenated facility", nil, "Retail-Pharmacy", RolePharmacy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveRole(tc.tokens, tc.facility).ID)
		})
	}
}

func TestCollectRoleTokensNested(t *testing.T) {
	user := map[string]any{
		"id":   7,
		"name": "not a role",
		"roles": []any{
			"Lab Technician",
			map[string]any{"name": "pharmacist"},
			map[string]any{"role": map[string]any{"slug": "head-nurse"}},
			"lab technician",
		},
		"role_name": "Doctor",
	}
	tokens := CollectRoleTokens(user)
	assert.Equal(t, []string{"lab_technician", "pharmacist", "head_nurse", "doctor"}, tokens)
}

func TestCollectRoleTokensEmpty(t *testing.T) {
	assert.Empty(t, CollectRoleTokens(nil))
	assert.Empty(t, CollectRoleTokens(map[string]any{"email": "a@b.c"}))
}

func TestProfilesDatasets(t *testing.T) {
	profiles := Profiles()
	require.Len(t, profiles, 3)
	assert.Equal(t, RoleGeneral, profiles[0].ID)

	lab, ok := ProfileFor(RoleLab)
	require.True(t, ok)
	assert.Equal(t, []feed.Dataset{feed.LabOrders, feed.LabResults}, lab.Datasets)

	pharmacy, ok := ProfileFor(RolePharmacy)
	require.True(t, ok)
	assert.Contains(t, pharmacy.Datasets, feed.InventoryStocks)
	assert.Contains(t, pharmacy.Datasets, feed.Invoices)

	_, ok = ProfileFor("radiology")
	assert.False(t, ok)
}
