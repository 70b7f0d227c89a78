package dashboard

import (
	"strings"

	"github.com/wardline/wardline/internal/feed"
	"github.com/wardline/wardline/internal/records"
)

// RoleID names one of the fixed dashboard personas.
type RoleID string

const (
	RoleGeneral  RoleID = "general"
	RoleLab      RoleID = "lab"
	RolePharmacy RoleID = "pharmacy"
)

// Profile is a fixed persona selecting which datasets are loaded and which
// aggregation runs.
type Profile struct {
	ID           RoleID         `json:"id"`
	Title        string         `json:"title"`
	Subtitle     string         `json:"subtitle"`
	BadgeVariant string         `json:"badgeVariant"`
	Datasets     []feed.Dataset `json:"-"`
}

var profiles = [...]Profile{
	{
		ID:           RoleGeneral,
		Title:        "Hospital overview",
		Subtitle:     "Patients, appointments, admissions and billing at a glance",
		BadgeVariant: "primary",
		Datasets: []feed.Dataset{
			feed.Patients, feed.Appointments, feed.Admissions,
			feed.Invoices, feed.LabOrders, feed.LabResults,
		},
	},
	{
		ID:           RoleLab,
		Title:        "Laboratory",
		Subtitle:     "Orders, turnaround and critical results",
		BadgeVariant: "info",
		Datasets:     []feed.Dataset{feed.LabOrders, feed.LabResults},
	},
	{
		ID:           RolePharmacy,
		Title:        "Pharmacy",
		Subtitle:     "Dispensing, stock levels and sales",
		BadgeVariant: "success",
		Datasets: []feed.Dataset{
			feed.PharmacyOrders, feed.InventoryStocks, feed.DispenseLogs, feed.Invoices,
		},
	},
}

// Profiles returns every role profile in display order.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles[:])
	return out
}

// ProfileFor returns the profile for id.
func ProfileFor(id RoleID) (Profile, bool) {
	for _, p := range profiles {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

func mustProfile(id RoleID) Profile {
	p, ok := ProfileFor(id)
	if !ok {
		panic("dashboard: unknown profile " + string(id))
	}
	return p
}

// ResolveRole picks the profile for a caller's role tokens and facility type.
// Laboratory keywords win over pharmacy keywords; everything else is general.
func ResolveRole(tokens []string, facilityType string) Profile {
	candidates := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		candidates = append(candidates, normalizeToken(token))
	}
	if ft := normalizeToken(facilityType); ft != "" {
		candidates = append(candidates, ft)
	}
	if containsKeyword(candidates, "lab") {
		return mustProfile(RoleLab)
	}
	if containsKeyword(candidates, "pharm") {
		return mustProfile(RolePharmacy)
	}
	return mustProfile(RoleGeneral)
}

// containsKeyword reports whether any underscore-separated part of a token
// starts with keyword, so lab_technician matches "lab" but collaborator does
// not.
func containsKeyword(tokens []string, keyword string) bool {
	for _, token := range tokens {
		for _, part := range strings.Split(token, "_") {
			if strings.HasPrefix(part, keyword) {
				return true
			}
		}
	}
	return false
}

// roleFields are the keys that hold role information on a user document.
var roleFields = []string{"roles", "role", "role_name", "roleName", "user_roles", "userRoles"}

// roleItemFields are read from objects nested inside role fields.
var roleItemFields = []string{"name", "key", "code", "slug", "role", "role_name", "roleName", "roles"}

// CollectRoleTokens flattens arbitrarily nested role data into de-duplicated,
// normalised tokens in first-seen order.
func CollectRoleTokens(v any) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(token string) {
		token = normalizeToken(token)
		if token == "" {
			return
		}
		if _, ok := seen[token]; ok {
			return
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	collectTokens(v, false, add)
	return out
}

func collectTokens(v any, inRole bool, add func(string)) {
	switch val := v.(type) {
	case nil:
	case string:
		add(val)
	case []string:
		for _, item := range val {
			add(item)
		}
	case []any:
		for _, item := range val {
			collectTokens(item, true, add)
		}
	case records.Record:
		collectTokens(map[string]any(val), inRole, add)
	case map[string]any:
		fields := roleFields
		if inRole {
			fields = roleItemFields
		}
		for _, field := range fields {
			if nested, ok := val[field]; ok {
				collectTokens(nested, true, add)
			}
		}
	default:
		if inRole {
			add(records.CoerceString(val))
		}
	}
}

func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, s)
}
