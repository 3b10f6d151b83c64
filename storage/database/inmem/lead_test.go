package inmemdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-landing/core/lead"
)

func createLead(t *testing.T, repo lead.Repository, id, school, contact, email, plan, billing string, createdAt time.Time) lead.Lead {
	t.Helper()
	l, err := repo.CreateLead(lead.Lead{
		ID:            id,
		SchoolName:    school,
		ContactPerson: contact,
		Email:         email,
		Phone:         "+243 81 000 0000",
		StudentsCount: lead.Students0To500,
		Plan:          plan,
		Billing:       billing,
		CreatedAt:     createdAt,
	})
	require.NoError(t, err)
	return l
}

func ids(leads []lead.Lead) []string {
	res := make([]string, 0, len(leads))
	for _, l := range leads {
		res = append(res, l.ID)
	}
	return res
}

func TestLeadRepository(t *testing.T) {
	repo := NewLeadRepository(Open())
	now := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)

	createLead(t, repo, "a", "Greenfield Academy", "Jane Doe", "jane@greenfield.cd", "Premium", lead.BillingAnnual, now)
	createLead(t, repo, "b", "Sunrise School", "John Roe", "john@sunrise.cd", "Basic", lead.BillingLifetime, now.Add(time.Hour))
	createLead(t, repo, "c", "Blue Hills", "Ama Green", "ama@bluehills.cd", "premium", lead.BillingLifetime, now.Add(2*time.Hour))

	t.Run("query all, newest first", func(t *testing.T) {
		all, err := repo.QueryAllLeads()
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "b", "a"}, ids(all))
	})

	t.Run("get by id", func(t *testing.T) {
		l, err := repo.GetLeadByID("b")
		require.NoError(t, err)
		assert.Equal(t, "Sunrise School", l.SchoolName)

		_, err = repo.GetLeadByID("zzz")
		assert.Equal(t, lead.ErrNotFound, err)
	})

	tests := []struct {
		name   string
		filter lead.QueryFilter
		want   []string
	}{
		{name: "empty", filter: lead.QueryFilter{}, want: []string{"c", "b", "a"}},
		{name: "search school", filter: lead.QueryFilter{Search: "green"}, want: []string{"c", "a"}},
		{name: "search email", filter: lead.QueryFilter{Search: "SUNRISE.cd"}, want: []string{"b"}},
		{name: "plan is case-insensitive", filter: lead.QueryFilter{Plan: "PREMIUM"}, want: []string{"c", "a"}},
		{name: "billing", filter: lead.QueryFilter{Billing: lead.BillingLifetime}, want: []string{"c", "b"}},
		{name: "and", filter: lead.QueryFilter{Plan: "premium", Billing: lead.BillingLifetime}, want: []string{"c"}},
		{name: "no match", filter: lead.QueryFilter{Search: "nowhere"}, want: []string{}},
		{
			name:   "ordering",
			filter: lead.QueryFilter{Orderings: []lead.Ordering{{Field: "school_name", Ascending: true}}},
			want:   []string{"c", "a", "b"},
		},
		{
			name: "multiple orderings",
			filter: lead.QueryFilter{Orderings: []lead.Ordering{
				{Field: "plan", Ascending: false},
				{Field: "created_at", Ascending: true},
			}},
			want: []string{"a", "c", "b"},
		},
		{
			name:   "unknown ordering field",
			filter: lead.QueryFilter{Orderings: []lead.Ordering{{Field: "password"}}},
			want:   []string{"c", "b", "a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FilterLeads(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}
