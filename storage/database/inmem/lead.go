package inmemdb

import (
	"sort"
	"strings"

	"github.com/trezcool/masomo-landing/core/lead"
)

type leadRepository struct {
	db *leadTable
}

var _ lead.Repository = (*leadRepository)(nil) // interface compliance check

func NewLeadRepository(db *DB) lead.Repository {
	return &leadRepository{db: db.lead}
}

// query returns every lead, newest first.
func (repo *leadRepository) query() []lead.Lead {
	leads := make([]lead.Lead, 0, len(repo.db.table))
	for _, l := range repo.db.table {
		leads = append(leads, *l)
	}
	sort.SliceStable(leads, func(i, j int) bool { return leads[i].CreatedAt.After(leads[j].CreatedAt) })
	return leads
}

func (repo *leadRepository) CreateLead(l lead.Lead) (lead.Lead, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[l.ID] = &l
	return l, nil
}

func (repo *leadRepository) QueryAllLeads() ([]lead.Lead, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *leadRepository) GetLeadByID(id string) (lead.Lead, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if l, ok := repo.db.table[id]; ok {
		return *l, nil
	}
	return lead.Lead{}, lead.ErrNotFound
}

func (repo *leadRepository) FilterLeads(filter lead.QueryFilter) ([]lead.Lead, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	leads := repo.query()

	// leads with search keyword matching any SchoolName, ContactPerson or Email ?
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		var filtered []lead.Lead
		for _, l := range leads {
			if strings.Contains(strings.ToLower(l.SchoolName), search) ||
				strings.Contains(strings.ToLower(l.ContactPerson), search) ||
				strings.Contains(strings.ToLower(l.Email), search) {
				filtered = append(filtered, l)
			}
		}
		leads = filtered
	}
	if leads != nil && filter.Plan != "" {
		var filtered []lead.Lead
		for _, l := range leads {
			if strings.EqualFold(l.Plan, filter.Plan) {
				filtered = append(filtered, l)
			}
		}
		leads = filtered
	}
	if leads != nil && filter.Billing != "" {
		var filtered []lead.Lead
		for _, l := range leads {
			if l.Billing == filter.Billing {
				filtered = append(filtered, l)
			}
		}
		leads = filtered
	}

	orderLeads(leads, filter.Orderings)
	if leads == nil {
		leads = []lead.Lead{}
	}
	return leads, nil
}

// orderLeads sorts by the given fields; unknown fields are ignored.
func orderLeads(leads []lead.Lead, orderings []lead.Ordering) {
	cmps := make([]func(a, b lead.Lead) int, 0, len(orderings))
	for _, o := range orderings {
		cmp := leadComparators[o.Field]
		if cmp == nil {
			continue
		}
		if o.Ascending {
			cmps = append(cmps, cmp)
		} else {
			cmps = append(cmps, func(a, b lead.Lead) int { return -cmp(a, b) })
		}
	}
	if len(cmps) == 0 {
		return
	}
	sort.SliceStable(leads, func(i, j int) bool {
		for _, cmp := range cmps {
			if c := cmp(leads[i], leads[j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

var leadComparators = map[string]func(a, b lead.Lead) int{
	"school_name": func(a, b lead.Lead) int { return strings.Compare(strings.ToLower(a.SchoolName), strings.ToLower(b.SchoolName)) },
	"plan":        func(a, b lead.Lead) int { return strings.Compare(strings.ToLower(a.Plan), strings.ToLower(b.Plan)) },
	"created_at": func(a, b lead.Lead) int {
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
		return 0
	},
}
