// Package cached wraps read-heavy repositories with an in-memory go-cache
// store. Writes go through to the wrapped repository and evict the entry.
package cached

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/patrickmn/go-cache"
)

type organizationRepository struct {
	next  organization.OrganizationRepository
	store *cache.Cache
}

func NewOrganizationRepository(next organization.OrganizationRepository, store *cache.Cache) organization.OrganizationRepository {
	return &organizationRepository{next: next, store: store}
}

func orgKey(id string) string {
	return "org:" + id
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	if v, found := r.store.Get(orgKey(id)); found {
		return v.(organization.Organization), nil
	}

	org, err := r.next.GetByID(ctx, id)
	if err != nil {
		return organization.Organization{}, err
	}
	r.store.SetDefault(orgKey(id), org)
	return org, nil
}

func (r *organizationRepository) ListIDs(ctx context.Context) ([]string, error) {
	return r.next.ListIDs(ctx)
}

func (r *organizationRepository) SetDefaultSchedule(ctx context.Context, id string, scheduleID *string) error {
	if err := r.next.SetDefaultSchedule(ctx, id, scheduleID); err != nil {
		return err
	}
	r.store.Delete(orgKey(id))
	return nil
}
