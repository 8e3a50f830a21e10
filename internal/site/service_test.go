package site

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	sites []Site
}

func (f *fakeRepo) GetByID(_ context.Context, id uint) (*Site, error) {
	for i := range f.sites {
		if f.sites[i].ID == id {
			return &f.sites[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetByDomain(_ context.Context, domain string) (*Site, error) {
	for i := range f.sites {
		if f.sites[i].Domain == domain {
			return &f.sites[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FirstOrCreate(ctx context.Context, domain, name string) (*Site, error) {
	if s, err := f.GetByDomain(ctx, domain); err == nil {
		return s, nil
	}
	f.sites = append(f.sites, Site{ID: uint(len(f.sites) + 1), Domain: domain, Name: name})
	return &f.sites[len(f.sites)-1], nil
}

func newTestService(t *testing.T) *Service {
	repo := &fakeRepo{sites: []Site{{ID: 7, Domain: "partners.seneca.kz", Name: "Partners"}}}
	svc, err := NewService(context.Background(), repo, "seneca.kz", "Seneca")
	require.NoError(t, err)
	return svc
}

func TestResolve(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("explicit id wins", func(t *testing.T) {
		s, err := svc.Resolve(ctx, "7", "seneca.kz")
		require.NoError(t, err)
		assert.Equal(t, uint(7), s.ID)
	})

	t.Run("unknown explicit id", func(t *testing.T) {
		_, err := svc.Resolve(ctx, "99", "")
		assert.ErrorIs(t, err, ErrUnknownSite)
	})

	t.Run("host with port and www", func(t *testing.T) {
		s, err := svc.Resolve(ctx, "", "www.partners.seneca.kz:8080")
		require.NoError(t, err)
		assert.Equal(t, "Partners", s.Name)
	})

	t.Run("unknown host falls back to default", func(t *testing.T) {
		s, err := svc.Resolve(ctx, "", "localhost:8080")
		require.NoError(t, err)
		assert.Equal(t, "seneca.kz", s.Domain)
		assert.Equal(t, svc.Default().ID, s.ID)
	})
}
