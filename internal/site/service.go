package site

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

var ErrUnknownSite = errors.New("unknown site")

// Service resolves the site a request operates on.
type Service struct {
	repo        Repository
	defaultSite *Site
}

// NewService seeds the default site and returns a resolver that falls back to it.
func NewService(ctx context.Context, repo Repository, defaultDomain, defaultName string) (*Service, error) {
	def, err := repo.FirstOrCreate(ctx, defaultDomain, defaultName)
	if err != nil {
		return nil, fmt.Errorf("failed to seed default site: %w", err)
	}
	return &Service{repo: repo, defaultSite: def}, nil
}

func (s *Service) Default() *Site {
	return s.defaultSite
}

// Resolve picks the site from an explicit id (X-Site-ID), then the request host,
// then the default site. An explicit id that does not exist is an error; an
// unknown host is not.
func (s *Service) Resolve(ctx context.Context, explicitID, host string) (*Site, error) {
	if explicitID != "" {
		id, err := strconv.ParseUint(explicitID, 10, 32)
		if err != nil {
			return nil, ErrUnknownSite
		}
		found, err := s.repo.GetByID(ctx, uint(id))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownSite
		}
		if err != nil {
			return nil, err
		}
		return found, nil
	}

	if domain := hostOnly(host); domain != "" {
		found, err := s.repo.GetByDomain(ctx, domain)
		if err == nil {
			return found, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return s.defaultSite, nil
}

func hostOnly(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(strings.TrimPrefix(host, "www."))
}
