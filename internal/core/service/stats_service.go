package service

import (
	"context"
	"time"

	"github.com/campneus/cofre/internal/core/domain"
	"github.com/campneus/cofre/internal/core/policy"
	"github.com/campneus/cofre/internal/core/ports"
)

const latestChangesLimit = 5

// StatsService aggregates the dashboard figures: vault totals, credentials
// per category, imminent expiries, and recent changes. Metadata only.
type StatsService struct {
	credentials ports.CredentialRepository
	locations   ports.LocationRepository
	users       ports.UserRepository
}

func NewStatsService(credentials ports.CredentialRepository, locations ports.LocationRepository, users ports.UserRepository) *StatsService {
	return &StatsService{credentials: credentials, locations: locations, users: users}
}

func (s *StatsService) Dashboard(ctx context.Context, principal domain.Principal) (*ports.DashboardStats, error) {
	if !policy.Authorize(policy.Role(principal.Role), policy.OpList, policy.ResourceCredential).Granted() {
		return nil, domain.ErrForbidden
	}

	totalCredentials, err := s.credentials.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalLocations, err := s.locations.Count(ctx)
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.users.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.credentials.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expiring, err := s.credentials.ExpiringBetween(ctx, now, now.AddDate(0, 0, defaultExpiryWindowDays))
	if err != nil {
		return nil, err
	}
	latest, err := s.credentials.LatestUpdated(ctx, latestChangesLimit)
	if err != nil {
		return nil, err
	}

	categories := make(map[string]int64, len(domain.Categories))
	for _, c := range domain.Categories {
		categories[string(c)] = byCategory[c]
	}

	return &ports.DashboardStats{
		TotalCredentials: totalCredentials,
		TotalLocations:   totalLocations,
		ActiveUsers:      activeUsers,
		ByCategory:       categories,
		ExpiringSoon:     toViews(expiring),
		LatestChanges:    toViews(latest),
	}, nil
}

func toViews(items []domain.Credential) []ports.CredentialView {
	views := make([]ports.CredentialView, 0, len(items))
	for i := range items {
		views = append(views, toView(&items[i]))
	}
	return views
}
