package ports

import (
	"context"

	"github.com/campneus/cofre/internal/core/domain"
)

// DashboardStats is the aggregate view shown on the vault dashboard.
type DashboardStats struct {
	TotalCredentials int64            `json:"total_credentials"`
	TotalLocations   int64            `json:"total_locations"`
	ActiveUsers      int64            `json:"active_users"`
	ByCategory       map[string]int64 `json:"by_category"`
	ExpiringSoon     []CredentialView `json:"expiring_soon"`
	LatestChanges    []CredentialView `json:"latest_changes"`
}

// StatsService aggregates vault-wide dashboard figures.
type StatsService interface {
	Dashboard(ctx context.Context, principal domain.Principal) (*DashboardStats, error)
}
