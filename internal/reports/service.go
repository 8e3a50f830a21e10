package reports

import (
	"context"
	"math"

	"github.com/senecapartners/seneca-cms-backend/internal/inventory"
	"github.com/senecapartners/seneca-cms-backend/utils"
)

// Service runs the read-only diagnostics. Nothing here writes.
type Service struct {
	repo    ReportRepository
	checker *LinkChecker
}

func NewService(repo ReportRepository, checker *LinkChecker) *Service {
	return &Service{repo: repo, checker: checker}
}

func (s *Service) Integrity(ctx context.Context, siteID uint) (*IntegrityReport, error) {
	floors, err := s.repo.FloorsMissingPlan(ctx, siteID)
	if err != nil {
		return nil, err
	}
	blocks, err := s.repo.BlocksWithoutFloors(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if floors == nil {
		floors = []inventory.Floor{}
	}
	if blocks == nil {
		blocks = []inventory.Block{}
	}
	return &IntegrityReport{FloorsMissingPlan: floors, BlocksWithoutFloors: blocks}, nil
}

// DeadLinks checks every link in videos and plan descriptions, sequentially.
func (s *Service) DeadLinks(ctx context.Context, siteID uint) (*DeadLinkReport, error) {
	sources, err := s.repo.LinkSources(ctx, siteID)
	if err != nil {
		return nil, err
	}
	report := s.checker.CheckAll(ctx, sources)
	return &report, nil
}

func (s *Service) Summary(ctx context.Context, siteID uint, dr DateRange) (*FunnelSummary, error) {
	stats, err := s.repo.FunnelStats(ctx, siteID, dr)
	if err != nil {
		return nil, err
	}
	summary := BuildFunnelSummary(dr, stats)
	return &summary, nil
}

// BuildFunnelSummary derives the conversion rate and the split average.
func BuildFunnelSummary(dr DateRange, stats FunnelStats) FunnelSummary {
	summary := FunnelSummary{
		TotalApplications:  stats.Total,
		ClosedApplications: stats.Closed,
	}
	if dr.Start != nil {
		v := dr.Start.Format(utils.DateLayout)
		summary.StartDate = &v
	}
	if dr.End != nil {
		v := dr.End.Format(utils.DateLayout)
		summary.EndDate = &v
	}
	if stats.Total > 0 {
		rate := float64(stats.Closed) / float64(stats.Total) * 100
		summary.ConversionRate = math.Round(rate*100) / 100
	}
	if stats.Closed > 0 && stats.AvgSecs != nil {
		avg := math.Round(*stats.AvgSecs*100) / 100
		summary.AvgProcessingSecs = &avg
		summary.AvgProcessing = splitDuration(int64(math.Round(*stats.AvgSecs)))
	}
	return summary
}

func splitDuration(total int64) DurationParts {
	days := total / 86400
	hours := total % 86400 / 3600
	minutes := total % 3600 / 60
	seconds := total % 60
	return DurationParts{Days: &days, Hours: &hours, Minutes: &minutes, Seconds: &seconds}
}
