package earnings

import (
	"fmt"
	"time"

	"lastmile/models"
)

// Summarize aggregates stored base quantities in the datastore and derives
// the productivity metrics in-process; nothing derived is persisted.
func (s *DefaultEarningsService) Summarize(riderID string, from, to time.Time) (*models.EarningsSummary, error) {
	totals, err := s.Repo.Summarize(riderID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize earnings for rider %s: %w", riderID, err)
	}

	summary := &models.EarningsSummary{
		RiderID:              riderID,
		From:                 from,
		To:                   to,
		DeliveryCount:        totals.DeliveryCount,
		GrossTotal:           totals.GrossTotal,
		FeeTotal:             totals.FeeTotal,
		NetTotal:             totals.NetTotal,
		BonusTotal:           totals.BonusTotal,
		FinalTotal:           totals.NetTotal + totals.BonusTotal + totals.AdjustmentTotal,
		PaidTotal:            totals.PaidTotal,
		PendingTotal:         totals.PendingTotal,
		TotalDistanceMeters:  totals.TotalDistanceMeters,
		TotalDurationMinutes: totals.TotalDurationMinutes,
	}

	if summary.DeliveryCount > 0 {
		summary.PerDelivery = summary.FinalTotal / float64(summary.DeliveryCount)
	}
	if summary.TotalDurationMinutes > 0 {
		summary.PerHour = summary.FinalTotal / (summary.TotalDurationMinutes / 60)
	}
	if summary.TotalDistanceMeters > 0 {
		summary.PerKm = summary.FinalTotal / (summary.TotalDistanceMeters / 1000)
	}
	return summary, nil
}

// GetDashboard returns the period summary plus the rider's recent entries.
func (s *DefaultEarningsService) GetDashboard(riderID string, from, to time.Time) (*Dashboard, error) {
	summary, err := s.Summarize(riderID, from, to)
	if err != nil {
		return nil, err
	}
	recent, err := s.Repo.GetRecentByRider(riderID, 20)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []models.Earnings{}
	}
	return &Dashboard{Summary: summary, Recent: recent}, nil
}
