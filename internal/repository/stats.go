package repository

import (
	"context"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// StatsRepository computes the admin dashboard counters.
type StatsRepository interface {
	PlatformStats(ctx context.Context) (*models.PlatformStats, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

type statusCount struct {
	Status models.SwapStatus
	Count  int64
}

func (r *statsRepository) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	db := r.db.WithContext(ctx)
	stats := &models.PlatformStats{SwapsByStatus: make(map[models.SwapStatus]int64, len(models.AllSwapStatuses))}
	for _, s := range models.AllSwapStatuses {
		stats.SwapsByStatus[s] = 0
	}

	counts := []struct {
		model any
		dest  *int64
	}{
		{&models.User{}, &stats.TotalUsers},
		{&models.SkillOffered{}, &stats.TotalSkillsOffered},
		{&models.SkillWanted{}, &stats.TotalSkillsWanted},
		{&models.Swap{}, &stats.TotalSwaps},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	// Active users are the distinct users that appear in any swap.
	err := db.Raw(`SELECT COUNT(*) FROM (
		SELECT requester_id AS user_id FROM swaps
		UNION
		SELECT provider_id AS user_id FROM swaps
	) participants`).Scan(&stats.ActiveUsers).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var byStatus []statusCount
	if err := db.Model(&models.Swap{}).Select("status, COUNT(*) AS count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, row := range byStatus {
		stats.SwapsByStatus[row.Status] = row.Count
	}

	return stats, nil
}
