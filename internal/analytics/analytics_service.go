package analytics

import (
	"context"
	"time"

	"carehq/internal/caching"
	"carehq/internal/repositories"

	"github.com/google/uuid"
)

const occupancyCacheTTL = 5 * time.Minute

// OccupancySnapshot summarises how full a home is right now.
type OccupancySnapshot struct {
	TotalBeds    int     `json:"total_beds"`
	OccupiedBeds int     `json:"occupied_beds"`
	VacantBeds   int     `json:"vacant_beds"`
	OccupancyPct float64 `json:"occupancy_pct"`
	GeneratedAt  string  `json:"generated_at"`
}

// CensusReport breaks the resident population down by lifecycle status.
type CensusReport struct {
	ByStatus    map[string]int `json:"by_status"`
	Total       int            `json:"total"`
	GeneratedAt string         `json:"generated_at"`
}

type AnalyticsService interface {
	Occupancy(ctx context.Context, tenantID uuid.UUID) (*OccupancySnapshot, error)
	Census(ctx context.Context, tenantID uuid.UUID) (*CensusReport, error)
	RefreshOccupancy(ctx context.Context, tenantID uuid.UUID) error
}

type analyticsService struct {
	bedRepo      repositories.BedRepository
	residentRepo repositories.ResidentRepository
	cache        caching.CacheService
}

func NewAnalyticsService(bedRepo repositories.BedRepository, residentRepo repositories.ResidentRepository, cache caching.CacheService) AnalyticsService {
	return &analyticsService{
		bedRepo:      bedRepo,
		residentRepo: residentRepo,
		cache:        cache,
	}
}

func (s *analyticsService) Occupancy(ctx context.Context, tenantID uuid.UUID) (*OccupancySnapshot, error) {
	if s.cache != nil {
		cached, err := s.cache.GetOccupancy(ctx, tenantID)
		if err == nil && cached != nil {
			if snap := snapshotFromCache(cached); snap != nil {
				return snap, nil
			}
		}
	}
	return s.computeOccupancy(ctx, tenantID)
}

func (s *analyticsService) computeOccupancy(ctx context.Context, tenantID uuid.UUID) (*OccupancySnapshot, error) {
	total, occupied, err := s.bedRepo.OccupancyCounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	snap := &OccupancySnapshot{
		TotalBeds:    total,
		OccupiedBeds: occupied,
		VacantBeds:   total - occupied,
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if total > 0 {
		snap.OccupancyPct = float64(occupied) / float64(total) * 100
	}

	if s.cache != nil {
		_ = s.cache.SetOccupancy(ctx, tenantID, map[string]interface{}{
			"total_beds":    snap.TotalBeds,
			"occupied_beds": snap.OccupiedBeds,
			"vacant_beds":   snap.VacantBeds,
			"occupancy_pct": snap.OccupancyPct,
			"generated_at":  snap.GeneratedAt,
		}, occupancyCacheTTL)
	}
	return snap, nil
}

func (s *analyticsService) Census(ctx context.Context, tenantID uuid.UUID) (*CensusReport, error) {
	byStatus, err := s.residentRepo.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}
	return &CensusReport{
		ByStatus:    byStatus,
		Total:       total,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// RefreshOccupancy recomputes and recaches the snapshot. The background
// scheduler calls this so dashboards stay warm between requests.
func (s *analyticsService) RefreshOccupancy(ctx context.Context, tenantID uuid.UUID) error {
	_, err := s.computeOccupancy(ctx, tenantID)
	return err
}

func snapshotFromCache(m map[string]interface{}) *OccupancySnapshot {
	snap := &OccupancySnapshot{}
	ok := false
	if v, has := m["total_beds"].(float64); has {
		snap.TotalBeds = int(v)
		ok = true
	}
	if v, has := m["occupied_beds"].(float64); has {
		snap.OccupiedBeds = int(v)
	}
	if v, has := m["vacant_beds"].(float64); has {
		snap.VacantBeds = int(v)
	}
	if v, has := m["occupancy_pct"].(float64); has {
		snap.OccupancyPct = v
	}
	if v, has := m["generated_at"].(string); has {
		snap.GeneratedAt = v
	}
	if !ok {
		return nil
	}
	return snap
}
