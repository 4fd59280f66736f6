package background

import (
	"context"
	"sync"
	"time"

	"carehq/internal/analytics"
	"carehq/internal/models"
	"carehq/internal/services"
	"carehq/pkg/pagination"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	occupancyRefreshInterval = 15 * time.Minute
	retentionSweepInterval   = 24 * time.Hour
	auditRetentionDays       = 2555 // seven years, the care-records retention period
	tenantPageSize           = pagination.MaxLimit
	refreshConcurrency       = 5
)

// JobScheduler runs the periodic maintenance work: warming occupancy
// snapshots and sweeping the audit retention window.
type JobScheduler struct {
	scheduler     gocron.Scheduler
	analyticsSvc  analytics.AnalyticsService
	auditSvc      services.AuditLogsService
	tenantSvc     services.TenantService
	logger        zerolog.Logger
	registeredJobs map[string]gocron.Job
	mu            sync.RWMutex
}

func NewJobScheduler(
	analyticsSvc analytics.AnalyticsService,
	auditSvc services.AuditLogsService,
	tenantSvc services.TenantService,
	logger zerolog.Logger,
) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:      scheduler,
		analyticsSvc:   analyticsSvc,
		auditSvc:       auditSvc,
		tenantSvc:      tenantSvc,
		logger:         logger.With().Str("component", "scheduler").Logger(),
		registeredJobs: make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.logger.Info().Int("jobs", len(js.registeredJobs)).Msg("starting background scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.logger.Info().Msg("stopping background scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	occupancyJob, err := js.scheduler.NewJob(
		gocron.DurationJob(occupancyRefreshInterval),
		gocron.NewTask(js.refreshOccupancySnapshots, context.Background()),
		gocron.WithName("occupancy-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	js.registeredJobs["occupancy-refresh"] = occupancyJob

	sweepJob, err := js.scheduler.NewJob(
		gocron.DurationJob(retentionSweepInterval),
		gocron.NewTask(js.sweepAuditRetention, context.Background()),
		gocron.WithName("audit-retention-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	js.registeredJobs["audit-retention-sweep"] = sweepJob

	return nil
}

// refreshOccupancySnapshots recomputes the cached occupancy figures for
// every active tenant so dashboards never serve cold reads. Tenants are
// walked page by page since the listing is clamped to a page size.
func (js *JobScheduler) refreshOccupancySnapshots(ctx context.Context) error {
	semaphore := make(chan struct{}, refreshConcurrency)
	var wg sync.WaitGroup

	total := 0
	for offset := 0; ; offset += tenantPageSize {
		tenants, err := js.tenantSvc.List(ctx, tenantPageSize, offset)
		if err != nil {
			js.logger.Error().Err(err).Msg("list tenants for occupancy refresh")
			return err
		}

		for _, tenant := range tenants {
			if tenant.Status != models.StatusActive {
				continue
			}
			wg.Add(1)
			go func(tenantID uuid.UUID) {
				defer wg.Done()
				semaphore <- struct{}{}
				defer func() { <-semaphore }()

				if err := js.analyticsSvc.RefreshOccupancy(ctx, tenantID); err != nil {
					js.logger.Error().Err(err).Str("tenant_id", tenantID.String()).Msg("refresh occupancy")
				}
			}(tenant.ID)
		}

		total += len(tenants)
		if len(tenants) < tenantPageSize {
			break
		}
	}
	wg.Wait()

	js.logger.Debug().Int("tenants", total).Msg("occupancy refresh complete")
	return nil
}

// sweepAuditRetention flags audit records past the retention window. The
// records stay queryable; nothing is deleted.
func (js *JobScheduler) sweepAuditRetention(ctx context.Context) error {
	flagged, err := js.auditSvc.ExpireOldRecords(ctx, auditRetentionDays)
	if err != nil {
		js.logger.Error().Err(err).Msg("audit retention sweep")
		return err
	}
	if flagged > 0 {
		js.logger.Info().Int64("flagged", flagged).Msg("audit records marked expired")
	}
	return nil
}

// JobStatus reports the registered jobs, for the readiness endpoint.
func (js *JobScheduler) JobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.registeredJobs))
	for name := range js.registeredJobs {
		names = append(names, name)
	}
	return map[string]interface{}{
		"total_jobs": len(js.registeredJobs),
		"jobs":       names,
	}
}
