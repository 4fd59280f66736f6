package main

import (
	"context"
	"errors"
	"os"

	"carehq/internal/config"
	"carehq/internal/logging"
	"carehq/internal/models"
	"carehq/internal/repositories"
	"carehq/internal/services"
	"carehq/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Seeds the permission catalog, a demo tenant with its admin user, and a
// starter bed layout. Every step is idempotent so the command can run on
// each deploy.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := logging.New(cfg.Env)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	tenantRepo := repositories.NewTenantRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	roleRepo := repositories.NewRoleRepo(pool)
	permissionRepo := repositories.NewPermissionRepo(pool)
	userRoleRepo := repositories.NewUserRoleRepo(pool)
	rolePermissionRepo := repositories.NewRolePermissionRepo(pool)
	bedRepo := repositories.NewBedRepo(pool)

	tenantSvc := services.NewTenantService(tenantRepo)
	userSvc := services.NewUserService(userRepo, userRoleRepo)
	provisioningSvc := services.NewProvisioningService(tenantSvc, userSvc, roleRepo, permissionRepo, rolePermissionRepo)

	if err := provisioningSvc.EnsurePermissions(ctx); err != nil {
		logger.Fatal().Err(err).Msg("seed permissions")
	}
	logger.Info().Msg("permission catalog seeded")

	// Demo tenant. Re-running finds the existing subdomain and moves on.
	const demoSubdomain = "willowbrook"
	tenant, err := tenantRepo.GetBySubdomain(ctx, demoSubdomain)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			logger.Fatal().Err(err).Msg("look up demo tenant")
		}
		tenant, _, err = provisioningSvc.BootstrapTenant(ctx, &services.BootstrapRequest{
			TenantName:     "Willowbrook Care Home",
			Subdomain:      demoSubdomain,
			AdminEmail:     "admin@willowbrook.example",
			AdminPassword:  seedAdminPassword(),
			AdminFirstName: "Demo",
			AdminLastName:  "Admin",
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("bootstrap demo tenant")
		}
		logger.Info().Str("tenant_id", tenant.ID.String()).Msg("demo tenant created")
	} else {
		logger.Info().Str("tenant_id", tenant.ID.String()).Msg("demo tenant already present")
	}

	// Carer role with day-to-day capabilities only.
	carerPermissions := []string{
		models.PermissionName("residents", "read"),
		models.PermissionName("residents", "write"),
		models.PermissionName("beds", "read"),
		models.PermissionName("medications", "read"),
		models.PermissionName("medications", "write"),
		models.PermissionName("documents", "read"),
	}
	if _, err := provisioningSvc.EnsureRole(ctx, tenant.ID, "carer", carerPermissions); err != nil {
		logger.Fatal().Err(err).Msg("seed carer role")
	}

	seedBeds(ctx, tenant.ID, bedRepo, logger)
	logger.Info().Msg("seeding complete")
}

func seedAdminPassword() string {
	if pw := os.Getenv("SEED_ADMIN_PASSWORD"); pw != "" {
		return pw
	}
	return "changeme-on-first-login"
}

func seedBeds(ctx context.Context, tenantID uuid.UUID, bedRepo repositories.BedRepository, logger zerolog.Logger) {
	wingA := "A"
	wingB := "B"
	layout := []*models.Bed{
		{RoomNumber: "A1", Wing: &wingA, BedType: models.BedTypeStandard},
		{RoomNumber: "A2", Wing: &wingA, BedType: models.BedTypeStandard},
		{RoomNumber: "A3", Wing: &wingA, BedType: models.BedTypeProfiling},
		{RoomNumber: "B1", Wing: &wingB, BedType: models.BedTypeStandard},
		{RoomNumber: "B2", Wing: &wingB, BedType: models.BedTypeBariatric},
	}

	created := 0
	for _, bed := range layout {
		if _, err := bedRepo.GetByRoom(ctx, tenantID, bed.RoomNumber); err == nil {
			continue
		} else if !errors.Is(err, pgx.ErrNoRows) {
			logger.Fatal().Err(err).Str("room", bed.RoomNumber).Msg("look up bed")
		}

		bed.ID = uuid.New()
		bed.TenantID = tenantID
		bed.Status = models.StatusActive
		bed.Version = 1
		if err := bedRepo.Create(ctx, bed); err != nil {
			logger.Fatal().Err(err).Str("room", bed.RoomNumber).Msg("seed bed")
		}
		created++
	}
	logger.Info().Int("created", created).Msg("bed layout seeded")
}
