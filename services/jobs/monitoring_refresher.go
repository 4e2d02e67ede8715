package jobs

import (
	"context"
	"log"
	"time"

	"legal_office_go/config"
	"legal_office_go/models"
	"legal_office_go/services"
	"legal_office_go/services/judicial"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartScheduler registers the daily refresh and digest jobs. The refresh
// pulls docket updates for every monitored case (the fallback path for
// webhooks the provider never delivered), then company watches are
// re-checked and firms get their digest email.
func StartScheduler(database *gorm.DB, cfg *config.Config, provider judicial.Provider) *cron.Cron {
	loc, err := time.LoadLocation(cfg.RefreshTimezone)
	if err != nil {
		log.Printf("[CRON] unknown timezone %q, using UTC", cfg.RefreshTimezone)
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.RefreshCronSpec, func() {
		ctx := context.Background()
		RefreshMonitoredCases(ctx, database, provider)
		RefreshCompanyWatches(ctx, database, provider)
		SendDocketDigests(ctx, database, cfg)
	})
	if err != nil {
		log.Fatalf("[CRON] failed to schedule refresh job: %v", err)
	}

	c.Start()
	log.Printf("[CRON] scheduler started (spec %q, tz %s)", cfg.RefreshCronSpec, loc)
	return c
}

// RefreshMonitoredCases pulls the current detail for every monitored case
// and ingests whatever docket entries are new. Per-case failures are logged
// and skipped so one broken case does not starve the rest.
func RefreshMonitoredCases(ctx context.Context, database *gorm.DB, provider judicial.Provider) {
	var cases []models.CaseRecord
	if err := database.Where("monitoring_active = ?", true).Find(&cases).Error; err != nil {
		log.Printf("[JOB] failed to list monitored cases: %v", err)
		return
	}
	log.Printf("[JOB] refreshing %d monitored case(s)", len(cases))

	resolver := services.NewCaseResolver(database)
	docket := services.NewDocketService(database)

	for i := range cases {
		if err := ctx.Err(); err != nil {
			log.Printf("[JOB] refresh aborted: %v", err)
			return
		}
		if err := refreshCase(ctx, database, provider, resolver, docket, &cases[i]); err != nil {
			log.Printf("[JOB] case %s refresh failed: %v", cases[i].CaseNumber, err)
		}

		time.Sleep(1 * time.Second) // Be polite
	}
}

func refreshCase(ctx context.Context, database *gorm.DB, provider judicial.Provider, resolver *services.CaseResolver, docket *services.DocketService, record *models.CaseRecord) error {
	detail, err := provider.FetchCaseDetail(ctx, record.CaseNumber)
	if err != nil {
		return err
	}

	in := services.IncomingFromDetail(*detail, record.Origin)
	merged, _, err := resolver.Resolve(ctx, record.FirmID, in)
	if err != nil {
		return err
	}

	if _, err := docket.Ingest(ctx, merged.ID, detail.DocketEntries); err != nil {
		return err
	}

	services.ArchiveCapture(ctx, database, services.Archive, merged)
	return nil
}

// RefreshCompanyWatches re-runs discovery for every watch.
func RefreshCompanyWatches(ctx context.Context, database *gorm.DB, provider judicial.Provider) {
	resolver := services.NewCaseResolver(database)
	search := services.NewSearchService(database, provider, resolver)
	watches := services.NewCompanyWatchService(database, search)

	if err := watches.RefreshAll(ctx); err != nil {
		log.Printf("[JOB] company watch refresh aborted: %v", err)
	}
}

// SendDocketDigests emails each firm a summary of its unread updates.
func SendDocketDigests(ctx context.Context, database *gorm.DB, cfg *config.Config) {
	var firms []models.Firm
	if err := database.Where("notify_email != ''").Find(&firms).Error; err != nil {
		log.Printf("[JOB] failed to list firms for digest: %v", err)
		return
	}

	for _, firm := range firms {
		var cases []models.CaseRecord
		err := database.WithContext(ctx).
			Preload("DocketUpdates", "read = ?", false).
			Where("firm_id = ? AND unread_update_count > 0", firm.ID).
			Find(&cases).Error
		if err != nil {
			log.Printf("[JOB] failed to load digest cases for firm %s: %v", firm.Name, err)
			continue
		}
		if err := services.SendDocketDigest(cfg, &firm, cases); err != nil {
			log.Printf("[JOB] digest for firm %s failed: %v", firm.Name, err)
		}
	}
}
