package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"
)

// Job ids.
const (
	JobFleetTick       = "fleet_tick"
	JobFleetAlerts     = "fleet_alerts"
	JobUploadRetention = "upload_retention"
)

// setupJobs configures all scheduled jobs.
func (e *Engine) setupJobs() error {
	tick := e.cfg.Fleet.TickInterval
	if err := e.scheduler.AddSingletonJob(
		JobFleetTick,
		"Fleet Tick",
		"Advances the fleet simulator and caches the snapshot",
		"every "+tick.String(),
		gocron.DurationJob(tick),
		e.runFleetTick,
		false,
	); err != nil {
		return fmt.Errorf("failed to add fleet tick job: %w", err)
	}

	alertInterval := e.cfg.Fleet.AlertInterval
	if err := e.scheduler.AddSingletonJob(
		JobFleetAlerts,
		"Fleet Alerts",
		"Publishes new fleet alerts to ntfy and web push",
		"every "+alertInterval.String(),
		gocron.DurationJob(alertInterval),
		e.runFleetAlerts,
		false,
	); err != nil {
		return fmt.Errorf("failed to add fleet alerts job: %w", err)
	}

	schedule := e.cfg.CSV.RetentionSchedule
	if err := e.scheduler.AddSingletonJob(
		JobUploadRetention,
		"Upload Retention",
		fmt.Sprintf("Deletes upload records older than %d days", e.cfg.CSV.RetentionDays),
		schedule,
		gocron.CronJob(schedule, false),
		e.runUploadRetention,
		false,
	); err != nil {
		return fmt.Errorf("failed to add upload retention job: %w", err)
	}

	log.Info("Scheduled jobs configured successfully")
	return nil
}

func (e *Engine) runFleetTick(ctx context.Context) error {
	stats := e.simulator.Tick()
	if err := e.cache.SetFleetStats(ctx, stats); err != nil {
		return fmt.Errorf("failed to cache fleet stats: %w", err)
	}
	log.Debug("Fleet ticked", "total", stats.Total, "rented", stats.Rented, "available", stats.Available)
	return nil
}

// runFleetAlerts publishes alerts that were not part of the previous run.
func (e *Engine) runFleetAlerts(ctx context.Context) error {
	alerts := e.currentAlerts()

	e.alertMu.Lock()
	current := make(map[string]struct{}, len(alerts))
	var fresh []int
	for i, a := range alerts {
		key := string(a.Type) + "|" + a.Title + "|" + a.Description
		current[key] = struct{}{}
		if _, seen := e.lastAlerts[key]; !seen {
			fresh = append(fresh, i)
		}
	}
	e.lastAlerts = current
	e.alertMu.Unlock()

	if len(fresh) == 0 {
		log.Debug("No new fleet alerts")
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, sender := range e.alerters {
		if !sender.Enabled() {
			continue
		}
		g.Go(func() error {
			var errs []error
			for _, i := range fresh {
				if err := sender.SendAlert(gctx, alerts[i]); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to publish fleet alerts: %w", err)
	}

	log.Info("Published fleet alerts", "count", len(fresh))
	return nil
}

func (e *Engine) runUploadRetention(ctx context.Context) error {
	cutoff := e.now().Add(-time.Duration(e.cfg.CSV.RetentionDays) * 24 * time.Hour)
	deleted, err := e.db.DeleteUploadsOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete old uploads: %w", err)
	}
	if err := e.cache.UploadCache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear upload cache: %w", err)
	}
	log.Info("Upload retention completed", "deleted", deleted, "cutoff", cutoff.Format(time.DateOnly))
	return nil
}
