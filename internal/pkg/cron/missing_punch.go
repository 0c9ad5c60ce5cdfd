package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/anomaly"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/punch"
)

// MissingPunchJobs flags users whose previous local day has only one side
// of the IN/OUT pair.
type MissingPunchJobs struct {
	organizationRepo organization.OrganizationRepository
	punchRepo        punch.PunchRepository
	anomalyRepo      anomaly.AnomalyRepository
	now              func() time.Time
}

func NewMissingPunchJobs(
	organizationRepo organization.OrganizationRepository,
	punchRepo punch.PunchRepository,
	anomalyRepo anomaly.AnomalyRepository,
	now func() time.Time,
) *MissingPunchJobs {
	if now == nil {
		now = time.Now
	}
	return &MissingPunchJobs{
		organizationRepo: organizationRepo,
		punchRepo:        punchRepo,
		anomalyRepo:      anomalyRepo,
		now:              now,
	}
}

func (j *MissingPunchJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("flag_missing_punches", interval, j.FlagMissingPunches)
}

// FlagMissingPunches sweeps every organization. A failing organization does
// not stop the others; their errors are joined.
func (j *MissingPunchJobs) FlagMissingPunches(ctx context.Context) error {
	orgIDs, err := j.organizationRepo.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list organizations: %w", err)
	}

	var errs []error
	flagged := 0
	for _, orgID := range orgIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := j.sweepOrganization(ctx, orgID)
		if err != nil {
			errs = append(errs, fmt.Errorf("org %s: %w", orgID, err))
			continue
		}
		flagged += n
	}

	if flagged > 0 {
		slog.Info("missing punches flagged", "organizations", len(orgIDs), "anomalies", flagged)
	}
	return errors.Join(errs...)
}

func (j *MissingPunchJobs) sweepOrganization(ctx context.Context, orgID string) (int, error) {
	org, err := j.organizationRepo.GetByID(ctx, orgID)
	if err != nil {
		return 0, err
	}
	clk, err := org.Clock()
	if err != nil {
		return 0, err
	}

	today := clk.StartOfDay(j.now())
	yesterday := clk.StartOfDay(today.Add(-time.Minute))

	punches, err := j.punchRepo.ListByOrgInRange(ctx, orgID, yesterday, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list punches: %w", err)
	}

	type pair struct {
		in, out *punch.Punch
	}
	byUser := make(map[string]*pair)
	var order []string
	for i := range punches {
		p := &punches[i]
		up, ok := byUser[p.UserID]
		if !ok {
			up = &pair{}
			byUser[p.UserID] = up
			order = append(order, p.UserID)
		}
		switch p.Type {
		case punch.TypeIn:
			up.in = p
		case punch.TypeOut:
			up.out = p
		}
	}

	now := j.now().UTC()
	flagged := 0
	for _, userID := range order {
		up := byUser[userID]

		var t anomaly.Type
		var related *punch.Punch
		switch {
		case up.in != nil && up.out == nil:
			t, related = anomaly.TypeMissingOut, up.in
		case up.in == nil && up.out != nil:
			t, related = anomaly.TypeMissingIn, up.out
		default:
			continue
		}

		created, err := j.anomalyRepo.CreateIfAbsent(ctx, anomaly.New(orgID, userID, yesterday, t, &related.ID, now))
		if err != nil {
			return flagged, fmt.Errorf("failed to record %s for user %s: %w", t, userID, err)
		}
		if created {
			flagged++
		}
	}
	return flagged, nil
}
