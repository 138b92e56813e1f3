package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"
)

// resetTimeout bounds a single scheduled reset.
const resetTimeout = time.Minute

// Resetter zeroes every ledger row.
type Resetter interface {
	ResetAll(ctx context.Context) (int64, error)
}

// ScheduleMonthlyReset registers the automatic reset on c using a five-field
// cron spec. The caller owns starting and stopping c.
func ScheduleMonthlyReset(c *cron.Cron, spec string, ledger Resetter) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		runReset(ledger)
	})
}

func runReset(ledger Resetter) {
	ctx, cancel := context.WithTimeout(context.Background(), resetTimeout)
	defer cancel()

	n, err := ledger.ResetAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("scheduled monthly reset failed")
		return
	}
	logrus.WithField("rows", n).Info("scheduled monthly reset completed")
}
