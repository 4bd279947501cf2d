package fluuyo

import (
	"context"

	"github.com/robfig/cron/v3"
)

// startRefresher schedules the keep-alive restore when a refresh schedule
// is configured. Each tick re-runs the coalesced restore; RestoreSession
// already treats a missing token as a no-op, so the job is harmless while
// anonymous. Failures degrade the session exactly like any other failed
// restore and are only logged here.
func (c *Client) startRefresher() error {
	if c.cfg.Session.RefreshSchedule == "" {
		return nil
	}

	c.cron = cron.New()
	_, err := c.cron.AddFunc(c.cfg.Session.RefreshSchedule, func() {
		if !c.Session().Authenticated() {
			return
		}
		if _, err := c.RestoreSession(context.Background()); err != nil {
			c.log.Warn().Err(err).Msg("keep-alive session refresh failed")
		}
	})
	if err != nil {
		return err
	}
	c.cron.Start()
	return nil
}
