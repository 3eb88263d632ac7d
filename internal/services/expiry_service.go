package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/justsurfingit/jobx/internal/models"
)

// SweepReport summarises one sweep run.
type SweepReport struct {
	Warned  int
	Deleted int
}

// ExpirySweeper warns owners the day before a posting ends and removes
// postings whose end date has passed.
type ExpirySweeper struct {
	postings PostingRepository
	users    UserRepository
	notices  *NotificationService
	loc      *time.Location
	now      func() time.Time
	log      *slog.Logger

	mu sync.Mutex
	// warned remembers postings already warned about, keyed by end date,
	// so repeated runs on the same day send one email per posting.
	warned map[uint]time.Time
}

func NewExpirySweeper(postings PostingRepository, users UserRepository, notices *NotificationService, loc *time.Location, log *slog.Logger) *ExpirySweeper {
	if loc == nil {
		loc = time.UTC
	}
	return &ExpirySweeper{
		postings: postings,
		users:    users,
		notices:  notices,
		loc:      loc,
		now:      time.Now,
		log:      log,
		warned:   make(map[uint]time.Time),
	}
}

// Start runs the sweep immediately and then every interval until ctx is cancelled.
func (s *ExpirySweeper) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		s.runOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				s.log.Info("expiry sweeper stopped")
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

func (s *ExpirySweeper) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	report, err := s.Run(runCtx, s.now())
	if err != nil {
		s.log.Error("expiry sweep failed", slog.String("error", err.Error()))
		return
	}
	if report.Warned > 0 || report.Deleted > 0 {
		s.log.Info("expiry sweep finished", slog.Int("warned", report.Warned), slog.Int("deleted", report.Deleted))
	}
}

// Run performs both phases for the given instant. A warning failure is logged
// and skipped; a deletion failure aborts the run.
func (s *ExpirySweeper) Run(ctx context.Context, now time.Time) (SweepReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.forgetEnded(now)
	var report SweepReport
	report.Warned = s.warnEndingTomorrow(ctx, now)

	expired, err := s.postings.EndedBefore(ctx, now)
	if err != nil {
		return report, fmt.Errorf("select expired postings: %w", err)
	}
	if len(expired) == 0 {
		return report, nil
	}
	ids := make([]uint, 0, len(expired))
	for _, p := range expired {
		ids = append(ids, p.ID)
	}
	if err := s.postings.DeleteCascade(ctx, ids...); err != nil {
		return report, fmt.Errorf("delete expired postings: %w", err)
	}
	for _, id := range ids {
		delete(s.warned, id)
	}
	report.Deleted = len(ids)
	s.log.Info("expired postings deleted", slog.Any("posting_ids", ids))
	return report, nil
}

// forgetEnded drops warnings for postings that have already ended, including
// postings removed by their owner before the sweep reached them.
func (s *ExpirySweeper) forgetEnded(now time.Time) {
	for id, end := range s.warned {
		if end.Before(now) {
			delete(s.warned, id)
		}
	}
}

func (s *ExpirySweeper) warnEndingTomorrow(ctx context.Context, now time.Time) int {
	local := now.In(s.loc)
	from := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 0, 1)

	ending, err := s.postings.EndingBetween(ctx, from, to)
	if err != nil {
		s.log.Error("failed to select postings ending tomorrow", slog.String("error", err.Error()))
		return 0
	}
	warned := 0
	for _, p := range ending {
		if end, ok := s.warned[p.ID]; ok && end.Equal(p.EndDate) {
			continue
		}
		owner, err := s.users.GetByID(ctx, p.OwnerID)
		if err != nil {
			s.log.Warn("posting owner not found", slog.Uint64("posting_id", uint64(p.ID)), slog.String("error", err.Error()))
			continue
		}
		s.notices.Email(ctx, owner.Email, "Your job posting ends tomorrow", expiryWarning(owner, p, s.loc))
		s.warned[p.ID] = p.EndDate
		warned++
	}
	return warned
}

func expiryWarning(owner *models.User, p models.Posting, loc *time.Location) string {
	return fmt.Sprintf("Hello %s,\n\nYour posting %q ends on %s. It will be removed together with its applications and messages once it expires.\n",
		owner.Name, p.Title, p.EndDate.In(loc).Format("2006-01-02"))
}
