package scanner

import (
	"context"
	"log/slog"
	"time"

	"taskboard/internal/audit"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// Scanner periodically finds overdue cards and notifies their assignees.
// Each assignee is notified at most once per day per card; repeat scans
// within that window are silent.
type Scanner struct {
	cards         *repository.CardRepository
	notifications *repository.NotificationRepository
	recorder      *audit.Recorder
	interval      time.Duration
	log           *slog.Logger
}

func New(cards *repository.CardRepository, notifications *repository.NotificationRepository, recorder *audit.Recorder, interval time.Duration, log *slog.Logger) *Scanner {
	return &Scanner{
		cards:         cards,
		notifications: notifications,
		recorder:      recorder,
		interval:      interval,
		log:           log,
	}
}

// Run blocks until ctx is cancelled, scanning once immediately and then on
// every tick.
func (s *Scanner) Run(ctx context.Context) {
	s.Scan(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Scan(ctx)
		}
	}
}

// Scan performs a single pass. Errors are logged and never abort the pass:
// one broken card must not starve the rest.
func (s *Scanner) Scan(ctx context.Context) {
	now := time.Now().UTC()

	cards, err := s.cards.Overdue(ctx, now)
	if err != nil {
		s.log.Error("overdue scan failed", "error", err)
		return
	}

	notified := 0
	for i := range cards {
		n, err := s.notifyCard(ctx, &cards[i], now)
		if err != nil {
			s.log.Error("overdue notify failed", "card_id", cards[i].ID, "error", err)
			continue
		}
		notified += n
	}

	if notified > 0 {
		s.recorder.Record(ctx, audit.Entry{
			Action:     "scan",
			EntityType: "card_overdue",
			Metadata: map[string]any{
				"overdue_cards": len(cards),
				"notified":      notified,
			},
		})
	}
	s.log.Info("overdue scan complete", "overdue_cards", len(cards), "notified", notified)
}

func (s *Scanner) notifyCard(ctx context.Context, card *model.Card, now time.Time) (int, error) {
	members, err := s.cards.Members(ctx, card.ID)
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-24 * time.Hour)
	daysOverdue := int(now.Sub(*card.DueDate).Hours() / 24)

	notified := 0
	for _, member := range members {
		seen, err := s.notifications.OverdueNotifiedSince(ctx, card.ID, member.UserID, cutoff)
		if err != nil {
			return notified, err
		}
		if seen {
			continue
		}

		notification := &model.Notification{
			UserID:  member.UserID,
			Type:    model.NotificationCardOverdue,
			Title:   "Card overdue: " + card.Title,
			Message: card.Title + " is past its due date",
			Link:    "/cards/" + card.ID.String(),
			CardID:  &card.ID,
		}
		if err := s.notifications.Create(ctx, notification); err != nil {
			return notified, err
		}
		notified++

		s.recorder.Record(ctx, audit.Entry{
			Action:     "notify",
			EntityType: "card",
			EntityID:   &card.ID,
			Metadata: map[string]any{
				"user_id":      member.UserID.String(),
				"days_overdue": daysOverdue,
			},
		})
	}
	return notified, nil
}
