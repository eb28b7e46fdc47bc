package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-identity/internal/domain/event"
)

// EventEnvelope is the JSON shape domain events take on the events queue.
type EventEnvelope struct {
	Name       string    `json:"name"`
	UserID     int64     `json:"user_id"`
	OccurredOn time.Time `json:"occurred_on"`
	Payload    any       `json:"payload,omitempty"`
}

func envelope(e event.DomainEvent) EventEnvelope {
	env := EventEnvelope{
		Name:       e.Name(),
		UserID:     e.AggregateID(),
		OccurredOn: e.OccurredOn(),
	}
	switch ev := e.(type) {
	case event.UserRegistered:
		env.Payload = map[string]any{"email": ev.Email, "username": ev.Username}
	case event.ProfileUpdated:
		env.Payload = ev.Changes
	case event.UserLoggedIn:
		env.Payload = map[string]any{"email": ev.Email}
	case event.UserDeactivated:
		env.Payload = map[string]any{"reason": ev.Reason}
	case event.RoleChanged:
		env.Payload = map[string]any{"role": ev.Role}
	}
	return env
}

// publishEvents drains nothing itself; callers pass the already-drained
// list after a successful save. Publication is fire-and-forget: failures
// are logged and never roll back the committed state.
func (s *Service) publishEvents(ctx context.Context, events []event.DomainEvent) {
	for _, e := range events {
		fields := logrus.Fields{"event": e.Name(), "user_id": e.AggregateID()}
		if s.Logger != nil {
			s.Logger.WithFields(fields).Info("domain event")
		}
		if s.EventsPub == nil {
			continue
		}
		if err := s.EventsPub.PublishJSON(ctx, envelope(e)); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithFields(fields).Warn("event publish failed")
		}
	}
}
