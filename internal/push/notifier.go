package push

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/navidakram1/splitduty/internal/store"
)

// Notifier delivers "you've been assigned" notifications to the chosen
// member's registered devices. Delivery is best-effort: failures are logged
// and never surface to the assignment caller.
type Notifier struct {
	svc    *Service
	store  *store.PushStore
	logger *slog.Logger
}

func NewNotifier(svc *Service, st *store.PushStore, logger *slog.Logger) *Notifier {
	return &Notifier{svc: svc, store: st, logger: logger}
}

// NotifyAssigned pushes the assignment outcome to every subscription the
// assignee has registered. Expired subscriptions (410 Gone) are pruned.
func (n *Notifier) NotifyAssigned(memberID int64, taskTitle, reason string) {
	if n == nil || n.svc == nil {
		return
	}

	subs, err := n.store.ListByMember(memberID)
	if err != nil {
		n.logger.Warn("list push subscriptions", "member_id", memberID, "error", err)
		return
	}

	title := "New task assigned"
	body := reason
	if taskTitle != "" {
		body = fmt.Sprintf("%s: %s", taskTitle, reason)
	}

	for i := range subs {
		sub := &subs[i]
		err := n.svc.Send(sub, Payload{
			Title: title,
			Body:  body,
			Tag:   "task_assigned",
		})
		if errors.Is(err, ErrExpired) {
			if delErr := n.store.Delete(sub.ID); delErr != nil {
				n.logger.Warn("prune expired subscription", "id", sub.ID, "error", delErr)
			}
			continue
		}
		if err != nil {
			n.logger.Warn("send assignment push", "id", sub.ID, "member_id", memberID, "error", err)
		}
	}
}
