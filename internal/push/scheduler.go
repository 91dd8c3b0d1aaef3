package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/harroway/housemate/internal/metrics"
	"github.com/harroway/housemate/internal/model"
	"github.com/harroway/housemate/internal/store"
	"github.com/harroway/housemate/internal/task"
)

// Scheduler periodically checks each subscribed house for tasks and bills
// falling due and sends reminder notifications. The push_sent ledger keeps
// every reminder to at most one send.
type Scheduler struct {
	mu       sync.RWMutex
	service  *Service
	push     *store.PushStore
	tasks    *store.TaskStore
	bills    *store.BillStore
	logger   *slog.Logger
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewScheduler(svc *Service, pushStore *store.PushStore, taskStore *store.TaskStore, billStore *store.BillStore, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		service:  svc,
		push:     pushStore,
		tasks:    taskStore,
		bills:    billStore,
		logger:   logger,
		interval: 60 * time.Second,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(time.Now().UTC())
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick(now time.Time) {
	houseIDs, err := s.push.ListHouseIDs()
	if err != nil {
		s.logger.Error("list subscribed houses", "error", err)
		return
	}

	for _, hid := range houseIDs {
		s.checkTasksDue(hid, now)
		s.checkBillsDue(hid, now)
	}
}

// checkTasksDue sends one summary per house per day covering every task that
// is due today or already overdue.
func (s *Scheduler) checkTasksDue(houseID int64, now time.Time) {
	refID := fmt.Sprintf("tasks-%s", now.Format("2006-01-02"))
	sent, err := s.push.WasSent(houseID, model.NotifTypeTaskDue, refID)
	if err != nil || sent {
		return
	}

	tasks, err := s.tasks.ListByHouse(houseID)
	if err != nil {
		s.logger.Error("list tasks for reminders", "house_id", houseID, "error", err)
		return
	}

	var due int
	for i := range tasks {
		t := &tasks[i]
		if t.Status == model.TaskStatusCompleted || t.DueDate == nil {
			continue
		}
		effective, _ := task.EffectiveStatus(t.DueDate, t.Status, now)
		if effective == task.StatusOverdue || sameDay(*t.DueDate, now) {
			due++
		}
	}
	if due == 0 {
		return
	}

	body := fmt.Sprintf("%d tasks need attention today", due)
	if due == 1 {
		body = "1 task needs attention today"
	}
	s.sendToHouse(houseID, model.NotifTypeTaskDue, Payload{
		Title: "Task Reminders",
		Body:  body,
		URL:   "/tasks",
		Tag:   "task-daily",
	})

	if err := s.push.RecordSent(houseID, model.NotifTypeTaskDue, refID); err != nil {
		s.logger.Error("record task reminder", "house_id", houseID, "error", err)
	}
}

// checkBillsDue reminds the house about each bill on the calendar day it
// falls due, once per bill.
func (s *Scheduler) checkBillsDue(houseID int64, now time.Time) {
	bills, err := s.bills.ListByHouse(houseID)
	if err != nil {
		s.logger.Error("list bills for reminders", "house_id", houseID, "error", err)
		return
	}

	for _, b := range bills {
		if !sameDay(b.DueDate, now) {
			continue
		}
		refID := fmt.Sprintf("bill-%d", b.ID)
		sent, err := s.push.WasSent(houseID, model.NotifTypeBillDue, refID)
		if err != nil || sent {
			continue
		}

		s.sendToHouse(houseID, model.NotifTypeBillDue, Payload{
			Title: "Bill Due Today",
			Body:  fmt.Sprintf("%s (%.2f) is due today", b.Title, b.Amount),
			URL:   "/bills",
			Tag:   refID,
		})

		if err := s.push.RecordSent(houseID, model.NotifTypeBillDue, refID); err != nil {
			s.logger.Error("record bill reminder", "bill_id", b.ID, "error", err)
		}
	}
}

// sendToHouse delivers a payload to every subscription in the house, pruning
// subscriptions the push service reports as gone.
func (s *Scheduler) sendToHouse(houseID int64, notifType string, payload Payload) {
	subs, err := s.push.ListByHouse(houseID)
	if err != nil {
		s.logger.Error("list subscriptions", "house_id", houseID, "error", err)
		return
	}

	for i := range subs {
		if err := s.service.Send(&subs[i], payload); err != nil {
			if errors.Is(err, ErrExpired) {
				if err := s.push.DeleteByEndpoint(subs[i].Endpoint); err != nil {
					s.logger.Error("prune expired subscription", "error", err)
				}
				continue
			}
			s.logger.Error("send reminder", "house_id", houseID, "error", err)
			continue
		}
		metrics.PushNotificationsTotal.WithLabelValues(notifType).Inc()
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
