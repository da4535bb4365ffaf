// Package watch runs the background due-date scan: checklists
// approaching or past their due date produce notifications.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/obratrack/obratrack/internal/model"
	"github.com/obratrack/obratrack/internal/store"
)

// ScanResultMsg is a tea.Msg sent when a due-date scan completes.
type ScanResultMsg struct {
	Created []model.Notification
	Error   error
}

// scanTimeout bounds a single store scan.
const scanTimeout = 15 * time.Second

// Watcher periodically scans open checklists and records due-soon and
// overdue notifications. The store deduplicates per checklist and kind,
// so repeated scans never renotify.
type Watcher struct {
	store    store.Store
	interval time.Duration
	dueSoon  time.Duration
	logger   *slog.Logger

	resultCh  chan ScanResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        sync.Mutex
	running   bool
}

// New creates a Watcher. interval is the scan period; dueSoon is how
// far ahead of the due date the first warning fires.
func New(s store.Store, interval, dueSoon time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if dueSoon <= 0 {
		dueSoon = 48 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		store:     s,
		interval:  interval,
		dueSoon:   dueSoon,
		logger:    logger,
		resultCh:  make(chan ScanResultMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the scan loop and returns a tea.Cmd subscribed to its
// results.
func (w *Watcher) Start() tea.Cmd {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	go w.loop()

	return w.waitForResult()
}

// Stop halts the scan loop.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	close(w.stopCh)
	w.running = false
}

// Refresh triggers an immediate scan.
func (w *Watcher) Refresh() tea.Cmd {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
	return nil
}

func (w *Watcher) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Initial scan immediately
	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		case <-w.triggerCh:
			w.scan()
		}
	}
}

// scan walks every non-terminal checklist with a due date and records
// the notifications its deadline warrants.
func (w *Watcher) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	now := time.Now().UTC()

	var open []model.Checklist
	for _, status := range []string{
		model.ChecklistStatusDraft,
		model.ChecklistStatusInProgress,
		model.ChecklistStatusPending,
	} {
		st := status
		checklists, err := w.store.GetChecklists(ctx, store.ChecklistFilter{Status: &st})
		if err != nil {
			w.logger.Error("due-date scan failed", "status", status, "error", err)
			w.sendResult(ScanResultMsg{Error: err})
			return
		}
		open = append(open, checklists...)
	}

	var created []model.Notification
	for _, c := range open {
		if c.DueDate == nil {
			continue
		}

		var kind, message string
		switch {
		case now.After(*c.DueDate):
			kind = model.NotificationOverdue
			message = fmt.Sprintf("%q is overdue (due %s)", c.Title, c.DueDate.Format("2006-01-02"))
		case c.DueDate.Sub(now) <= w.dueSoon:
			kind = model.NotificationDueSoon
			message = fmt.Sprintf("%q is due %s", c.Title, c.DueDate.Format("2006-01-02"))
		default:
			continue
		}

		n := model.Notification{
			ChecklistID: c.ID,
			Kind:        kind,
			Message:     message,
		}
		inserted, err := w.store.CreateNotification(ctx, n)
		if err != nil {
			w.logger.Error("recording notification", "checklist", c.ID, "kind", kind, "error", err)
			continue
		}
		if inserted {
			w.logger.Info("due-date notification", "checklist", c.ID, "kind", kind)
			created = append(created, n)
		}
	}

	w.sendResult(ScanResultMsg{Created: created})
}

// sendResult sends on the result channel without blocking.
func (w *Watcher) sendResult(msg ScanResultMsg) {
	select {
	case w.resultCh <- msg:
	default:
	}
}

func (w *Watcher) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-w.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult resubscribes after a ScanResultMsg has been handled.
func (w *Watcher) WaitForNextResult() tea.Cmd {
	return w.waitForResult()
}
