// internal/infra/telegram/live_countdown.go
package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shift_rotation_bot/internal/domain/countdown"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const (
	// LiveCountdownInterval is how often the countdown message is edited.
	LiveCountdownInterval = time.Minute
	// LiveCountdownWindow bounds how long a single message keeps being edited.
	LiveCountdownWindow = 3 * time.Hour

	maxEditFailures = 3
)

// messenger is the part of *telebot.Bot a live countdown needs.
type messenger interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
	Edit(msg telebot.Editable, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

type liveEntry struct {
	cancel context.CancelFunc
}

// LiveCountdowns keeps at most one edited countdown message per chat.
type LiveCountdowns struct {
	interval time.Duration
	window   time.Duration
	now      func() time.Time

	mu     sync.Mutex
	active map[int64]*liveEntry
	wg     sync.WaitGroup
}

func NewLiveCountdowns(interval, window time.Duration) *LiveCountdowns {
	if interval <= 0 {
		interval = LiveCountdownInterval
	}
	if window <= 0 {
		window = LiveCountdownWindow
	}
	return &LiveCountdowns{
		interval: interval,
		window:   window,
		now:      time.Now,
		active:   make(map[int64]*liveEntry),
	}
}

// Start sends the countdown message and keeps editing it in the background.
// A previous countdown in the same chat is stopped.
func (l *LiveCountdowns) Start(ctx context.Context, m messenger, chat *telebot.Chat, header string, target time.Time, logCtx *logrus.Entry) error {
	text := renderCountdown(header, countdown.Tick(target, l.now()))
	msg, err := m.Send(chat, text)
	if err != nil {
		return fmt.Errorf("send countdown message: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, l.window)
	entry := &liveEntry{cancel: cancel}
	l.mu.Lock()
	if prev, ok := l.active[chat.ID]; ok {
		prev.cancel()
	}
	l.active[chat.ID] = entry
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer l.release(chat.ID, entry)

		last := text
		failures := 0
		countdown.Run(runCtx, target, l.interval, l.now, func(s countdown.State) bool {
			next := renderCountdown(header, s)
			if next == last {
				return true
			}
			if _, err := m.Edit(msg, next); err != nil {
				failures++
				logCtx.WithError(err).WithField("failures", failures).Warn("Failed to edit countdown message")
				return failures < maxEditFailures
			}
			last = next
			failures = 0
			return true
		})
		logCtx.Debug("Live countdown finished")
	}()
	return nil
}

func (l *LiveCountdowns) release(chatID int64, entry *liveEntry) {
	entry.cancel()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active[chatID] == entry {
		delete(l.active, chatID)
	}
}

// Active reports how many countdowns are still being edited.
func (l *LiveCountdowns) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.active)
}

// StopAll cancels every running countdown and waits for them to return.
func (l *LiveCountdowns) StopAll() {
	l.mu.Lock()
	for _, entry := range l.active {
		entry.cancel()
	}
	l.mu.Unlock()
	l.wg.Wait()
}

func renderCountdown(header string, s countdown.State) string {
	if s.Expired {
		return header + "\nThe shift has started."
	}
	return fmt.Sprintf("%s\nStarts in %s", header, s.Formatted)
}
