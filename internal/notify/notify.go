// Package notify turns realtime and flow outcomes into operator notices.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notice struct {
	Level   Level
	Title   string
	Message string
}

func (n Notice) String() string {
	if n.Message == "" {
		return fmt.Sprintf("[%s] %s", n.Level, n.Title)
	}
	return fmt.Sprintf("[%s] %s: %s", n.Level, n.Title, n.Message)
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

type logNotifier struct {
	l logger.Logger
}

func NewLogNotifier(l logger.Logger) Notifier {
	return &logNotifier{l: l}
}

func (n *logNotifier) Notify(ctx context.Context, notice Notice) {
	switch notice.Level {
	case LevelError:
		n.l.Errorw(ctx, notice.Title, "message", notice.Message)
	case LevelWarning:
		n.l.Warnw(ctx, notice.Title, "message", notice.Message)
	default:
		n.l.Infow(ctx, notice.Title, "message", notice.Message)
	}
}

type writerNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier prints one notice per line to w.
func NewWriterNotifier(w io.Writer) Notifier {
	return &writerNotifier{w: w}
}

func (n *writerNotifier) Notify(_ context.Context, notice Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, notice.String())
}

type multi []Notifier

// Multi fans a notice out to every notifier in order.
func Multi(ns ...Notifier) Notifier {
	return multi(ns)
}

func (m multi) Notify(ctx context.Context, n Notice) {
	for _, notifier := range m {
		notifier.Notify(ctx, n)
	}
}

type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}
