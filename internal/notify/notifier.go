package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

type Event string

const (
	EventSubmissionApproved Event = "submission_approved"
	EventSubmissionRejected Event = "submission_rejected"
	EventUpdateApproved     Event = "update_approved"
	EventUpdateRejected     Event = "update_rejected"
	EventDeletionApproved   Event = "deletion_approved"
	EventDeletionRejected   Event = "deletion_rejected"
	EventNewReview          Event = "new_review"
)

var subjects = map[Event]string{
	EventSubmissionApproved: "Seu projeto foi aprovado",
	EventSubmissionRejected: "Seu projeto não foi aprovado",
	EventUpdateApproved:     "Atualização do projeto aprovada",
	EventUpdateRejected:     "Atualização do projeto não aprovada",
	EventDeletionApproved:   "Projeto removido da plataforma",
	EventDeletionRejected:   "Solicitação de exclusão não aprovada",
	EventNewReview:          "Seu projeto recebeu uma avaliação",
}

// Data feeds the email templates.
type Data struct {
	ProjectID   uint
	ProjectName string
	Reason      string
	Comment     string
	Rating      int
	Reply       bool
}

const sendTimeout = 30 * time.Second

// Notifier renders and dispatches status emails after a commit.
// Delivery failures are logged and never reported to the caller.
type Notifier struct {
	sender    Sender
	log       *zap.Logger
	templates map[Event]*template.Template
	async     bool
	wg        sync.WaitGroup
}

type Option func(*Notifier)

// WithSync delivers on the calling goroutine.
func WithSync() Option {
	return func(n *Notifier) { n.async = false }
}

func New(sender Sender, log *zap.Logger, opts ...Option) (*Notifier, error) {
	n := &Notifier{
		sender:    sender,
		log:       log,
		templates: make(map[Event]*template.Template, len(subjects)),
		async:     true,
	}
	for event := range subjects {
		tpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+string(event)+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", event, err)
		}
		n.templates[event] = tpl
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Render builds the message for event without sending it.
func (n *Notifier) Render(event Event, to string, data Data) (Message, error) {
	tpl, ok := n.templates[event]
	if !ok {
		return Message{}, fmt.Errorf("unknown event %q", event)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subjects[event], HTML: buf.String()}, nil
}

// Notify emails to about event. An empty recipient is skipped.
func (n *Notifier) Notify(event Event, to string, data Data) {
	to = strings.TrimSpace(to)
	if to == "" {
		n.log.Debug("no recipient for notification", zap.String("event", string(event)), zap.Uint("project_id", data.ProjectID))
		return
	}
	msg, err := n.Render(event, to, data)
	if err != nil {
		n.log.Error("render notification", zap.String("event", string(event)), zap.Error(err))
		return
	}

	if !n.async {
		n.deliver(event, data.ProjectID, msg)
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.deliver(event, data.ProjectID, msg)
	}()
}

func (n *Notifier) deliver(event Event, projectID uint, msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := n.sender.Send(ctx, msg); err != nil {
		n.log.Warn("notification failed",
			zap.String("event", string(event)),
			zap.Uint("project_id", projectID),
			zap.String("to", msg.To),
			zap.Error(err))
	}
}

// Wait blocks until in-flight deliveries finish.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
