package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/staff-management-api/internal/dto"
	"github.com/yukikurage/staff-management-api/internal/live"
	"github.com/yukikurage/staff-management-api/internal/mailer"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/outbox"
)

// liveLane keeps broadcasts in commit order.
const liveLane = "live"

// Broadcaster pushes live-update events to connected clients.
type Broadcaster interface {
	Broadcast(event live.Event)
}

// Notifier turns committed writes into outbox effects.
type Notifier struct {
	outbox    *outbox.Outbox
	mail      mailer.Sender
	live      Broadcaster
	publicURL string
}

// NewNotifier creates a new Notifier. publicURL is used for links in emails.
func NewNotifier(ob *outbox.Outbox, mail mailer.Sender, live Broadcaster, publicURL string) *Notifier {
	return &Notifier{
		outbox:    ob,
		mail:      mail,
		live:      live,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

func (n *Notifier) email(name string, to []string, subject, body string) outbox.Effect {
	recipients := make([]string, 0, len(to))
	for _, addr := range to {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	return outbox.Effect{
		Name: name,
		Run: func(ctx context.Context) error {
			return n.mail.Send(ctx, recipients, subject, body)
		},
	}
}

func (n *Notifier) broadcast(name string, event live.Event) outbox.Effect {
	return outbox.Effect{
		Name: name,
		Lane: liveLane,
		Run: func(context.Context) error {
			n.live.Broadcast(event)
			return nil
		},
	}
}

func (n *Notifier) link(path string) string {
	if n.publicURL == "" {
		return ""
	}
	return "\n\n" + n.publicURL + path
}

// AccessRequestApproved emails the requester that the account is ready.
func (n *Notifier) AccessRequestApproved(req *models.AccessRequest) {
	body := fmt.Sprintf("Hello %s,\n\nYour access request has been approved. You can now sign in as %q.%s",
		req.Name, req.Username, n.link("/login"))
	n.outbox.Publish(n.email("mail.access_request_approved", []string{req.Email}, "Your access request was approved", body))
}

// AccessRequestRejected emails the requester the decision.
func (n *Notifier) AccessRequestRejected(req *models.AccessRequest) {
	body := fmt.Sprintf("Hello %s,\n\nYour access request for %q has been rejected.", req.Name, req.Username)
	n.outbox.Publish(n.email("mail.access_request_rejected", []string{req.Email}, "Your access request was rejected", body))
}

// TaskAssigned emails the assignee about a task.
func (n *Notifier) TaskAssigned(task *models.Task, assignee *models.User) {
	if assignee == nil {
		return
	}
	body := fmt.Sprintf("Hello %s,\n\nYou have been assigned the task %q (priority: %s).", assignee.Name, task.Title, task.Priority)
	if task.DueDate != nil {
		body += fmt.Sprintf("\nDue: %s", task.DueDate.Format("2006-01-02 15:04"))
	}
	body += n.link(fmt.Sprintf("/tasks/%d", task.ID))
	n.outbox.Publish(n.email("mail.task_assigned", []string{assignee.Email}, "New task: "+task.Title, body))
}

// ReportSubmitted emails every admin about a new work report.
func (n *Notifier) ReportSubmitted(report *models.WorkReport, author *models.User, admins []models.User) {
	to := make([]string, 0, len(admins))
	for _, admin := range admins {
		if admin.ID != author.ID {
			to = append(to, admin.Email)
		}
	}
	if len(to) == 0 {
		return
	}
	body := fmt.Sprintf("%s submitted a work report: %q.%s", author.Name, report.Title, n.link(fmt.Sprintf("/reports/%d", report.ID)))
	n.outbox.Publish(n.email("mail.report_submitted", to, "New work report: "+report.Title, body))
}

// MessageCreated broadcasts a new chat message.
func (n *Notifier) MessageCreated(msg dto.MessageWithSenderDTO) {
	n.outbox.Publish(n.broadcast("live.new_message", live.Event{Type: live.EventNewMessage, Data: msg}))
}

// MessageDeleted broadcasts a message removal.
func (n *Notifier) MessageDeleted(id uint64) {
	n.outbox.Publish(n.broadcast("live.delete_message", live.Event{Type: live.EventDeleteMessage, Data: dto.MessageDeletedDTO{ID: id}}))
}
