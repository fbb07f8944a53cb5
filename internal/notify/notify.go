// Package notify dispatches best-effort notifications on resignation
// state transitions. Events are rendered as email payloads and
// published to a broker-agnostic backend; delivery to the employee or
// HR inbox is handled by a mail relay consuming the channel. Dispatch
// never blocks or fails the triggering transition.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"time"

	"github.com/exitflow/apiserver/types"
)

const (
	defaultChannel = "exitflow.notifications"
	defaultTimeout = 10 * time.Second

	EventResignationSubmitted = "resignation.submitted"
	EventResignationApproved  = "resignation.approved"
	EventResignationRejected  = "resignation.rejected"
)

// Backend defines the broker-agnostic publish operation used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// Event is the payload published for every notification.
type Event struct {
	Type      string    `json:"type"`
	Recipient string    `json:"recipient,omitempty"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service renders notification emails and publishes them fire-and-forget.
type Service struct {
	backend Backend
	channel string
	timeout time.Duration
	logger  *slog.Logger
	hrInbox string
}

// NewService constructs a Service over the given backend. A nil logger
// falls back to slog.Default.
func NewService(backend Backend, hrInbox string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		backend: backend,
		channel: defaultChannel,
		timeout: defaultTimeout,
		logger:  logger,
		hrInbox: hrInbox,
	}
}

// Close closes the underlying backend.
func (s *Service) Close() error {
	return s.backend.Close()
}

var (
	submittedTmpl = template.Must(template.New("submitted").Parse(`<h2>New Resignation Request</h2>
<p>A new resignation request has been submitted.</p>
<p><strong>Employee:</strong> {{.EmployeeName}}</p>
<p><strong>Intended Last Working Day:</strong> {{.LastWorkingDay}}</p>
<p><strong>Reason:</strong> {{.Reason}}</p>
<p>Please log in to the system to review and process this request.</p>`))

	approvedTmpl = template.Must(template.New("approved").Parse(`<h2>Resignation Request Approved</h2>
<p>Dear {{.EmployeeName}},</p>
<p>Your resignation request has been approved.</p>
<p><strong>Exit Date:</strong> {{.ExitDate}}</p>
<p>You can now complete your exit interview questionnaire by logging into the system.</p>
<p>Best regards,<br>HR Department</p>`))

	rejectedTmpl = template.Must(template.New("rejected").Parse(`<h2>Resignation Request Update</h2>
<p>Dear {{.EmployeeName}},</p>
<p>Your resignation request has been reviewed.</p>
{{if .RejectionReason}}<p><strong>Note:</strong> {{.RejectionReason}}</p>
{{end}}<p>Please contact HR for further information.</p>
<p>Best regards,<br>HR Department</p>`))
)

// ResignationSubmitted notifies HR of a new request.
func (s *Service) ResignationSubmitted(res types.Resignation) {
	s.dispatch(EventResignationSubmitted, s.hrInbox, "New Resignation Request", submittedTmpl, res)
}

// ResignationApproved notifies the employee of an approval.
func (s *Service) ResignationApproved(res types.Resignation) {
	s.dispatch(EventResignationApproved, res.EmployeeEmail, "Resignation Request Approved", approvedTmpl, res)
}

// ResignationRejected notifies the employee of a rejection.
func (s *Service) ResignationRejected(res types.Resignation) {
	s.dispatch(EventResignationRejected, res.EmployeeEmail, "Resignation Request - Status Update", rejectedTmpl, res)
}

// dispatch renders and publishes asynchronously. Errors are logged and
// discarded; the caller has already committed the state transition.
func (s *Service) dispatch(eventType, recipient, subject string, tmpl *template.Template, res types.Resignation) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, res); err != nil {
		s.logger.Error("render notification failed", "type", eventType, "err", err)
		return
	}

	event := Event{
		Type:      eventType,
		Recipient: recipient,
		Subject:   subject,
		Body:      body.String(),
		CreatedAt: time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("encode notification failed", "type", eventType, "err", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		attrs := map[string]string{"type": eventType, "resignation_id": res.ID}
		if _, err := s.backend.Publish(ctx, s.channel, data, attrs); err != nil {
			s.logger.Warn("notification publish failed", "type", eventType, "err", err)
		}
	}()
}
