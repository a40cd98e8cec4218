package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/vietcare/platform/internal/shared/config"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// EmailProvider delivers a message to a recipient.
type EmailProvider interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPProvider delivers mail over a plain SMTP relay.
type SMTPProvider struct {
	addr string
	from string
	// env is the bare envelope sender address; from may carry a display name.
	env  string
	auth smtp.Auth
}

// NewSMTPProvider creates an SMTP provider from config. Auth is only
// attached when credentials are configured, so local relays work too.
func NewSMTPProvider(cfg config.SMTPConfig) *SMTPProvider {
	from := cfg.From
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From)
	}
	p := &SMTPProvider{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: from,
		env:  cfg.From,
	}
	if cfg.Username != "" {
		p.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return p
}

// Send delivers a message. net/smtp has no context support, so
// cancellation is checked before the dial only.
func (p *SMTPProvider) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", p.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	return smtp.SendMail(p.addr, p.auth, p.env, []string{msg.To}, []byte(b.String()))
}

// NoopProvider discards all mail. Used when SMTP is not configured.
type NoopProvider struct{}

func (NoopProvider) Send(context.Context, Message) error { return nil }

// AppointmentNotice carries the fields rendered into a booking email.
type AppointmentNotice struct {
	PatientName  string
	PatientEmail string
	DoctorName   string
	Date         string
	Time         string
	Confirmed    bool
}

// RenderAppointment renders the settled-booking email for a notice.
func RenderAppointment(n AppointmentNotice) Message {
	name := n.PatientName
	if name == "" {
		name = "Quý khách"
	}

	if n.Confirmed {
		return Message{
			To:      n.PatientEmail,
			Subject: "Xác nhận lịch khám",
			Body: fmt.Sprintf(
				"Xin chào %s,\n\n"+
					"Lịch khám của bạn với bác sĩ %s vào ngày %s lúc %s đã được XÁC NHẬN.\n\n"+
					"Vui lòng đến trước giờ hẹn 15 phút và mang theo giấy tờ tùy thân.\n\n"+
					"Trân trọng,\nVietCare",
				name, n.DoctorName, n.Date, n.Time,
			),
		}
	}

	return Message{
		To:      n.PatientEmail,
		Subject: "Thông báo lịch khám",
		Body: fmt.Sprintf(
			"Xin chào %s,\n\n"+
				"Rất tiếc, lịch khám của bạn với bác sĩ %s vào ngày %s lúc %s đã bị TỪ CHỐI.\n\n"+
				"Vui lòng đặt lại lịch khám vào thời gian khác hoặc liên hệ với chúng tôi để được hỗ trợ.\n\n"+
				"Trân trọng,\nVietCare",
			name, n.DoctorName, n.Date, n.Time,
		),
	}
}
