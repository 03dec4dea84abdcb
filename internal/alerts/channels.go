// internal/alerts/channels.go
package alerts

import (
	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// Notifier delivers an alert over one channel. Real transports (SMTP, SMS
// gateway, websocket push) live outside this service; these implementations
// record the hand-off and report success.
type Notifier interface {
	Name() string
	Deliver(alert domain.Alert) error
}

type emailNotifier struct{}

func (emailNotifier) Name() string { return "email" }

func (emailNotifier) Deliver(alert domain.Alert) error {
	log.Info().Str("channel", "email").Str("alert_id", alert.ID).
		Str("type", string(alert.Type)).Msg("alert queued for email delivery")
	return nil
}

type smsNotifier struct{}

func (smsNotifier) Name() string { return "sms" }

func (smsNotifier) Deliver(alert domain.Alert) error {
	log.Info().Str("channel", "sms").Str("alert_id", alert.ID).
		Str("type", string(alert.Type)).Msg("alert queued for sms delivery")
	return nil
}

type dashboardNotifier struct{}

func (dashboardNotifier) Name() string { return "dashboard" }

func (dashboardNotifier) Deliver(alert domain.Alert) error {
	log.Info().Str("channel", "dashboard").Str("alert_id", alert.ID).
		Str("type", string(alert.Type)).Msg("alert surfaced on dashboard")
	return nil
}

func defaultNotifiers() map[string]Notifier {
	notifiers := map[string]Notifier{}
	for _, n := range []Notifier{emailNotifier{}, smsNotifier{}, dashboardNotifier{}} {
		notifiers[n.Name()] = n
	}
	return notifiers
}
