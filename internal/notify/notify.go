// Package notify delivers emergency actions raised from the monitor screens.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Kind names the action that raised an alert.
type Kind string

const (
	KindEmergencyCall Kind = "emergency_call"
	KindHospitals     Kind = "nearby_hospitals"
	KindContacts      Kind = "notify_contacts"
	KindNavigate      Kind = "navigate"
)

// Title returns the human-readable heading for k.
func (k Kind) Title() string {
	switch k {
	case KindEmergencyCall:
		return "Emergency call requested"
	case KindHospitals:
		return "Nearby hospitals requested"
	case KindContacts:
		return "Emergency contacts notified"
	case KindNavigate:
		return "Navigation to hospital started"
	}
	return string(k)
}

// Alert is one emergency action with the vitals at the time it was raised.
type Alert struct {
	Kind      Kind
	Message   string
	HeartRate int
	RespRate  float64
	Risk      bool
	Hospital  string
	At        time.Time
}

// Notifier delivers alerts.
type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}

// LogNotifier records alerts in the log. It is the default when no remote
// channel is configured.
type LogNotifier struct {
	Log *logrus.Entry
}

// Notify implements Notifier.
func (n LogNotifier) Notify(_ context.Context, a Alert) error {
	if n.Log == nil {
		return nil
	}
	n.Log.WithFields(logrus.Fields{
		"kind":       string(a.Kind),
		"heart_rate": a.HeartRate,
		"resp_rate":  a.RespRate,
		"risk":       a.Risk,
		"hospital":   a.Hospital,
	}).Warn(a.Kind.Title())
	return nil
}

// Multi sends every alert to each notifier in order and joins their errors.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, a Alert) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, a); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", n, err))
		}
	}
	return errors.Join(errs...)
}
