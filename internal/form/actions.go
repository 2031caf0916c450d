// internal/form/actions.go
//
// Landing – Forms subsystem: post-submit actions.
//
// Context
//   After validation the Executor runs the actions named in config, in
//   order:
//
//   •  store – insert the submission into contact_submission.  A duplicate
//      ID means a retried request already landed; later actions are skipped.
//   •  relay – queue the submission for the upstream webhook.
//
//   Errors are logged and counted, never returned, so the visitor sees
//   success once the input was accepted.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/landing/internal/logger"
	"github.com/yanizio/landing/internal/metrics"
	"github.com/yanizio/landing/internal/store"
)

// Action names accepted in config.
const (
	ActionStore = "store"
	ActionRelay = "relay"
)

// storeTimeout bounds the insert once detached from the request.
const storeTimeout = 5 * time.Second

// Inserter is the slice of *store.Store the executor uses.
type Inserter interface {
	Insert(ctx context.Context, rec store.Record) (bool, error)
}

// Enqueuer is the slice of *message.Queue the executor uses.
type Enqueuer interface {
	EnqueueWebhook(ctx context.Context, id string, payload any) error
}

// Executor runs post-submit actions.  Nil Store or Relay turns the matching
// action into a logged no-op.
type Executor struct {
	Actions []string
	Store   Inserter
	Relay   Enqueuer
}

// RelayPayload is the JSON body forwarded upstream.
type RelayPayload struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Message    string    `json:"message"`
	Country    string    `json:"country,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// Execute performs the configured actions.  duplicate is true when the
// store reported the ID as already present.
func (e *Executor) Execute(ctx context.Context, sub *Submission) (duplicate bool) {
	log := logger.FromContext(ctx).With("id", sub.ID)

	for _, a := range e.Actions {
		switch a {
		case ActionStore:
			if e.Store == nil {
				log.Debugw("store action skipped, no database")
				continue
			}
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
			inserted, err := e.Store.Insert(sctx, Record(sub))
			cancel()
			if err != nil {
				actionFailed(log, a, err)
				continue
			}
			if !inserted {
				log.Infow("duplicate submission ignored")
				return true
			}

		case ActionRelay:
			if e.Relay == nil {
				log.Debugw("relay action skipped, no queue")
				continue
			}
			if err := e.Relay.EnqueueWebhook(ctx, sub.ID, Payload(sub)); err != nil {
				actionFailed(log, a, err)
			}

		default:
			log.Warnw("form action warning", "action", a, "warning", "unsupported action")
		}
	}
	return false
}

// Record maps a submission onto a storage row.
func Record(sub *Submission) store.Record {
	rec := store.Record{
		ID:         sub.ID,
		Name:       sub.Input.Name,
		Email:      sub.Input.Email,
		Phone:      sub.Input.Phone,
		Message:    sub.Input.Message,
		ReceivedAt: sub.ReceivedAt,
	}
	if info := sub.Info; info != nil {
		if info.Geo.IP != nil {
			rec.IP = info.Geo.IP.String()
		}
		rec.Country = info.Geo.CountryISO
		rec.Browser = info.UA.Browser
		rec.Device = info.UA.Device
	}
	return rec
}

// Payload maps a submission onto the relay body.
func Payload(sub *Submission) RelayPayload {
	p := RelayPayload{
		ID:         sub.ID,
		Name:       sub.Input.Name,
		Email:      sub.Input.Email,
		Phone:      sub.Input.Phone,
		Message:    sub.Input.Message,
		ReceivedAt: sub.ReceivedAt,
	}
	if sub.Info != nil {
		p.Country = sub.Info.Geo.CountryISO
	}
	return p
}

func actionFailed(log *zap.SugaredLogger, action string, err error) {
	metrics.ActionErrorsTotal.WithLabelValues(action).Inc()
	log.Errorw("form action failed", "action", action, "error", err.Error())
}
