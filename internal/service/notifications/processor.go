package notifications

import (
	"context"
	"fmt"

	"poslito/internal/logx"
	"poslito/internal/notify"
)

type action func(ctx context.Context, e notify.Event) error

// Processor turns delivery lifecycle events into outbound notifications.
type Processor struct {
	mailer  Mailer
	logger  logx.Logger
	actions map[string]action
}

// NewProcessor creates a new notifications Processor.
func NewProcessor(mailer Mailer, logger logx.Logger) *Processor {
	p := &Processor{mailer: mailer, logger: logger}
	p.actions = map[string]action{
		notify.KindDeliveryCreated:   p.onCreated,
		notify.KindDeliveryAssigned:  p.onAssigned,
		notify.KindDeliveryDelivered: p.onDelivered,
	}
	return p
}

// Handle processes a single event. Unknown kinds are skipped; a mailer error
// is returned so the consumer retries the message.
func (p *Processor) Handle(ctx context.Context, e notify.Event) error {
	fn, ok := p.actions[e.Kind]
	if !ok {
		p.logger.Warn("unknown notification kind", logx.String("kind", e.Kind))
		return nil
	}
	if err := fn(ctx, e); err != nil {
		return err
	}
	p.logger.Info("notification sent",
		logx.String("event", "notification_sent"),
		logx.String("kind", e.Kind),
		logx.String("safe_id", e.DeliverySafeID),
	)
	return nil
}

func (p *Processor) onCreated(ctx context.Context, e notify.Event) error {
	return p.mailer.Send(ctx, Mail{
		To:      []string{e.ReceiverEmail},
		Subject: "A parcel is on its way to you",
		Body:    fmt.Sprintf("A delivery (%s) containing %q has been registered for you. Track it with id %s.", e.DeliverySafeID, e.ItemName, e.DeliverySafeID),
	})
}

func (p *Processor) onAssigned(ctx context.Context, e notify.Event) error {
	return p.mailer.Send(ctx, Mail{
		To:      []string{e.SenderEmail, e.ReceiverEmail},
		Subject: "A courier picked up your delivery",
		Body:    fmt.Sprintf("Delivery %s has been taken over by a courier and is about to be picked up.", e.DeliverySafeID),
	})
}

func (p *Processor) onDelivered(ctx context.Context, e notify.Event) error {
	return p.mailer.Send(ctx, Mail{
		To:      []string{e.SenderEmail, e.ReceiverEmail},
		Subject: "Your delivery has arrived",
		Body:    fmt.Sprintf("Delivery %s containing %q has been delivered.", e.DeliverySafeID, e.ItemName),
	})
}
