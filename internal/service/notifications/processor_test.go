package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"poslito/internal/logx"
	"poslito/internal/notify"
)

type mockMailer struct {
	sendFn func(ctx context.Context, m Mail) error
}

func (m *mockMailer) Send(ctx context.Context, mail Mail) error {
	return m.sendFn(ctx, mail)
}

func event(kind string) notify.Event {
	return notify.Event{
		Kind:           kind,
		DeliverySafeID: "8e2c2e09-2b1f-4fb6-8c57-0a2a9f7df2ce",
		ItemName:       "books",
		SenderEmail:    "ada@example.com",
		ReceiverEmail:  "rui@example.com",
	}
}

func TestProcessor_CreatedMailsReceiverOnly(t *testing.T) {
	t.Parallel()

	var sent []Mail
	p := NewProcessor(&mockMailer{sendFn: func(_ context.Context, m Mail) error {
		sent = append(sent, m)
		return nil
	}}, logx.Nop())

	require.NoError(t, p.Handle(context.Background(), event(notify.KindDeliveryCreated)))
	require.Len(t, sent, 1)
	require.Equal(t, []string{"rui@example.com"}, sent[0].To)
}

func TestProcessor_AssignedAndDeliveredMailBothParties(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{notify.KindDeliveryAssigned, notify.KindDeliveryDelivered} {
		var sent []Mail
		p := NewProcessor(&mockMailer{sendFn: func(_ context.Context, m Mail) error {
			sent = append(sent, m)
			return nil
		}}, logx.Nop())

		require.NoError(t, p.Handle(context.Background(), event(kind)))
		require.Len(t, sent, 1)
		require.Equal(t, []string{"ada@example.com", "rui@example.com"}, sent[0].To)
	}
}

func TestProcessor_UnknownKindIsSkipped(t *testing.T) {
	t.Parallel()

	p := NewProcessor(&mockMailer{sendFn: func(context.Context, Mail) error {
		t.Fatal("mailer must not be called")
		return nil
	}}, logx.Nop())

	require.NoError(t, p.Handle(context.Background(), notify.Event{Kind: "delivery_exploded"}))
}

func TestProcessor_MailerErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("smtp down")
	p := NewProcessor(&mockMailer{sendFn: func(context.Context, Mail) error {
		return boom
	}}, logx.Nop())

	err := p.Handle(context.Background(), event(notify.KindDeliveryDelivered))
	require.ErrorIs(t, err, boom)
}
