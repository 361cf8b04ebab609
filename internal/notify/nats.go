package notify

import (
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

const ResetSubject = "accounts.password_reset.requested"

type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier publishes msgpack-encoded notices.
type NATSNotifier struct {
	pub Publisher
}

func NewNATSNotifier(pub Publisher) *NATSNotifier {
	return &NATSNotifier{pub: pub}
}

func (n *NATSNotifier) PasswordReset(_ context.Context, notice ResetNotice) error {
	payload, err := msgpack.Marshal(&notice)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}
	if err := n.pub.Publish(ResetSubject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", ResetSubject, err)
	}
	return nil
}
