package notify

import (
	"context"
	"fmt"

	"github.com/northstarhq/northstar/modules/core/domain/aggregates/user"
	"github.com/northstarhq/northstar/pkg/eskiz"
)

// EskizNotifier delivers sign-in passcodes over SMS.
type EskizNotifier struct {
	sender *eskiz.Sender
}

func NewEskizNotifier(sender *eskiz.Sender) *EskizNotifier {
	return &EskizNotifier{sender: sender}
}

func (n *EskizNotifier) SendPasscode(ctx context.Context, recipient user.User, code string) error {
	return n.sender.SendSMS(ctx, recipient.Phone(), fmt.Sprintf("Your sign-in code: %s", code))
}
