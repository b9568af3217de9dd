package auth

import (
	"context"
	"fmt"
)

type contextKey string

const senderKey contextKey = "sender"

// ContextWithSender returns a new context carrying the authenticated sender
// identity established by the envelope layer.
func ContextWithSender(ctx context.Context, sender string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, senderKey, sender)
}

// SenderFromContext retrieves the authenticated sender identity, if any.
func SenderFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value := ctx.Value(senderKey)
	if value == nil {
		return "", false
	}
	sender, ok := value.(string)
	if !ok || sender == "" {
		return "", false
	}
	return sender, true
}

// EnforceSenderScope ensures the claimed sender matches the authenticated
// identity when one is present on the context.
func EnforceSenderScope(ctx context.Context, sender string) error {
	if sender == "" {
		return fmt.Errorf("sender is required")
	}
	scoped, ok := SenderFromContext(ctx)
	if !ok {
		return nil
	}
	if scoped != sender {
		return fmt.Errorf("sender %s does not match authenticated identity %s", sender, scoped)
	}
	return nil
}
