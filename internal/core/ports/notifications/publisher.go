package notifications

import (
	"context"

	"github.com/SscSPs/billing_app/internal/core/domain"
)

// Publisher delivers invoice events to interested parties (message brokers, websockets, email).
type Publisher interface {
	Publish(ctx context.Context, events ...domain.InvoiceEvent) error
	Close() error
}
