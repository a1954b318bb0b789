package shared

import "context"

type correlationKey struct{}

// WithCorrelationID attaches a correlation ID to the context so it can
// travel from the HTTP layer into settlement events.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the correlation ID carried by the context, or ""
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		return id
	}
	return ""
}
