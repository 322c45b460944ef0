package requestctx

import "context"

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	apiTokenKey  ctxKey = "api_token"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

// WithAPIToken attaches the upstream API token of the current session.
func WithAPIToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, apiTokenKey, token)
}

func GetAPIToken(ctx context.Context) string {
	if value, ok := ctx.Value(apiTokenKey).(string); ok {
		return value
	}
	return ""
}
