package context

import "context"

type contextKey string

const (
	requestIDKey contextKey = "observability_request_id"
	teamIDKey    contextKey = "observability_team_id"
	memberIDKey  contextKey = "observability_member_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

func WithTeamID(ctx context.Context, teamID string) context.Context {
	if ctx == nil || teamID == "" {
		return ctx
	}
	return context.WithValue(ctx, teamIDKey, teamID)
}

func TeamIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(teamIDKey).(string)
	return value
}

func WithMemberID(ctx context.Context, memberID string) context.Context {
	if ctx == nil || memberID == "" {
		return ctx
	}
	return context.WithValue(ctx, memberIDKey, memberID)
}

func MemberIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(memberIDKey).(string)
	return value
}
