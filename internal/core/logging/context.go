package logging

import "context"

type contextKey string

const (
	workspaceKey contextKey = "workspace"
	viewIDKey    contextKey = "view_id"
)

// WithWorkspace adds the workspace root to the context.
func WithWorkspace(ctx context.Context, root string) context.Context {
	return context.WithValue(ctx, workspaceKey, root)
}

// WithViewID adds an editor view ID to the context.
func WithViewID(ctx context.Context, viewID string) context.Context {
	return context.WithValue(ctx, viewIDKey, viewID)
}

// GetWorkspace retrieves the workspace root from the context.
// Returns empty string if not present.
func GetWorkspace(ctx context.Context) string {
	if root, ok := ctx.Value(workspaceKey).(string); ok {
		return root
	}
	return ""
}

// GetViewID retrieves the view ID from the context.
// Returns empty string if not present.
func GetViewID(ctx context.Context) string {
	if id, ok := ctx.Value(viewIDKey).(string); ok {
		return id
	}
	return ""
}
