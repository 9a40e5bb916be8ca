package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "both workspace and view_id",
			setupCtx: func() context.Context {
				ctx := context.Background()
				ctx = WithWorkspace(ctx, "/ws")
				ctx = WithViewID(ctx, "view-1")
				return ctx
			},
			wantKeys: []string{"workspace", "view_id"},
		},
		{
			name: "only workspace",
			setupCtx: func() context.Context {
				return WithWorkspace(context.Background(), "/ws")
			},
			wantKeys:  []string{"workspace"},
			wantEmpty: []string{"view_id"},
		},
		{
			name: "only view_id",
			setupCtx: func() context.Context {
				return WithViewID(context.Background(), "view-1")
			},
			wantKeys:  []string{"view_id"},
			wantEmpty: []string{"workspace"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"workspace", "view_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := tt.setupCtx()

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(ctx).Msg("test")

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("failed to parse log: %v", err)
			}

			for _, key := range tt.wantKeys {
				if _, ok := logEntry[key]; !ok {
					t.Errorf("expected %s to be present in log", key)
				}
			}

			for _, key := range tt.wantEmpty {
				if _, ok := logEntry[key]; ok {
					t.Errorf("expected %s to be absent from log", key)
				}
			}
		})
	}
}
