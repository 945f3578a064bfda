package core

import (
	"context"
	"testing"
)

func TestClientContext(t *testing.T) {
	ip, ua := ClientFromContext(context.Background())
	if ip != "" || ua != "" {
		t.Errorf("empty context = (%q, %q), want empty", ip, ua)
	}

	ctx := ContextWithClient(context.Background(), "192.0.2.1", "curl/8.0")
	ip, ua = ClientFromContext(ctx)
	if ip != "192.0.2.1" || ua != "curl/8.0" {
		t.Errorf("ClientFromContext() = (%q, %q)", ip, ua)
	}
}
