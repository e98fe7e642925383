package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/example/garden/internal/ports/primary"
)

// mockFusionService implements primary.FusionService for testing
type mockFusionService struct {
	fuseFn  func(ctx context.Context, req primary.FuseRequest) (*primary.FuseResponse, error)
	lastReq primary.FuseRequest
}

func (m *mockFusionService) Fuse(ctx context.Context, req primary.FuseRequest) (*primary.FuseResponse, error) {
	m.lastReq = req
	return m.fuseFn(ctx, req)
}

func TestFusionAdapter_Fuse(t *testing.T) {
	tests := []struct {
		name     string
		resp     *primary.FuseResponse
		contains []string
	}{
		{
			name: "new discovery",
			resp: &primary.FuseResponse{
				Fused:               true,
				Preview:             primary.FusionPreview{Name: "AB", Tier: "tier2", IsNew: true, Inputs: []string{"A", "B"}, OutputSlot: 1, Bonus: 2000},
				Balance:             2500,
				UnlockedBackgrounds: []string{"Meadow"},
			},
			contains: []string{"Fused A + B into [NEW] AB [tier2] in plot 1", "Discovery bonus: 2,000 sun. Balance: 2,500 sun", "Background unlocked: Meadow"},
		},
		{
			name:     "cancelled",
			resp:     &primary.FuseResponse{Cancelled: true, Errors: []string{"Fusion protocol has been cancelled by user directive."}},
			contains: []string{"✗ Fusion protocol has been cancelled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockFusionService{fuseFn: func(ctx context.Context, req primary.FuseRequest) (*primary.FuseResponse, error) {
				return tt.resp, nil
			}}
			var out bytes.Buffer
			adapter := NewFusionAdapter(mock, "sun", &out)

			if err := adapter.Fuse(context.Background(), "alice", []string{"1", "2"}, nil); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
			if mock.lastReq.UserID != "alice" || len(mock.lastReq.Args) != 2 {
				t.Errorf("unexpected request %+v", mock.lastReq)
			}
		})
	}
}

func TestPromptConfirm(t *testing.T) {
	preview := primary.FusionPreview{Name: "AB", Tier: "tier2", Inputs: []string{"A", "B"}, OutputSlot: 1}

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{name: "yes", answer: "yes", want: true},
		{name: "short yes", answer: " Y ", want: true},
		{name: "no", answer: "no", want: false},
		{name: "anything else", answer: "maybe", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := make(chan string, 1)
			lines <- tt.answer
			var out bytes.Buffer

			got, err := PromptConfirm(lines, &out)(context.Background(), preview)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("confirm = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "Fuse A + B into AB [tier2] in plot 1? (yes/no)") {
				t.Errorf("unexpected prompt %q", out.String())
			}
		})
	}
}

func TestPromptConfirm_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := PromptConfirm(make(chan string), io.Discard)(ctx, primary.FusionPreview{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestPromptConfirm_ClosedInput(t *testing.T) {
	lines := make(chan string)
	close(lines)

	_, err := PromptConfirm(lines, io.Discard)(context.Background(), primary.FusionPreview{})
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestReadLines(t *testing.T) {
	var got []string
	for line := range ReadLines(strings.NewReader("plant 1\nsell 2\n")) {
		got = append(got, line)
	}
	if strings.Join(got, "|") != "plant 1|sell 2" {
		t.Errorf("lines = %v", got)
	}
}
