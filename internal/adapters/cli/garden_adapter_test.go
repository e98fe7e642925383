package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/example/garden/internal/ports/primary"
)

func init() {
	color.NoColor = true
}

// mockGardenService implements primary.GardenService for testing
type mockGardenService struct {
	getProfileFn  func(ctx context.Context, userID string) (*primary.Profile, error)
	plantFn       func(ctx context.Context, req primary.PlantRequest) (*primary.PlantResponse, error)
	sellFn        func(ctx context.Context, userID string, plots []int) (*primary.SellResponse, error)
	reorderFn     func(ctx context.Context, userID string, order []int) error
	leaderboardFn func(ctx context.Context, page int) (*primary.LeaderboardPage, error)

	// Track calls for verification
	lastPlantReq primary.PlantRequest
	lastOrder    []int
}

func (m *mockGardenService) GetProfile(ctx context.Context, userID string) (*primary.Profile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx, userID)
	}
	return &primary.Profile{UserID: userID, ActiveBackground: "default"}, nil
}

func (m *mockGardenService) ClaimDaily(ctx context.Context, userID string) (*primary.DailyResponse, error) {
	return &primary.DailyResponse{Amount: 1000, Balance: 1500, NextReset: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)}, nil
}

func (m *mockGardenService) Plant(ctx context.Context, req primary.PlantRequest) (*primary.PlantResponse, error) {
	m.lastPlantReq = req
	if m.plantFn != nil {
		return m.plantFn(ctx, req)
	}
	return &primary.PlantResponse{Planted: req.Plots, Cost: 100 * len(req.Plots)}, nil
}

func (m *mockGardenService) Sell(ctx context.Context, userID string, plots []int) (*primary.SellResponse, error) {
	if m.sellFn != nil {
		return m.sellFn(ctx, userID, plots)
	}
	return &primary.SellResponse{}, nil
}

func (m *mockGardenService) Shovel(ctx context.Context, userID string, plots []int) (*primary.ShovelResponse, error) {
	return &primary.ShovelResponse{Cleared: plots}, nil
}

func (m *mockGardenService) Reorder(ctx context.Context, userID string, order []int) error {
	m.lastOrder = order
	if m.reorderFn != nil {
		return m.reorderFn(ctx, userID, order)
	}
	return nil
}

func (m *mockGardenService) Store(ctx context.Context, userID string, plots []int) (*primary.MoveResponse, error) {
	return &primary.MoveResponse{Moved: []string{"Stored A from plot 1 in storage slot 1."}}, nil
}

func (m *mockGardenService) Unstore(ctx context.Context, userID string, slots []int) (*primary.MoveResponse, error) {
	return &primary.MoveResponse{Errors: []string{"Storage slot 2 is empty."}}, nil
}

func (m *mockGardenService) ListBackgrounds(ctx context.Context, userID string) (*primary.Backgrounds, error) {
	return &primary.Backgrounds{
		Active:   "default",
		Unlocked: []primary.BackgroundInfo{{ID: "default", Name: "Default"}},
		Locked:   []primary.BackgroundInfo{{ID: "meadow", Name: "Meadow", Missing: []string{"AB"}}},
	}, nil
}

func (m *mockGardenService) SetBackground(ctx context.Context, userID, query string) (*primary.BackgroundInfo, error) {
	return &primary.BackgroundInfo{ID: query, Name: "Meadow"}, nil
}

func (m *mockGardenService) Leaderboard(ctx context.Context, page int) (*primary.LeaderboardPage, error) {
	if m.leaderboardFn != nil {
		return m.leaderboardFn(ctx, page)
	}
	return &primary.LeaderboardPage{Page: 1, TotalPages: 1}, nil
}

func (m *mockGardenService) Rank(ctx context.Context, userID string) (int, bool, error) {
	return 2, true, nil
}

func TestGardenAdapter_Profile(t *testing.T) {
	mock := &mockGardenService{
		getProfileFn: func(ctx context.Context, userID string) (*primary.Profile, error) {
			return &primary.Profile{
				UserID:           userID,
				Balance:          12500,
				ActiveBackground: "meadow",
				Garden: []primary.Plot{
					{Slot: 1, Seedling: true, Name: "Seedling", Progress: 50},
					{Slot: 2, Name: "Rose", Type: "base_plant"},
					{Slot: 3, Empty: true},
					{Slot: 7, Locked: true, Empty: true},
				},
				StorageCapacity: 4,
				Storage:         []primary.StoredPlant{{Slot: 1, Name: "AB", Type: "tier2"}, {Slot: 5, Locked: true}},
				Inventory:       []primary.InventoryLine{{ID: "dust", Name: "Dust", Quantity: 3}},
			}, nil
		},
	}
	var out bytes.Buffer
	adapter := NewGardenAdapter(mock, "sun", &out)

	if err := adapter.Profile(context.Background(), "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := out.String()
	for _, want := range []string{
		"alice's garden  (background: meadow)",
		"12,500 sun",
		"Seedling [█████░░░░░] 50.0%",
		"Rose [base_plant]",
		"locked",
		"Storage shed (4 slots)",
		"AB [tier2]",
		"Dust",
		"x3",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestGardenAdapter_Plant(t *testing.T) {
	mock := &mockGardenService{
		plantFn: func(ctx context.Context, req primary.PlantRequest) (*primary.PlantResponse, error) {
			return &primary.PlantResponse{Planted: []int{1, 2}, Cost: 200, Balance: 800, Errors: []string{"Plot 7 is locked."}}, nil
		},
	}
	var out bytes.Buffer
	adapter := NewGardenAdapter(mock, "sun", &out)

	if err := adapter.Plant(context.Background(), "alice", "chan-1", []int{1, 2, 7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.lastPlantReq.ChannelID != "chan-1" || len(mock.lastPlantReq.Plots) != 3 {
		t.Errorf("unexpected request %+v", mock.lastPlantReq)
	}
	output := out.String()
	if !strings.Contains(output, "Planted in plots 1, 2 for 200 sun. Balance: 800 sun") {
		t.Errorf("unexpected output: %s", output)
	}
	if !strings.Contains(output, "✗ Plot 7 is locked.") {
		t.Errorf("per-plot error not shown: %s", output)
	}
}

func TestGardenAdapter_Sell(t *testing.T) {
	mock := &mockGardenService{
		sellFn: func(ctx context.Context, userID string, plots []int) (*primary.SellResponse, error) {
			return &primary.SellResponse{
				Earnings:         4400,
				Sold:             []string{"Sold AB from plot 3 for 4,400 sun."},
				SunMasteryGained: 1,
				Balance:          5400,
			}, nil
		},
	}
	var out bytes.Buffer
	adapter := NewGardenAdapter(mock, "sun", &out)

	if err := adapter.Sell(context.Background(), "alice", []int{3, 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := out.String()
	for _, want := range []string{"Sold AB from plot 3", "Earned 4,400 sun. Balance: 5,400 sun", "Sun Mastery +1"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Time Mastery") {
		t.Errorf("time mastery should not be shown:\n%s", output)
	}
}

func TestGardenAdapter_ReorderError(t *testing.T) {
	mock := &mockGardenService{
		reorderFn: func(ctx context.Context, userID string, order []int) error {
			return errors.New("Garden reorder failed")
		},
	}
	var out bytes.Buffer
	adapter := NewGardenAdapter(mock, "sun", &out)

	err := adapter.Reorder(context.Background(), "alice", []int{2, 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be printed on failure, got %q", out.String())
	}
	if len(mock.lastOrder) != 2 {
		t.Errorf("order not forwarded: %v", mock.lastOrder)
	}
}

func TestGardenAdapter_Leaderboard(t *testing.T) {
	tests := []struct {
		name     string
		entries  []primary.LeaderboardEntry
		contains []string
	}{
		{
			name:     "empty",
			contains: []string{"No gardeners yet"},
		},
		{
			name: "ranked",
			entries: []primary.LeaderboardEntry{
				{Rank: 1, UserID: "bob", Balance: 90000},
				{Rank: 2, UserID: "alice", Balance: 1500},
			},
			contains: []string{"RANK", "SUN", "bob", "90,000", "page 1/1", "Your rank: #2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockGardenService{
				leaderboardFn: func(ctx context.Context, page int) (*primary.LeaderboardPage, error) {
					return &primary.LeaderboardPage{Entries: tt.entries, Page: 1, TotalPages: 1}, nil
				},
			}
			var out bytes.Buffer
			adapter := NewGardenAdapter(mock, "sun", &out)

			if err := adapter.Leaderboard(context.Background(), "alice", 1); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestGardenAdapter_Backgrounds(t *testing.T) {
	var out bytes.Buffer
	adapter := NewGardenAdapter(&mockGardenService{}, "sun", &out)

	if err := adapter.Backgrounds(context.Background(), "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "← active") || !strings.Contains(out.String(), "(missing: AB)") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
