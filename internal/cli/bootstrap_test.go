package cli

import (
	"reflect"
	"testing"

	"github.com/example/garden/internal/ctxutil"
)

func TestParsePlots(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []int
		wantErr bool
	}{
		{name: "separate args", args: []string{"1", "2", "3"}, want: []int{1, 2, 3}},
		{name: "commas", args: []string{"1,2", "5"}, want: []int{1, 2, 5}},
		{name: "keeps duplicates", args: []string{"2,2"}, want: []int{2, 2}},
		{name: "not a number", args: []string{"one"}, wantErr: true},
		{name: "only separators", args: []string{","}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePlots(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseAmountAndPage(t *testing.T) {
	if n, err := parseAmount("1,500"); err != nil || n != 1500 {
		t.Errorf("parseAmount = %d, %v", n, err)
	}
	if _, err := parseAmount("lots"); err == nil {
		t.Error("expected error for non-number")
	}
	if p, err := parsePage(nil); err != nil || p != 1 {
		t.Errorf("parsePage(nil) = %d, %v", p, err)
	}
	if _, err := parsePage([]string{"0"}); err == nil {
		t.Error("expected error for page 0")
	}
}

func TestNewContext(t *testing.T) {
	SetActor("alice", "garden-chat")
	defer SetActor("", "")

	ctx := NewContext()
	if got := ctxutil.ActorFromContext(ctx); got != "alice" {
		t.Errorf("actor = %q", got)
	}
	if got := ctxutil.ChannelFromContext(ctx); got != "garden-chat" {
		t.Errorf("channel = %q", got)
	}
}

func TestGetActorID_FallsBackToUser(t *testing.T) {
	SetActor("", "")
	t.Setenv("USER", "bob")
	if got := GetActorID(); got != "bob" {
		t.Errorf("GetActorID() = %q, want bob", got)
	}
}
