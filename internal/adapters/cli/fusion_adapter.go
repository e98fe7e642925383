package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/garden/internal/core/sales"
	"github.com/example/garden/internal/ports/primary"
)

// FusionAdapter translates fuse commands to FusionService calls.
type FusionAdapter struct {
	service  primary.FusionService
	currency string
	out      io.Writer
}

// NewFusionAdapter creates a new FusionAdapter.
func NewFusionAdapter(service primary.FusionService, currency string, out io.Writer) *FusionAdapter {
	return &FusionAdapter{service: service, currency: currency, out: out}
}

// Fuse runs a fusion, asking confirm before it is applied. A nil confirm
// applies it immediately.
func (a *FusionAdapter) Fuse(ctx context.Context, userID string, args []string, confirm primary.ConfirmFunc) error {
	resp, err := a.service.Fuse(ctx, primary.FuseRequest{UserID: userID, Args: args, Confirm: confirm})
	if err != nil {
		return err
	}
	if !resp.Fused {
		printErrors(a.out, resp.Errors)
		return nil
	}

	p := resp.Preview
	name := p.Name
	if p.IsNew {
		name = highlight.Sprint("[NEW] ") + name
	}
	fmt.Fprintf(a.out, "%s Fused %s into %s [%s] in plot %d\n", okMark, strings.Join(p.Inputs, " + "), name, p.Tier, p.OutputSlot)
	if p.Bonus > 0 {
		fmt.Fprintf(a.out, "  Discovery bonus: %s %s. Balance: %s %s\n", sales.Commas(p.Bonus), a.currency, sales.Commas(resp.Balance), a.currency)
	}
	for _, bg := range resp.UnlockedBackgrounds {
		fmt.Fprintf(a.out, "  %s\n", highlight.Sprintf("Background unlocked: %s", bg))
	}
	return nil
}

// PromptConfirm returns a ConfirmFunc that prints the preview to out and
// takes the next line from lines as the answer. It gives up when ctx is done.
func PromptConfirm(lines <-chan string, out io.Writer) primary.ConfirmFunc {
	return func(ctx context.Context, preview primary.FusionPreview) (bool, error) {
		label := preview.Name
		if preview.IsNew {
			label = "[NEW] " + label
		}
		fmt.Fprintf(out, "Fuse %s into %s [%s] in plot %d? (yes/no) ",
			strings.Join(preview.Inputs, " + "), label, preview.Tier, preview.OutputSlot)

		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return false, ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return false, io.EOF
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "y", "yes":
				return true, nil
			}
			return false, nil
		}
	}
}

// ReadLines streams lines from r until EOF, then closes the channel.
func ReadLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

// AlmanacAdapter translates almanac queries to AlmanacService calls.
type AlmanacAdapter struct {
	service primary.AlmanacService
	out     io.Writer
}

// NewAlmanacAdapter creates a new AlmanacAdapter.
func NewAlmanacAdapter(service primary.AlmanacService, out io.Writer) *AlmanacAdapter {
	return &AlmanacAdapter{service: service, out: out}
}

// Available lists fusions craftable right now.
func (a *AlmanacAdapter) Available(ctx context.Context, userID, query string) error {
	page, err := a.service.Available(ctx, userID, query)
	if err != nil {
		return err
	}
	if page.Total == 0 {
		fmt.Fprintln(a.out, "Nothing can be fused with what you have right now")
		return nil
	}

	fmt.Fprintf(a.out, "\nAvailable fusions (%d)\n", page.Total)
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, e := range page.Entries {
		name := e.Name
		if e.IsNew {
			name = highlight.Sprint("[NEW] ") + name
		}
		fmt.Fprintf(a.out, "%s [%s]  %s\n", name, e.Tier, dim.Sprint(strings.Join(e.Recipe, " + ")))
		if len(e.Unstore) > 0 {
			fmt.Fprintf(a.out, "  unstore %s first\n", joinInts(e.Unstore))
		}
		fmt.Fprintf(a.out, "  fuse %s\n", strings.Join(e.FuseArgs, " "))
	}
	fmt.Fprintln(a.out, dim.Sprintf("page %d/%d", page.Page, page.TotalPages))
	return nil
}

// Discover lists undiscovered fusions and what is missing.
func (a *AlmanacAdapter) Discover(ctx context.Context, userID, query string) error {
	page, err := a.service.Discover(ctx, userID, query)
	if err != nil {
		return err
	}
	if page.Total == 0 {
		fmt.Fprintln(a.out, "No potential discoveries match")
		return nil
	}

	fmt.Fprintf(a.out, "\nPotential discoveries (%d)\n", page.Total)
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, e := range page.Entries {
		mark := "  "
		if e.Craftable {
			mark = okMark + " "
		}
		fmt.Fprintf(a.out, "%s%s [%s]  %s\n", mark, e.Name, e.Tier, dim.Sprint(strings.Join(e.Recipe, " + ")))
		if len(e.Have) > 0 {
			fmt.Fprintf(a.out, "    have:    %s\n", strings.Join(e.Have, ", "))
		}
		if len(e.Needed) > 0 {
			fmt.Fprintf(a.out, "    missing: %s\n", warn.Sprint(strings.Join(e.Needed, ", ")))
		}
	}
	fmt.Fprintln(a.out, dim.Sprintf("page %d/%d", page.Page, page.TotalPages))
	return nil
}

// Discovered lists crafted fusions.
func (a *AlmanacAdapter) Discovered(ctx context.Context, userID, query string) error {
	page, err := a.service.Discovered(ctx, userID, query)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nAlmanac: %d/%d discovered\n", page.Discovered, page.Total)
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, e := range page.Entries {
		name := e.Name
		if e.Hidden {
			name += warn.Sprint(" (secret)")
		}
		fmt.Fprintf(a.out, "%s [%s]  %s\n", name, e.Tier, dim.Sprint(strings.Join(e.Recipe, " + ")))
	}
	fmt.Fprintln(a.out, dim.Sprintf("page %d/%d", page.Page, page.TotalPages))
	return nil
}

// Info shows one fusion.
func (a *AlmanacAdapter) Info(ctx context.Context, userID, query string) error {
	info, err := a.service.Info(ctx, userID, query)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\n%s (%s)\n", info.Name, info.ID)
	fmt.Fprintf(a.out, "Tier:   %s\n", info.Tier)
	fmt.Fprintf(a.out, "Recipe: %s\n", strings.Join(info.Recipe, " + "))
	fmt.Fprintln(a.out)
	return nil
}
