package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"swscroll/internal/pager"
	"swscroll/internal/swapi"
)

type walkOptions struct {
	resource string
	anchor   int
	forward  int
	backward int
	json     bool
}

func newWalkCommand(opts *Options) *cobra.Command {
	w := &walkOptions{}

	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Load pages around an anchor and print the records in order",
		Example: "  swscroll walk --resource starships --anchor 2 --forward 1 --backward 1\n" +
			"  swscroll walk --resource people --forward 3 --json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, "-")
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("anchor") {
				w.anchor = a.cfg.Pager.AnchorPage
			}
			p := swapi.NewPager[map[string]any](a.swapi, a.cache, a.cfg.Cache.StaleTime, w.resource, w.anchor, pager.Options{Bus: a.bus})
			defer p.Close()

			if err := walk(cmd.Context(), p, w.forward, w.backward); err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), p, w.json)
		},
	}

	cmd.Flags().StringVarP(&w.resource, "resource", "r", "starships", "SWAPI resource (starships, species, people, planets, ...)")
	cmd.Flags().IntVarP(&w.anchor, "anchor", "a", 2, "anchor page number (default from pager.anchor_page)")
	cmd.Flags().IntVarP(&w.forward, "forward", "f", 1, "pages to load after the anchor")
	cmd.Flags().IntVarP(&w.backward, "backward", "b", 1, "pages to load before the anchor")
	cmd.Flags().BoolVar(&w.json, "json", false, "print one JSON record per line")
	return cmd
}

// walk loads the anchor and then up to forward/backward pages each way.
// Both directions run concurrently; a direction stops at its end.
func walk[T any](ctx context.Context, p *pager.Pager[T], forward, backward int) error {
	if err := p.Initialize(ctx); err != nil {
		return fmt.Errorf("load anchor %s: %w", p.Anchor(), err)
	}

	errs := make(chan error, 2)
	run := func(n int, load func(context.Context) (bool, error)) {
		for i := 0; i < n; i++ {
			started, err := load(ctx)
			if err != nil {
				errs <- err
				return
			}
			if !started {
				break
			}
		}
		errs <- nil
	}
	go run(forward, p.LoadNext)
	go run(backward, p.LoadPrevious)

	var first error
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil && first == nil {
			first = err
		}
	}
	return first
}

func printRecords(out io.Writer, p *pager.Pager[map[string]any], asJSON bool) error {
	snap := p.Snapshot()
	if !asJSON {
		fmt.Fprintf(out, "# pages: %d  records: %d  hasPrevious: %t  hasNext: %t\n",
			snap.Pages, snap.Records, snap.HasPrevious, snap.HasNext)
	}

	enc := json.NewEncoder(out)
	for i, rec := range p.Records() {
		if asJSON {
			if err := enc.Encode(rec); err != nil {
				return err
			}
			continue
		}
		name, _ := rec["name"].(string)
		if name == "" {
			name, _ = rec["title"].(string)
		}
		fmt.Fprintf(out, "%4d  %s\n", i+1, name)
	}
	return nil
}
