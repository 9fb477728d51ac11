package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/fetcher"
	"github.com/anatolykoptev/go_tube/internal/search"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a search in the persisted session and print the results",
	Long: `Run one step of the persisted search session against API_BASE_URL and
print the resulting view. Without a query the current view is printed.

Examples:
  go_tube search "golang tutorial"
  go_tube search --category channels
  go_tube search --next
  go_tube search --address "q=golang&order=date"
  go_tube search --related "golang tutorial"`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	f := searchCmd.Flags()
	f.String("category", "", "switch to videos, channels or playlists")
	f.Bool("next", false, "fetch the next page")
	f.Bool("prev", false, "fetch the previous page")
	f.String("address", "", "apply a shareable address (query string)")
	f.String("related", "", "suggest videos related to a title instead of searching")
	f.Bool("json", false, "output as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	initEngine()
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	st, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	s := newSession(ctx, fetcher.New(apiBaseURL, apiKey, nil), st)

	if related, _ := cmd.Flags().GetString("related"); related != "" {
		sugg, err := s.Related(ctx, related)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, sugg)
		}
		for i, sg := range sugg {
			fmt.Fprintf(out, "%2d. %s\n    %s\n", i+1, sg.Title, sg.Address)
		}
		return nil
	}

	if err := step(cmd, s, strings.TrimSpace(strings.Join(args, " "))); err != nil {
		var se *search.Error
		if !errors.As(err, &se) || se.Kind == search.KindEmptyQuery {
			return err
		}
	}

	v := s.View()
	if jsonOutput {
		return writeJSON(out, struct {
			View    search.View `json:"view"`
			Address string      `json:"address"`
		}{v, s.Address()})
	}
	printView(out, v, s.Address())
	return nil
}

// step applies the one session transition the flags ask for.
func step(cmd *cobra.Command, s *search.Session, query string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	if addr, _ := flags.GetString("address"); addr != "" {
		values, err := url.ParseQuery(strings.TrimPrefix(addr, "?"))
		if err != nil {
			return fmt.Errorf("invalid address: %w", err)
		}
		_, err = s.Reconcile(ctx, values)
		return err
	}
	if name, _ := flags.GetString("category"); name != "" {
		cat, err := search.ParseCategory(name)
		if err != nil {
			return err
		}
		if query == "" {
			return s.SwitchCategory(ctx, cat)
		}
		s.Store().Dispatch(search.SetCategory{Category: cat})
	}
	if query != "" {
		return s.Submit(ctx, query)
	}
	if next, _ := flags.GetBool("next"); next {
		return s.NextPage(ctx)
	}
	if prev, _ := flags.GetBool("prev"); prev {
		return s.PrevPage(ctx)
	}
	return nil
}

func printView(w io.Writer, v search.View, address string) {
	if v.Params.HasQuery() {
		fmt.Fprintf(w, "%s for %q (?%s)\n", v.Category, v.Params.Query, address)
	}
	switch v.Status {
	case search.StatusIdle:
		fmt.Fprintln(w, "No search yet.")
		return
	case search.StatusError:
		fmt.Fprintln(w, "Error:", v.Error)
		return
	case search.StatusEmpty:
		fmt.Fprintln(w, "No results found.")
		return
	}
	for i, it := range v.Items {
		fmt.Fprintf(w, "%2d. %s\n", i+1, it.Title)
		if it.ChannelTitle != "" {
			fmt.Fprintf(w, "    %s\n", it.ChannelTitle)
		}
		fmt.Fprintf(w, "    %s\n", it.URL)
	}
	var nav []string
	if v.HasPrev {
		nav = append(nav, "--prev")
	}
	if v.HasNext {
		nav = append(nav, "--next")
	}
	if len(nav) > 0 {
		fmt.Fprintf(w, "More pages: %s\n", strings.Join(nav, " "))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
