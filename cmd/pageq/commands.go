package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tinywasm/query"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pageq",
		Short:         "Page through the rows of a database table",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file path")
	flags.String("driver", "", "database/sql driver: sqlite3, pgx or mysql (default sqlite3)")
	flags.String("dsn", "", "data source name")
	flags.String("log-level", "", "log level (default info)")
	flags.StringP("table", "t", "", "table to read")
	flags.StringArrayP("where", "w", nil, "equality filter as column=value, repeatable")
	flags.StringArrayP("order", "o", nil, "ordering as column or column:desc, repeatable")
	_ = cmd.MarkPersistentFlagRequired("table")

	cmd.AddCommand(
		newCountCommand(),
		newPagesCommand(),
		newListCommand(),
		newFirstCommand(),
	)
	return cmd
}

// criteria builds the Criteria described by the table, where and order flags.
func criteria(cmd *cobra.Command) (query.Criteria, error) {
	table, _ := cmd.Flags().GetString("table")
	c := query.From(table)

	wheres, _ := cmd.Flags().GetStringArray("where")
	for _, w := range wheres {
		col, val, ok := strings.Cut(w, "=")
		if !ok {
			return c, fmt.Errorf("invalid --where %q: want column=value", w)
		}
		c = c.Where(query.Eq(col, val))
	}

	orders, _ := cmd.Flags().GetStringArray("order")
	for _, o := range orders {
		col, dir, _ := strings.Cut(o, ":")
		switch strings.ToLower(dir) {
		case "", "asc":
			c = c.OrderBy(col, query.Asc)
		case "desc":
			c = c.OrderBy(col, query.Desc)
		default:
			return c, fmt.Errorf("invalid --order %q: want column or column:desc", o)
		}
	}
	return c, nil
}

// open loads the config and compiles the flags into a handle over rows.
func open(cmd *cobra.Command) (*query.Session, *query.Handle[query.RowMap], error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	c, err := criteria(cmd)
	if err != nil {
		return nil, nil, err
	}
	s, _, err := cfg.session(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	h, err := query.Find[query.RowMap](s, c)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return s, h, nil
}

func newCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of matching rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, h, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := h.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newPagesCommand() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Print the number of pages of the given size",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, h, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := h.Page(0, size); err != nil {
				return err
			}
			n, err := h.PageCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	cmd.Flags().IntVarP(&size, "size", "s", 20, "page size")
	return cmd
}

func newListCommand() *cobra.Command {
	var (
		page    int
		size    int
		last    bool
		rng     string
		lock    string
		hints   []string
		stream  bool
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print a page or range of rows as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, h, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			ctx := cmd.Context()

			if rng != "" {
				start, end, err := parseRange(rng)
				if err != nil {
					return err
				}
				if _, err := h.Range(start, end); err != nil {
					return err
				}
			} else if _, err := h.Page(page, size); err != nil {
				return err
			}
			if last {
				if _, err := h.LastPage(ctx); err != nil {
					return err
				}
			}
			if lock != "" {
				mode, ok := query.ParseLockMode(strings.ToUpper(lock))
				if !ok {
					return fmt.Errorf("unknown lock mode %q", lock)
				}
				h.WithLock(mode)
			}
			for _, hint := range hints {
				name, val, _ := strings.Cut(hint, "=")
				h.WithHint(name, hintValue(val))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if stream {
				st, err := h.Stream(ctx)
				if err != nil {
					return err
				}
				for row, err := range st.All() {
					if err != nil {
						return err
					}
					if err := enc.Encode(row); err != nil {
						return err
					}
				}
			} else {
				rows, err := h.List(ctx)
				if err != nil {
					return err
				}
				for _, row := range rows {
					if err := enc.Encode(row); err != nil {
						return err
					}
				}
			}

			if summary && rng == "" {
				return printSummary(cmd, h)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&page, "page", "p", 0, "zero-based page index")
	flags.IntVarP(&size, "size", "s", 20, "page size")
	flags.BoolVar(&last, "last", false, "jump to the last page")
	flags.StringVar(&rng, "range", "", "fixed row range as start:last, replaces paging")
	flags.StringVar(&lock, "lock", "", "lock mode, e.g. pessimistic_write")
	flags.StringArrayVar(&hints, "hint", nil, "planner hint as name=value, repeatable")
	flags.BoolVar(&stream, "stream", false, "stream rows instead of loading the page")
	flags.BoolVar(&summary, "summary", false, "print the page position to stderr")
	return cmd
}

func newFirstCommand() *cobra.Command {
	var single bool

	cmd := &cobra.Command{
		Use:   "first",
		Short: "Print the first matching row as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, h, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			var row query.Optional[query.RowMap]
			if single {
				row, err = h.SingleResultOptional(cmd.Context())
			} else {
				row, err = h.FirstResultOptional(cmd.Context())
			}
			if err != nil {
				return err
			}
			v, ok := row.Get()
			if !ok {
				return query.ErrNoResult
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(v)
		},
	}

	cmd.Flags().BoolVar(&single, "single", false, "fail unless exactly one row matches")
	return cmd
}

func printSummary(cmd *cobra.Command, h *query.Handle[query.RowMap]) error {
	ctx := cmd.Context()
	p, err := h.CurrentPage()
	if err != nil {
		return err
	}
	pages, err := h.PageCount(ctx)
	if err != nil {
		return err
	}
	more, err := h.HasNextPage(ctx)
	if err != nil {
		return err
	}
	total, err := h.Count(ctx)
	if err != nil {
		return err
	}
	cmd.PrintErrf("page %d of %d (%d rows, more: %t)\n", p.Index+1, pages, total, more)
	return nil
}

func parseRange(s string) (int, int, error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid --range %q: want start:last", s)
	}
	start, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --range start: %w", err)
	}
	last, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --range last: %w", err)
	}
	return start, last, nil
}

// hintValue passes integers through as int so numeric hints such as
// timeouts in milliseconds keep their type.
func hintValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}
