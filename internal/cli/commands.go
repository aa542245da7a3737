package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/shoplist/internal/model"
	"github.com/Makepad-fr/shoplist/internal/shoplist"
	"github.com/Makepad-fr/shoplist/internal/tui"
	"github.com/Makepad-fr/shoplist/internal/ui"
	"github.com/Makepad-fr/shoplist/internal/web"
)

func newServeCmd(e *env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the shopping list page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := e.cfg.Server
			if cmd.Flags().Changed("addr") {
				sc.Addr = addr
			}
			srv := web.NewServer(web.Config{
				Addr:           sc.Addr,
				ReadTimeout:    sc.ReadTimeout,
				WriteTimeout:   sc.WriteTimeout,
				CookieName:     sc.CookieName,
				AllowedOrigins: sc.AllowedOrigins,
			}, e.kv, e.log)

			bound, err := srv.Start()
			if err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "shoplist listening on http://%s\n", bound)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			e.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func newAddCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "add <text...>",
		Short:   "Add an item (text can be multiple words)",
		Example: `  shoplist add 우유`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, added, err := e.list().Add(strings.Join(args, " "))
			if !added {
				return usagef("add: empty text")
			}
			if err != nil {
				return err
			}
			ui.OK(e.stdout, "added")
			return nil
		},
	}
}

func newListCmd(e *env) *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := e.list()
			if group {
				fmt.Fprintln(e.stdout, groupPanel(l.Items(), l.Stats()))
				return nil
			}
			fmt.Fprintln(e.stdout, ui.ListPanel(l.Items(), l.Stats()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func newCheckCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "check <index>",
		Short: "Toggle the item at a 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := e.list()
			it, err := itemAt(l, args[0])
			if err != nil {
				return err
			}
			if _, err := l.Toggle(it.ID); err != nil {
				return err
			}
			ui.OK(e.stdout, "toggled")
			return nil
		},
	}
}

func newRemoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove the item at a 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := e.list()
			it, err := itemAt(l, args[0])
			if err != nil {
				return err
			}
			if _, err := l.Remove(it.ID); err != nil {
				return err
			}
			ui.OK(e.stdout, "removed")
			return nil
		},
	}
}

func newTUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit the list interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tui.Run(e.list()); err != nil {
				e.log.Error("tui", zap.Error(err))
				return err
			}
			return nil
		},
	}
}

func itemAt(l *shoplist.List, arg string) (model.Item, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return model.Item{}, usagef("not a number: %s", arg)
	}
	it, ok := l.At(n - 1)
	if !ok {
		return model.Item{}, usagef("index out of range: have %d, got %d (run `shoplist ls` to see valid indexes)", l.Len(), n)
	}
	return it, nil
}

func groupPanel(items []model.Item, s shoplist.Stats) string {
	var pend, done []model.Item
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	t := ui.Current()
	lines := []string{ui.Header(s), ""}
	lines = append(lines, t.Accent.Render("Pending"))
	lines = append(lines, section(pend)...)
	lines = append(lines, "", t.Accent.Render("Done"))
	lines = append(lines, section(done)...)
	return ui.Panel(lines)
}

func section(items []model.Item) []string {
	if len(items) == 0 {
		return []string{ui.Current().Muted.Render("(none)")}
	}
	return ui.ListLines(items)
}

// isCobraUsage recognizes cobra's argument and flag validation errors.
func isCobraUsage(err error) bool {
	msg := err.Error()
	for _, s := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "accepts ", "requires at least", "flag needs an argument", "invalid argument"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
