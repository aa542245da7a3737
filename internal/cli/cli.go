package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/shoplist/internal/config"
	"github.com/Makepad-fr/shoplist/internal/logging"
	"github.com/Makepad-fr/shoplist/internal/shoplist"
	"github.com/Makepad-fr/shoplist/internal/store"
	"github.com/Makepad-fr/shoplist/internal/ui"
)

// usageError marks failures caused by bad arguments (exit code 2).
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, a ...any) error {
	return usageError{msg: fmt.Sprintf(format, a...)}
}

// env is what every subcommand shares once flags and config are resolved.
type env struct {
	configPath string
	profile    string
	driver     string
	dataPath   string
	theme      string

	cfg    config.Config
	log    *zap.Logger
	kv     store.KV
	stdout io.Writer
	stderr io.Writer
}

func (e *env) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("profile") {
		cfg.Profile = e.profile
	}
	if flags.Changed("store") {
		cfg.Store.Driver = e.driver
	}
	if flags.Changed("data") {
		cfg.Store.Path = e.dataPath
	}
	if err := cfg.Validate(); err != nil {
		return usagef("%v", err)
	}
	e.cfg = cfg
	ui.SetTheme(e.theme)

	if e.log, err = logging.New(cfg.Log.Level, cfg.Log.JSON); err != nil {
		return err
	}
	if e.kv, err = store.Open(cfg.Store.Driver, cfg.Store.Path); err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	return nil
}

func (e *env) teardown() {
	if e.kv != nil {
		if err := e.kv.Close(); err != nil {
			e.log.Warn("close store", zap.Error(err))
		}
	}
	if e.log != nil {
		_ = e.log.Sync()
	}
}

// list loads the terminal profile's list.
func (e *env) list() *shoplist.List {
	return shoplist.Load(e.kv, shoplist.Key(e.cfg.Profile), shoplist.WithLogger(e.log))
}

// newRootCmd builds the command tree writing to stdout/stderr.
func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *env) {
	e := &env{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "shoplist",
		Short: "shoplist - a shopping list for the browser and the terminal",
		Long: `shoplist keeps a shopping list per browser profile.

Run "shoplist serve" and open the printed address, or manage the local
profile's list straight from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&e.configPath, "config", "", "path to a YAML config file")
	pf.StringVar(&e.profile, "profile", "local", "list profile used by terminal commands")
	pf.StringVar(&e.driver, "store", "json", "storage driver: json, sqlite or memory")
	pf.StringVar(&e.dataPath, "data", ".shoplist", "data directory (json) or database file (sqlite)")
	pf.StringVar(&e.theme, "theme", "classic", "terminal theme: classic, neon or mono")

	root.AddCommand(
		newServeCmd(e),
		newAddCmd(e),
		newListCmd(e),
		newCheckCmd(e),
		newRemoveCmd(e),
		newTUICmd(e),
	)
	return root, e
}

// Run executes args and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, stdout, stderr io.Writer) int {
	root, e := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	e.teardown()
	if err == nil {
		return 0
	}
	ui.Fail(stderr, err.Error())
	var ue usageError
	if errors.As(err, &ue) || isCobraUsage(err) {
		return 2
	}
	return 1
}

// Execute runs the CLI against the process arguments.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}
