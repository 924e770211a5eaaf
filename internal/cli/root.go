package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Simplici0/fabricalc/internal/config"
	"github.com/Simplici0/fabricalc/internal/configstore"
	"github.com/Simplici0/fabricalc/internal/logging"
	"github.com/Simplici0/fabricalc/internal/store"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	in  io.Reader
	cfg config.Config
}

// Execute runs the command tree against the process stdio.
func Execute() error {
	return NewRootCmd(os.Stdin).Execute()
}

// NewRootCmd builds the command tree. Input for confirmation prompts is read
// from in.
func NewRootCmd(in io.Reader) *cobra.Command {
	a := &app{in: in}

	rootCmd := &cobra.Command{
		Use:   "fabricalc",
		Short: "FabriCalc - calculadora de costos para impresión 3D",
		Long: `FabriCalc computes a recommended sale price for a 3D-printed object from the
print parameters and a persisted cost model (material prices, electricity,
printer depreciation, labor, shipping and waste).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			logging.Configure(logging.LogConfig{
				Level:  logging.ParseLevel(cfg.LogLevel),
				Format: logging.ParseFormat(cfg.LogFormat),
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config-path", "config.json", "Path to the cost model JSON file")
	flags.String("backend", config.BackendJSON, "Cost model storage backend (json or sqlite)")
	flags.String("db-path", "fabricalc.db", "Path to the SQLite database when --backend=sqlite")
	flags.String("log-level", "INFO", "Set logging level (DEBUG, INFO, WARN, ERROR)")
	flags.String("log-format", "text", "Log output format (text or json)")

	rootCmd.AddCommand(a.newServeCmd())
	rootCmd.AddCommand(a.newQuoteCmd())
	rootCmd.AddCommand(a.newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// openStore opens the configured backend and loads the cost model. An
// unreadable store is not fatal: the defaults are installed and the returned
// notice says so.
func (a *app) openStore() (svc *configstore.Service, notice string, closeFn func() error, err error) {
	var backend store.Backend
	closeFn = func() error { return nil }

	switch a.cfg.Backend {
	case config.BackendSQLite:
		b, err := store.OpenSQLite(a.cfg.DBPath)
		if err != nil {
			return nil, "", nil, err
		}
		backend = b
		closeFn = b.Close
	default:
		backend = store.NewFileBackend(a.cfg.ConfigPath)
	}

	svc = configstore.New(backend, logging.Default())
	if _, err := svc.Load(); err != nil {
		if !errors.Is(err, store.ErrParse) {
			_ = closeFn()
			return nil, "", nil, err
		}
		notice = fmt.Sprintf("Error al cargar %s; se restauraron los valores predeterminados", backend.Location())
	}
	return svc, notice, closeFn, nil
}

func printWarning(w io.Writer, msg string) {
	color.New(color.FgYellow).Fprintln(w, msg)
}
