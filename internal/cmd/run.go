package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Iron-Ham/sortscope/internal/config"
	"github.com/Iron-Ham/sortscope/internal/dataset"
	"github.com/Iron-Ham/sortscope/internal/session"
	"github.com/Iron-Ham/sortscope/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sort an array and watch every access",
	Long: `Sort an array with an LSD radix sort and display every read and write.

The array comes from --values, from a dataset file (--file) or is generated
from sort.size, sort.max_value and sort.seed. The live view is used when
stdout is a terminal; --headless prints a summary instead.

Examples:
  sortscope run
  sortscope run --values 170,45,75,90,802,24,2,66 --radix 10
  sortscope run --size 200 --radix 16 --delay-ms 1
  sortscope run --file data.yaml --headless
  sortscope run --size 50 --seed 7 --save data.yaml`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.String("values", "", "comma separated values to sort")
	flags.StringP("file", "f", "", "dataset file to sort")
	flags.String("save", "", "write the array to this dataset file before sorting")
	flags.Bool("headless", false, "print a summary instead of the live view")
	flags.BoolP("verbose", "v", false, "print a line per digit place in headless mode")

	flags.IntP("radix", "r", 10, "radix digits are taken in")
	flags.IntP("size", "n", 64, "length of a generated array")
	flags.Int("max-value", 999, "largest value of a generated array")
	flags.Uint64("seed", 0, "seed of a generated array (0 = clock)")
	flags.Int("delay-ms", 2, "pause before every access, in milliseconds")
	flags.String("strategy", "mutex", "channel wait strategy (mutex, spin)")
	flags.String("theme", "default", "color theme (default, mono, ocean)")

	bindFlags(runCmd, runFlagKeys)
}

// runFlagKeys maps config keys to the run flags overriding them.
var runFlagKeys = map[string]string{
	"sort.radix":       "radix",
	"sort.size":        "size",
	"sort.max_value":   "max-value",
	"sort.seed":        "seed",
	"channel.delay_ms": "delay-ms",
	"channel.strategy": "strategy",
	"tui.theme":        "theme",
}

// bindFlags binds config keys to command flags. A flag given on the command
// line wins over the config file and the environment.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	values, err := loadValues(cmd, cfg)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	sess, err := session.New(values, cfg.SessionConfig(), session.WithLogger(logger))
	if err != nil {
		return err
	}

	headless, _ := cmd.Flags().GetBool("headless")
	if !headless && term.IsTerminal(int(os.Stdout.Fd())) {
		app := tui.New(sess,
			tui.WithFrame(cfg.TUI.Frame()),
			tui.WithTheme(cfg.TUI.Theme),
			tui.WithHelp(cfg.TUI.ShowHelp),
			tui.WithLogger(logger.WithPhase("tui")),
		)
		if err := app.Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return app.SortErr()
	}

	var progress io.Writer
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		progress = cmd.ErrOrStderr()
	}
	summary, runErr := session.RunHeadless(cmd.Context(), sess, cfg.TUI.Frame(), progress)
	if err := summary.Write(cmd.OutOrStdout()); err != nil {
		return err
	}
	return runErr
}

// loadValues picks the array to sort: --values, then --file, then a
// generated array. With --save the array is written out first.
func loadValues(cmd *cobra.Command, cfg *config.Config) ([]int, error) {
	var (
		values []int
		seed   uint64
		err    error
	)

	raw, _ := cmd.Flags().GetString("values")
	file, _ := cmd.Flags().GetString("file")
	switch {
	case raw != "" && file != "":
		return nil, fmt.Errorf("--values and --file are mutually exclusive")
	case raw != "":
		values, err = dataset.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --values: %w", err)
		}
	case file != "":
		f, err := dataset.Load(file)
		if err != nil {
			return nil, err
		}
		values = f.Values
	default:
		values, seed = dataset.Generate(cfg.Sort.Size, cfg.Sort.MaxValue, cfg.Sort.Seed)
	}

	if err := dataset.Validate(values); err != nil {
		return nil, err
	}

	if save, _ := cmd.Flags().GetString("save"); save != "" {
		if err := dataset.Write(save, &dataset.File{Seed: seed, Values: values}); err != nil {
			return nil, err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d values to %s\n", len(values), save)
	}
	return values, nil
}
