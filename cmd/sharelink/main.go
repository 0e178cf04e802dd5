package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bemine/internal/engine"
	"bemine/internal/share"
)

const defaultBase = "http://localhost:8080/"

type options struct {
	name     string
	style    string
	base     string
	copy     bool
	whatsapp bool
}

var (
	opts    options
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sharelink",
	Short: "Print a prank share link",
	Example: `  sharelink --name "Mia & Jo" --style multiply
  sharelink --name Sam --base https://be.mine/ --copy --whatsapp`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(verbose)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		return run(cmd.OutOrStdout(), logger, opts, clipboard.WriteAll)
	},
}

func init() {
	base := strings.TrimSpace(os.Getenv("BASE_URL"))
	if base == "" {
		base = defaultBase
	}
	rootCmd.Flags().StringVarP(&opts.name, "name", "n", "", "partner name (required)")
	rootCmd.Flags().StringVarP(&opts.style, "style", "s", string(engine.StyleClassic), "prank style: "+styleList())
	rootCmd.Flags().StringVarP(&opts.base, "base", "b", base, "public base URL of the prank page")
	rootCmd.Flags().BoolVar(&opts.copy, "copy", false, "copy the link to the clipboard")
	rootCmd.Flags().BoolVar(&opts.whatsapp, "whatsapp", false, "also print a WhatsApp link with the invite")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(out io.Writer, log *zap.Logger, o options, copyFn func(string) error) error {
	name := share.NormalizeName(o.name)
	if name == "" {
		return errors.New("--name is required")
	}
	style := engine.ParseStyle(o.style)
	if string(style) != strings.TrimSpace(o.style) {
		log.Warn("unknown style, using classic", zap.String("style", o.style))
	}

	link := share.Link(o.base, name, style)
	log.Debug("share link built", zap.String("name", name), zap.String("style", string(style)))
	if _, err := fmt.Fprintln(out, link); err != nil {
		return err
	}
	if o.whatsapp {
		if _, err := fmt.Fprintln(out, share.WhatsAppLink(share.InviteMessage(name, link))); err != nil {
			return err
		}
	}
	if o.copy {
		// The link is already printed; a missing clipboard is not fatal.
		if err := copyFn(link); err != nil {
			log.Warn("copy to clipboard failed", zap.Error(err))
		} else {
			log.Info("link copied to clipboard")
		}
	}
	return nil
}

func styleList() string {
	styles := engine.Styles()
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.DisableStacktrace = true
	if !verbose {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	config.OutputPaths = []string{"stderr"}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
