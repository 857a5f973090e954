package cli

import (
	"errors"
	"fmt"

	"github.com/fjod/go_cart/cart-store/internal/config"
	"github.com/fjod/go_cart/cart-store/pkg/logger"
	"github.com/spf13/cobra"
)

// ErrReported means the failure was already shown to the user.
var ErrReported = errors.New("operation failed")

// RootOptions holds state shared by every command.
type RootOptions struct {
	Format  string // "json" | "text"
	Storage string // overrides STORAGE_DRIVER when set

	Config *config.Config
	Log    *logger.Logger
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the cart CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Shopping cart backed by the storefront catalog",
		Long: `Manage the shopping cart of a storefront session.

Every change is checked against the catalog's stock before it is saved.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.Storage != "" {
				cfg.Storage.Driver = opts.Storage
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			opts.Config = cfg
			opts.Log = logger.NewTo(cmd.ErrOrStderr(), logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Storage, "storage", "", "storage driver (memory|redis|mongo)")

	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
