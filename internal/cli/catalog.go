package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fjod/go_cart/cart-store/internal/catalog"
	"github.com/fjod/go_cart/cart-store/internal/catalog/repository"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewCatalogCommand groups the commands for the bundled catalog service.
func NewCatalogCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Run or administer the bundled product catalog",
	}

	cmd.AddCommand(newCatalogServeCommand(opts))
	cmd.AddCommand(newCatalogSetStockCommand(opts))

	return cmd
}

func newCatalogServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve products and stock over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openCatalogRepo(opts)
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serveCatalog(ctx, opts, repo)
		},
	}
}

func serveCatalog(ctx context.Context, opts *RootOptions, repo repository.RepoInterface) error {
	log := opts.Log.Named("catalog_server")
	srv := &http.Server{
		Addr:         opts.Config.CatalogServer.Addr(),
		Handler:      catalog.NewRouter(repo, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("catalog server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("catalog server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down catalog server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("catalog server forced to shutdown: %w", err)
	}
	log.Info().Msg("catalog server exited")
	return nil
}

func newCatalogSetStockCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-stock <product-id> <amount>",
		Short: "Set the stock level of a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			repo, err := openCatalogRepo(opts)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.SetStock(cmd.Context(), productID, amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stock of product %d set to %d\n", productID, amount)
			return nil
		},
	}
}

func openCatalogRepo(opts *RootOptions) (*repository.Repository, error) {
	cfg := opts.Config.CatalogServer
	repo, err := repository.NewRepository(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		repo.Close()
		return nil, err
	}
	opts.Log.Debug().Str("db", cfg.DBPath).Msg("catalog migrations applied")
	return repo, nil
}
