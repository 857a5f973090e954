package cli

import (
	"fmt"
	"strconv"

	"github.com/fjod/go_cart/cart-store/internal/service"
	"github.com/spf13/cobra"
)

func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.close(cmd.Context(), opts.Log)

			return printCart(cmd.OutOrStdout(), opts.Format, sess.store.Cart())
		},
	}
}

func NewAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "add <product-id>",
		Short:   "Add one unit of a product",
		Example: `  cart add 3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			return mutate(cmd, opts, func(sess *session) {
				sess.store.AddProduct(cmd.Context(), productID)
			})
		},
	}
}

func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			return mutate(cmd, opts, func(sess *session) {
				sess.store.RemoveProduct(cmd.Context(), productID)
			})
		},
	}
}

func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <product-id> <amount>",
		Short: "Set the amount of a product already in the cart",
		Long: `Set the amount of a product already in the cart.

Amounts below 1 are ignored; use remove to drop a product.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			return mutate(cmd, opts, func(sess *session) {
				sess.store.UpdateProductAmount(cmd.Context(), service.UpdateProductAmount{
					ProductID: productID,
					Amount:    amount,
				})
			})
		},
	}
}

// mutate runs op against a fresh session and prints the resulting cart.
func mutate(cmd *cobra.Command, opts *RootOptions, op func(*session)) error {
	sess, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer sess.close(cmd.Context(), opts.Log)

	op(sess)

	if err := printCart(cmd.OutOrStdout(), opts.Format, sess.store.Cart()); err != nil {
		return err
	}
	return sess.result()
}

func parseProductID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", s)
	}
	return id, nil
}
