package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/nikolayk812/storefront-demo/internal/cart"
	"github.com/nikolayk812/storefront-demo/internal/domain"
	"github.com/spf13/cobra"
)

func newCartCmd(a *app) *cobra.Command {
	var slot string

	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and change the cart stored in a slot",
		Long: `Drive the cart store from the terminal.

Every subcommand restores the cart from the slot, applies one operation and
prints the result. With the memory driver nothing survives between runs.

Available subcommands:
  show     - Print the line items and the order summary
  add      - Add a product, merging into an existing line
  set      - Set the quantity of a line, clamped to at least 1
  inc      - Increase a line by one
  dec      - Decrease a line by one, never below 1
  remove   - Drop a line
  total    - Print the order summary, optionally with a coupon
  checkout - Confirm the order`,
	}
	cmd.PersistentFlags().StringVar(&slot, "slot", "", "slot name, defaults to STOREFRONT_STORAGE_SLOT")

	slotName := func() string {
		if slot != "" {
			return slot
		}
		return a.cfg.Storage.Slot
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withStore(cmd, slotName(), func(_ context.Context, store *cart.Store) error {
					return printCart(cmd.OutOrStdout(), store.Snapshot())
				})
			},
		},
		&cobra.Command{
			Use:   "add PRODUCT_ID [QUANTITY]",
			Short: "Add a product to the cart",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				quantity := 1
				if len(args) == 2 {
					quantity = cart.ParseQuantity(args[1])
				}
				return a.mutate(cmd, slotName(), func(ctx context.Context, store *cart.Store) error {
					return store.Add(ctx, id, quantity)
				})
			},
		},
		&cobra.Command{
			Use:   "set PRODUCT_ID QUANTITY",
			Short: "Set the quantity of a line",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				quantity := cart.ParseQuantity(args[1])
				return a.mutate(cmd, slotName(), func(ctx context.Context, store *cart.Store) error {
					return store.SetQuantity(ctx, id, quantity)
				})
			},
		},
		&cobra.Command{
			Use:   "inc PRODUCT_ID",
			Short: "Increase a line by one",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				return a.mutate(cmd, slotName(), func(ctx context.Context, store *cart.Store) error {
					return store.Increment(ctx, id)
				})
			},
		},
		&cobra.Command{
			Use:   "dec PRODUCT_ID",
			Short: "Decrease a line by one",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				return a.mutate(cmd, slotName(), func(ctx context.Context, store *cart.Store) error {
					return store.Decrement(ctx, id)
				})
			},
		},
		&cobra.Command{
			Use:   "remove PRODUCT_ID",
			Short: "Remove a line",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				return a.mutate(cmd, slotName(), func(ctx context.Context, store *cart.Store) error {
					return store.Remove(ctx, id)
				})
			},
		},
		newCartTotalCmd(a, slotName),
		&cobra.Command{
			Use:   "checkout",
			Short: "Confirm the order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withStore(cmd, slotName(), func(_ context.Context, store *cart.Store) error {
					notice, err := store.ConfirmOrder()
					if err != nil {
						return fmt.Errorf("store.ConfirmOrder: %w", err)
					}
					if err := printSummary(cmd.OutOrStdout(), store.OrderTotal()); err != nil {
						return err
					}
					_, err = fmt.Fprintln(cmd.OutOrStdout(), notice)
					return err
				})
			},
		},
	)

	return cmd
}

func newCartTotalCmd(a *app, slotName func() string) *cobra.Command {
	var coupon string

	cmd := &cobra.Command{
		Use:   "total",
		Short: "Print the order summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, slotName(), func(ctx context.Context, store *cart.Store) error {
				out := cmd.OutOrStdout()
				if cmd.Flags().Changed("coupon") {
					applied, err := store.ApplyCoupon(ctx, coupon)
					switch {
					case errors.Is(err, domain.ErrEmptyCouponInput), errors.Is(err, domain.ErrInvalidCoupon):
						fmt.Fprintf(out, "Coupon not applied: %v\n", err)
					case err != nil:
						return fmt.Errorf("store.ApplyCoupon: %w", err)
					default:
						fmt.Fprintf(out, "Coupon %s applied: %s%% off\n", applied.Code, applied.Percent)
					}
				}
				return printSummary(out, store.OrderTotal())
			})
		},
	}
	cmd.Flags().StringVar(&coupon, "coupon", "", "coupon code to apply before totalling")

	return cmd
}

// withStore opens the configured storage, restores the cart from slot and
// hands it to fn.
func (a *app) withStore(cmd *cobra.Command, slot string, fn func(context.Context, *cart.Store) error) error {
	ctx := a.logg.WithField(cmd.Context(), "slot", slot)

	st, err := openStorage(ctx, a.cfg, a.logg)
	if err != nil {
		return fmt.Errorf("openStorage: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			a.logg.Error(ctx, "error closing storage", err)
		}
	}()

	store, err := a.stores(st.repo)(slot)
	if err != nil {
		return fmt.Errorf("cart.NewStore: %w", err)
	}
	if err := store.Restore(ctx); err != nil {
		return fmt.Errorf("store.Restore: %w", err)
	}

	return fn(ctx, store)
}

// mutate runs one store operation and prints the resulting cart.
func (a *app) mutate(cmd *cobra.Command, slot string, op func(context.Context, *cart.Store) error) error {
	return a.withStore(cmd, slot, func(ctx context.Context, store *cart.Store) error {
		if err := op(ctx, store); err != nil {
			return err
		}
		return printCart(cmd.OutOrStdout(), store.Snapshot())
	})
}

func parseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("product id %q is not a number", raw)
	}
	return id, nil
}

func printCart(w io.Writer, snapshot cart.Snapshot) error {
	if len(snapshot.Items) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return printSummary(w, snapshot.Summary)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tTOTAL")
	for _, item := range snapshot.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", item.ProductID, item.Name, item.Price, item.Quantity, item.Total())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	return printSummary(w, snapshot.Summary)
}

func printSummary(w io.Writer, s domain.Summary) error {
	shipping := s.Shipping.String()
	if s.FreeShipping() {
		shipping = "FREE"
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Items:\t%d\n", s.ItemCount)
	fmt.Fprintf(tw, "Subtotal:\t%s\n", s.Subtotal)
	fmt.Fprintf(tw, "Shipping:\t%s\n", shipping)
	if s.Discount.Amount.IsPositive() {
		fmt.Fprintf(tw, "Discount:\t-%s\n", s.Discount)
	}
	fmt.Fprintf(tw, "Total:\t%s\n", s.Total)
	return tw.Flush()
}
