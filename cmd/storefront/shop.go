package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/georgemunganga/storefront-backend/internal/access"
	"github.com/georgemunganga/storefront-backend/internal/apiclient"
	"github.com/georgemunganga/storefront-backend/internal/clientstate"
	"github.com/georgemunganga/storefront-backend/internal/modules/catalog"
	"github.com/georgemunganga/storefront-backend/internal/modules/inventory"
	"github.com/georgemunganga/storefront-backend/internal/modules/order"
	"github.com/georgemunganga/storefront-backend/internal/modules/pricing"
)

func productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "list products with your prices",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category"},
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}},
			&cli.BoolFlag{Name: "favorites", Usage: "only show favorites"},
		},
		Action: action(func(c *cli.Context, e *env) error {
			active := true
			products, err := e.client.ListProducts(c.Context, apiclient.ProductQuery{
				Category: c.String("category"),
				Search:   c.String("search"),
				Active:   &active,
			})
			if err != nil {
				return err
			}
			if c.Bool("favorites") {
				products = onlyFavorites(e.store, products)
			}
			printProducts(c.App.Writer, e, products)
			return nil
		}),
	}
}

func onlyFavorites(s *clientstate.Store, products []*catalog.Product) []*catalog.Product {
	out := products[:0]
	for _, p := range products {
		if s.IsFavorite(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func printProducts(w io.Writer, e *env, products []*catalog.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\t")
	for _, p := range products {
		mark := ""
		if e.store.IsFavorite(p.ID) {
			mark = " *"
		}
		fmt.Fprintf(tw, "%s\t%s%s\t%s\t%.2f\t%d\t\n", p.ID, p.Name, mark, p.Category, e.store.QuotePrice(*p), p.Stock)
	}
	if access.Allowed(e.role(), access.WholesalePricing) {
		fmt.Fprintln(tw, "")
		for _, t := range pricing.Tiers {
			off := decimal.NewFromInt(1).Sub(t.Factor).Shift(2)
			fmt.Fprintf(tw, "%d+ units\t%s%% off\t\t\t\t\n", t.MinQuantity, off.StringFixed(0))
		}
	}
}

func categoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "list product categories",
		Action: action(func(c *cli.Context, e *env) error {
			categories, err := e.client.ListCategories(c.Context)
			if err != nil {
				return err
			}
			for _, name := range categories {
				fmt.Fprintln(c.App.Writer, name)
			}
			return nil
		}),
	}
}

func cartCommand() *cli.Command {
	return &cli.Command{
		Name:  "cart",
		Usage: "manage the local cart",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				ArgsUsage: "PRODUCT_ID",
				Flags:     []cli.Flag{&cli.IntFlag{Name: "qty", Value: 1}},
				Action: action(func(c *cli.Context, e *env) error {
					p, err := e.client.GetProduct(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					if !p.IsActive {
						return fmt.Errorf("%s is not available", p.Name)
					}
					if err := e.store.AddToCart(*p, c.Int("qty")); err != nil {
						return err
					}
					return showCart(c.App.Writer, e.store)
				}),
			},
			{
				Name:      "set",
				ArgsUsage: "PRODUCT_ID QTY",
				Usage:     "set a line's quantity; 0 removes it",
				Action: action(func(c *cli.Context, e *env) error {
					var qty int
					if _, err := fmt.Sscan(c.Args().Get(1), &qty); err != nil {
						return fmt.Errorf("quantity must be a number")
					}
					if err := e.store.SetQuantity(c.Args().First(), qty); err != nil {
						return err
					}
					return showCart(c.App.Writer, e.store)
				}),
			},
			{
				Name:      "remove",
				ArgsUsage: "PRODUCT_ID",
				Action: action(func(c *cli.Context, e *env) error {
					if err := e.store.RemoveFromCart(c.Args().First()); err != nil {
						return err
					}
					return showCart(c.App.Writer, e.store)
				}),
			},
			{
				Name: "show",
				Action: action(func(c *cli.Context, e *env) error {
					return showCart(c.App.Writer, e.store)
				}),
			},
			{
				Name: "clear",
				Action: action(func(c *cli.Context, e *env) error {
					if err := e.store.ClearCart(); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "cart cleared")
					return nil
				}),
			},
		},
	}
}

func showCart(w io.Writer, s *clientstate.Store) error {
	items := s.Cart()
	if len(items) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tUNIT\tTOTAL\t")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.2f\t\n",
			it.Product.ID, it.Product.Name, it.Quantity, s.QuotePrice(it.Product), s.LineTotal(it))
	}
	fmt.Fprintf(tw, "\t\t%d\t\t%.2f\t\n", s.ItemCount(), s.Total())
	return tw.Flush()
}

func favoritesCommand() *cli.Command {
	return &cli.Command{
		Name:  "favorites",
		Usage: "manage favorite products",
		Subcommands: []*cli.Command{
			{
				Name:      "toggle",
				ArgsUsage: "PRODUCT_ID",
				Action: action(func(c *cli.Context, e *env) error {
					on, err := e.store.ToggleFavorite(c.Args().First())
					if err != nil {
						return err
					}
					if on {
						fmt.Fprintln(c.App.Writer, "added to favorites")
					} else {
						fmt.Fprintln(c.App.Writer, "removed from favorites")
					}
					return nil
				}),
			},
			{
				Name: "list",
				Action: action(func(c *cli.Context, e *env) error {
					for _, id := range e.store.Favorites() {
						fmt.Fprintln(c.App.Writer, id)
					}
					return nil
				}),
			},
		},
	}
}

func checkoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "checkout",
		Usage: "place an order for the cart",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "street", Required: true},
			&cli.StringFlag{Name: "city", Required: true},
			&cli.StringFlag{Name: "state", Required: true},
			&cli.StringFlag{Name: "zip", Required: true},
			&cli.StringFlag{Name: "country", Required: true},
		},
		Action: action(func(c *cli.Context, e *env) error {
			if err := e.require(access.PlaceOrders); err != nil {
				return err
			}
			items := e.store.Cart()
			if len(items) == 0 {
				return fmt.Errorf("cart is empty")
			}
			req := order.PlaceOrderRequest{
				ShippingAddress: order.ShippingAddress{
					Street:  c.String("street"),
					City:    c.String("city"),
					State:   c.String("state"),
					ZipCode: c.String("zip"),
					Country: c.String("country"),
				},
			}
			for _, it := range items {
				req.Products = append(req.Products, order.LineRequest{ProductID: it.Product.ID, Quantity: it.Quantity})
			}

			placed, err := e.client.PlaceOrder(c.Context, req)
			if err != nil {
				return err
			}
			if err := e.store.ClearCart(); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "order %s placed: %.2f (%s)\n", placed.OrderNumber, placed.TotalAmount, placed.Status)
			return nil
		}),
	}
}

func ordersCommand() *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "list your orders",
		Flags: []cli.Flag{&cli.StringFlag{Name: "status"}},
		Action: action(func(c *cli.Context, e *env) error {
			if _, err := e.requireSession(); err != nil {
				return err
			}
			orders, err := e.client.ListOrders(c.Context, apiclient.OrderQuery{Status: c.String("status")})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NUMBER\tDATE\tSTATUS\tITEMS\tTOTAL\t")
			for _, o := range orders {
				n := 0
				for _, it := range o.Items {
					n += it.Quantity
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\t\n",
					o.OrderNumber, o.OrderDate.Format("2006-01-02"), o.Status, n, o.TotalAmount)
			}
			return tw.Flush()
		}),
	}
}

func adminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "inventory operations for admin accounts",
		Subcommands: []*cli.Command{
			{
				Name:      "stock",
				ArgsUsage: "PRODUCT_ID DELTA",
				Usage:     "add DELTA units; put -- before a negative DELTA",
				Action: action(func(c *cli.Context, e *env) error {
					if err := e.require(access.ManageInventory); err != nil {
						return err
					}
					var delta int
					if _, err := fmt.Sscan(c.Args().Get(1), &delta); err != nil {
						return fmt.Errorf("delta must be a number")
					}
					p, err := e.client.AdjustStock(c.Context, c.Args().First(), delta)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "%s stock is now %d (%s)\n", p.Name, p.Stock, inventory.LevelOf(p.Stock))
					return nil
				}),
			},
			{
				Name:      "delete",
				ArgsUsage: "PRODUCT_ID",
				Flags:     []cli.Flag{&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip confirmation"}},
				Action: action(func(c *cli.Context, e *env) error {
					if err := e.require(access.ManageProducts); err != nil {
						return err
					}
					id := c.Args().First()
					if !c.Bool("yes") && !confirm(c, fmt.Sprintf("delete product %s?", id)) {
						fmt.Fprintln(c.App.Writer, "aborted")
						return nil
					}
					if err := e.client.DeleteProduct(c.Context, id); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "product deleted")
					return nil
				}),
			},
			{
				Name: "summary",
				Action: action(func(c *cli.Context, e *env) error {
					if err := e.require(access.AdminPanel); err != nil {
						return err
					}
					sum, err := e.client.InventorySummary(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "products: %d (%d active)\nout of stock: %d\nlow stock: %d\n",
						sum.TotalProducts, sum.ActiveProducts, sum.OutOfStock, sum.LowStock)
					for _, p := range sum.LowStockProducts {
						fmt.Fprintf(c.App.Writer, "  %s  %s  %d\n", p.ID, p.Name, p.Stock)
					}
					return nil
				}),
			},
		},
	}
}

func confirm(c *cli.Context, prompt string) bool {
	fmt.Fprintf(c.App.Writer, "%s [y/N] ", prompt)
	var answer string
	fmt.Fscanln(c.App.Reader, &answer)
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
