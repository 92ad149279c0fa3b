package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/bally3399/chord001-monograms/internal/catalog"
	"github.com/bally3399/chord001-monograms/internal/domain"
)

func (sh *shell) table() *tabwriter.Writer {
	return tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
}

func designTitle(d *domain.Design) string {
	if d == nil {
		return "(removed design)"
	}
	return d.Title
}

func exactArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("usage: storefront %s", usage)
	}
	return nil
}

func cmdHome(ctx context.Context, sh *shell, _ []string) error {
	home, err := sh.session.LoadHome(ctx)
	if err != nil {
		return err
	}

	tw := sh.table()
	fmt.Fprintln(tw, "FEATURED\t\t")
	for _, d := range home.Featured {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.ID, d.Title, catalog.FormatPrice(d.Price))
	}
	fmt.Fprintln(tw, "\t\t")
	fmt.Fprintln(tw, "LATEST\t\t")
	for _, d := range home.Latest {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.ID, d.Title, catalog.FormatPrice(d.Price))
	}
	return tw.Flush()
}

func cmdDesigns(ctx context.Context, sh *shell, args []string) error {
	fs := flag.NewFlagSet("designs", flag.ContinueOnError)
	term := fs.String("q", "", "search title, description and category")
	category := fs.String("category", catalog.CategoryAll, "exact category, or \"all\"")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := sh.session.LoadCatalog(ctx); err != nil {
		return err
	}
	if err := sh.session.LoadRelations(ctx); err != nil {
		return err
	}

	res := sh.session.Filter(catalog.Filter{Term: *term, Category: *category})
	tw := sh.table()
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE\t")
	for _, d := range res.Designs {
		var marks []string
		if sh.session.Favorited(d.ID) {
			marks = append(marks, "favorite")
		}
		if sh.session.InCart(d.ID) {
			marks = append(marks, "in cart")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Title, d.Category, catalog.FormatPrice(d.Price), strings.Join(marks, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(sh.out, res.Summary())
	if facets := sh.session.Facets(); len(facets) > 0 {
		fmt.Fprintln(sh.out, "Categories:", strings.Join(facets, ", "))
	}
	return nil
}

func cmdFavorites(ctx context.Context, sh *shell, _ []string) error {
	if sh.session.Viewer().IsAnonymous() {
		return errors.New("sign in (STOREFRONT_TOKEN) to see favorites")
	}
	if err := sh.session.LoadRelations(ctx); err != nil {
		return err
	}

	tw := sh.table()
	fmt.Fprintln(tw, "FAVORITE\tDESIGN\tTITLE\tPRICE")
	for _, f := range sh.session.Favorites() {
		var price *int64
		if f.Design != nil {
			price = f.Design.Price
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.DesignID, designTitle(f.Design), catalog.FormatPrice(price))
	}
	return tw.Flush()
}

func cmdToggleFavorite(ctx context.Context, sh *shell, args []string) error {
	if err := exactArgs(args, 1, "fav <design-id>"); err != nil {
		return err
	}
	// Refresh the cached flag so the toggle goes the right way.
	if _, err := sh.session.IsFavorited(ctx, args[0]); err != nil {
		return err
	}
	_, err := sh.session.ToggleFavorite(ctx, args[0])
	return err
}

func cmdCart(ctx context.Context, sh *shell, _ []string) error {
	if sh.session.Viewer().IsAnonymous() {
		return errors.New("sign in (STOREFRONT_TOKEN) to see your cart")
	}
	if err := sh.session.LoadRelations(ctx); err != nil {
		return err
	}

	tw := sh.table()
	fmt.Fprintln(tw, "ITEM\tTITLE\tPRICE\tQTY\tSUBTOTAL")
	for _, it := range sh.session.Cart() {
		var price *int64
		if it.Design != nil {
			price = it.Design.Price
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", it.ID, designTitle(it.Design), catalog.FormatPrice(price), it.Quantity, catalog.FormatCents(it.Subtotal()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Items: %d  Total: %s\n", sh.session.Badge(), catalog.FormatCents(sh.session.CartTotal()))
	return nil
}

func cmdToggleCart(ctx context.Context, sh *shell, args []string) error {
	if err := exactArgs(args, 1, "cart-toggle <design-id>"); err != nil {
		return err
	}
	if _, err := sh.session.IsInCart(ctx, args[0]); err != nil {
		return err
	}
	_, err := sh.session.ToggleCart(ctx, args[0])
	return err
}

func cmdQuantity(ctx context.Context, sh *shell, args []string) error {
	if err := exactArgs(args, 2, "qty <item-id> <quantity>"); err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity %q is not a number", args[1])
	}
	if n < 1 {
		fmt.Fprintln(sh.out, "Quantity must be at least 1; use rm to remove the item.")
		return nil
	}
	if err := sh.session.SetQuantity(ctx, args[0], n); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Quantity set to %d.\n", n)
	return nil
}

func cmdRemoveItem(ctx context.Context, sh *shell, args []string) error {
	if err := exactArgs(args, 1, "rm <item-id>"); err != nil {
		return err
	}
	return sh.session.RemoveCartItem(ctx, args[0])
}

func cmdMove(ctx context.Context, sh *shell, args []string) error {
	fs := flag.NewFlagSet("move", flag.ContinueOnError)
	twoStep := fs.Bool("two-step", false, "add to cart, then delete the favorite, as separate calls")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := exactArgs(fs.Args(), 1, "move [-two-step] <favorite-id>"); err != nil {
		return err
	}

	if !*twoStep {
		_, err := sh.session.MoveFavoriteToCart(ctx, fs.Arg(0))
		return err
	}
	// The two-step move looks the favorite up in the loaded snapshot.
	if err := sh.session.LoadRelations(ctx); err != nil {
		return err
	}
	_, err := sh.session.MoveFavoriteToCartTwoStep(ctx, fs.Arg(0))
	return err
}

func cmdCheckout(ctx context.Context, sh *shell, _ []string) error {
	link, err := sh.session.Checkout(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(sh.out, link.Message)
	fmt.Fprintln(sh.out, "Order via WhatsApp:", link.URL)
	return nil
}
