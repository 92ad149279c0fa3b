// Command storefront is a terminal client for the monogram storefront. It
// drives the same synchronization layer a browser would: catalog browsing
// and filtering, favorites, the cart and the WhatsApp checkout handoff.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/bally3399/chord001-monograms/internal/auth"
	"github.com/bally3399/chord001-monograms/internal/client"
	"github.com/bally3399/chord001-monograms/internal/config"
	"github.com/bally3399/chord001-monograms/internal/domain"
	"github.com/bally3399/chord001-monograms/internal/storefront"
	"github.com/bally3399/chord001-monograms/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// command is one subcommand of the CLI.
type command struct {
	usage string
	run   func(ctx context.Context, sh *shell, args []string) error
}

var commands = map[string]command{
	"home":        {"home", cmdHome},
	"designs":     {"designs [-q term] [-category name]", cmdDesigns},
	"favorites":   {"favorites", cmdFavorites},
	"fav":         {"fav <design-id>            toggle a favorite", cmdToggleFavorite},
	"cart":        {"cart", cmdCart},
	"cart-toggle": {"cart-toggle <design-id>    add to or remove from the cart", cmdToggleCart},
	"qty":         {"qty <item-id> <quantity>", cmdQuantity},
	"rm":          {"rm <item-id>", cmdRemoveItem},
	"move":        {"move [-two-step] <favorite-id>", cmdMove},
	"checkout":    {"checkout", cmdCheckout},
	"admin":       {"admin login|logout|seed|feature|unfeature|delete ...", cmdAdmin},
}

// shell carries what every command needs.
type shell struct {
	client       *client.Client
	session      *storefront.Session
	adminSession string
	out          io.Writer
}

func run(args []string) error {
	cfg, err := config.LoadCLI()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	apiURL := fs.String("api", cfg.APIURL, "storefront API base URL (STOREFRONT_API_URL)")
	token := fs.String("token", cfg.Token, "viewer access token (STOREFRONT_TOKEN)")
	adminSession := fs.String("admin-session", cfg.AdminSession, "admin session token (STOREFRONT_ADMIN_SESSION)")
	verbose := fs.Bool("v", false, "log requests and sync decisions")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}
	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fs.Usage()
		return fmt.Errorf("unknown command %q", fs.Arg(0))
	}

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	log := logger.NewText(level, os.Stderr)

	c, err := client.NewDefault(*apiURL, log)
	if err != nil {
		return err
	}

	session := storefront.NewSession(c, storefront.NotifierFunc(printNotification(os.Stderr)), log)
	if *token != "" {
		viewerID, err := auth.ViewerIDUnverified(*token)
		if err != nil {
			return fmt.Errorf("STOREFRONT_TOKEN: %w", err)
		}
		session.ApplyViewer(storefront.IdentityEvent{Viewer: domain.Authenticated(viewerID), Token: *token})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sh := &shell{client: c, session: session, adminSession: *adminSession, out: os.Stdout}
	return cmd.run(ctx, sh, fs.Args()[1:])
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "usage: storefront [flags] <command> [args]")
	fmt.Fprintln(w, "\ncommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(w, "  "+commands[name].usage)
	}
	fmt.Fprintln(w, "\nflags:")
	fs.PrintDefaults()
}

func printNotification(w io.Writer) func(storefront.Notification) {
	return func(n storefront.Notification) {
		fmt.Fprintf(w, "[%s] %s: %s\n", n.Kind, n.Title, n.Message)
	}
}
