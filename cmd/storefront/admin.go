package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bally3399/chord001-monograms/internal/client"
)

func int64Ptr(v int64) *int64 { return &v }

// sampleDesigns seed an empty catalog for local development.
var sampleDesigns = []client.DesignInput{
	{Title: "Royal Script R", Description: "Flowing script initial with a crown flourish.", Category: "Classic", Price: int64Ptr(4500), IsFeatured: true},
	{Title: "Interlocking Duo", Description: "Two initials woven for couples and weddings.", Category: "Wedding", Price: int64Ptr(6000), IsFeatured: true},
	{Title: "Block Serif M", Description: "Bold serif letter for towels and linens.", Category: "Classic", Price: int64Ptr(3500)},
	{Title: "Floral Wreath", Description: "Single initial inside a hand drawn wreath.", Category: "Floral", Price: int64Ptr(5000), IsFeatured: true},
	{Title: "Minimal Line", Description: "Thin geometric monogram for modern brands.", Category: "Modern"},
	{Title: "Vine Circle", Description: "Three letter circle monogram with vines.", Category: "Floral", Price: int64Ptr(5500)},
}

const sampleImageURL = "https://res.cloudinary.com/demo/image/upload/sample.jpg"

func cmdAdmin(ctx context.Context, sh *shell, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: storefront admin login|logout|seed|feature|unfeature|delete ...")
	}
	sub, args := args[0], args[1:]

	if sub == "login" {
		if err := exactArgs(args, 1, "admin login <password>"); err != nil {
			return err
		}
		token, err := sh.client.AdminLogin(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(sh.out, token)
		return nil
	}

	if sh.adminSession == "" {
		return errors.New("admin session required: run \"admin login\" and set STOREFRONT_ADMIN_SESSION")
	}

	switch sub {
	case "logout":
		return sh.client.AdminLogout(ctx, sh.adminSession)
	case "seed":
		for _, in := range sampleDesigns {
			in.ImageURL = sampleImageURL
			d, err := sh.client.CreateDesign(ctx, sh.adminSession, in)
			if err != nil {
				return fmt.Errorf("create %q: %w", in.Title, err)
			}
			fmt.Fprintf(sh.out, "created %s  %s\n", d.ID, d.Title)
		}
		return nil
	case "feature", "unfeature":
		if err := exactArgs(args, 1, "admin "+sub+" <design-id>"); err != nil {
			return err
		}
		msg, err := sh.client.SetFeatured(ctx, sh.adminSession, args[0], sub == "feature")
		if err != nil {
			return err
		}
		fmt.Fprintln(sh.out, msg)
		return nil
	case "delete":
		if err := exactArgs(args, 1, "admin delete <design-id>"); err != nil {
			return err
		}
		return sh.client.DeleteDesign(ctx, sh.adminSession, args[0])
	default:
		return fmt.Errorf("unknown admin command %q", sub)
	}
}
