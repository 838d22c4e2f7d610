package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/senselib/f8client/internal/client/gate"
	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/client/navigator"
)

const pageSize = 10

func (a *App) goTo(s navigator.Surface) {
	if !a.nav.At(s) {
		a.nav.Navigate(s)
	}
}

// Docs searches the library; with no arguments it lists everything.
func (a *App) Docs(ctx context.Context, args []string) error {
	a.query = models.PageQuery{Search: strings.Join(args, " "), Size: pageSize}
	return a.browse(ctx)
}

// Page moves the last search to page n (1-based).
func (a *App) Page(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("page <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return errUsage("page <n>, n >= 1")
	}
	if a.query.Size == 0 {
		a.query.Size = pageSize
	}
	a.query.Page = n - 1
	return a.browse(ctx)
}

func (a *App) browse(ctx context.Context) error {
	p, err := a.library.Browse(ctx, a.query)
	if err != nil {
		return err
	}
	a.goTo(navigator.Library)
	a.printDocuments(p.Content)
	if p.TotalPages > 0 {
		a.printf("Page %d of %d (%d documents)\n", p.Number+1, p.TotalPages, p.TotalElements)
	}
	return nil
}

func (a *App) printDocuments(docs []models.Document) {
	if len(docs) == 0 {
		a.printf("No documents\n")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tACCESS\tPOINTS")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", d.ID, d.Title, access(d.Descriptor()), d.Score)
	}
	_ = tw.Flush()
}

func access(d models.Descriptor) string {
	switch {
	case d.RequiresPayment():
		return "paid"
	case d.RequiresIdentity():
		return "premium"
	}
	return "free"
}

// Show prints one document.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("show <id>")
	}
	d, err := a.library.Document(ctx, args[0])
	if err != nil {
		return err
	}
	a.printf("ID:          %s\nTitle:       %s\nAccess:      %s\nPoints:      %d\n", d.ID, d.Title, access(d.Descriptor()), d.Score)
	if d.Author != nil {
		a.printf("Author:      %s\n", d.Author.Name)
	}
	if d.Category != nil {
		a.printf("Category:    %s\n", d.Category.Name)
	}
	if d.Description != "" {
		a.printf("Description: %s\n", d.Description)
	}
	a.printf("Downloads:   %d\n", d.Downloads)
	return nil
}

// Fav marks a document as favourite.
func (a *App) Fav(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("fav <id>")
	}
	if err := a.library.AddFavorite(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Added %s to favourites\n", args[0])
	return nil
}

// Unfav removes a document from the favourites.
func (a *App) Unfav(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("unfav <id>")
	}
	if err := a.library.RemoveFavorite(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Removed %s from favourites\n", args[0])
	return nil
}

// Favs lists the favourites.
func (a *App) Favs(ctx context.Context) error {
	docs, err := a.library.Favorites(ctx)
	if err != nil {
		return err
	}
	a.goTo(navigator.Favorites)
	a.printDocuments(docs)
	return nil
}

// Download runs a gated download and reports its result. A refusal for a
// missing identity moves the prompt to the login surface.
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("download <id>")
	}
	out, err := a.library.Download(ctx, args[0])
	if out.Result == "" {
		return err
	}
	if err != nil {
		a.log.Debug(ctx, "download finished", "document", args[0], "result", out.Result, "error", err)
	}

	a.printf("%s\n", out.Result.Message())
	switch out.Result {
	case gate.ResultSuccess:
		a.printf("Saved to %s\n", out.Location)
		if out.Charged > 0 {
			a.printf("Charged %d points, balance %d\n", out.Charged, out.Balance)
		}
	case gate.ResultNotAuthenticated:
		a.goTo(navigator.Login)
	case gate.ResultInsufficientBalance:
		a.printf("Balance: %d points\n", out.Balance)
	case gate.ResultFetchFailed:
		if out.Refunded {
			a.printf("%d points were refunded\n", out.Charged)
		}
	}
	return nil
}
