package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/client/navigator"
)

const historyLimit = 20

// Balance prints the points balance.
func (a *App) Balance(ctx context.Context) error {
	acc, err := a.wallet.Balance(ctx)
	if err != nil {
		return err
	}
	a.goTo(navigator.Wallet)
	a.printf("Balance: %d points\n", acc.Points)
	return nil
}

// Deposit tops up the balance.
func (a *App) Deposit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("deposit <points>")
	}
	points, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errUsage("deposit <points>, points is a whole number")
	}
	acc, err := a.wallet.Deposit(ctx, points)
	if err != nil {
		return err
	}
	a.goTo(navigator.Wallet)
	a.printf("Deposited %d points, balance %d\n", points, acc.Points)
	return nil
}

// History prints the latest balance movements.
func (a *App) History(ctx context.Context) error {
	entries, err := a.wallet.History(ctx, historyLimit)
	if err != nil {
		return err
	}
	a.goTo(navigator.Wallet)
	if len(entries) == 0 {
		a.printf("No balance movements\n")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tKIND\tAMOUNT\tBALANCE\tREFERENCE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%+d\t%d\t%s\n", e.CreatedAt.Local().Format(time.DateTime), e.Kind, e.Amount, e.BalanceAfter, e.Reference)
	}
	return tw.Flush()
}

// Transactions lists the backend transaction history, newest first.
func (a *App) Transactions(ctx context.Context, args []string) error {
	q := models.PageQuery{Size: pageSize, SortField: "createdAt", SortDirection: models.SortDesc}
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return errUsage("transactions [page]")
		}
		q.Page = n - 1
	} else if len(args) > 1 {
		return errUsage("transactions [page]")
	}

	p, err := a.wallet.Transactions(ctx, q)
	if err != nil {
		return err
	}
	a.goTo(navigator.Wallet)
	if len(p.Content) == 0 {
		a.printf("No transactions\n")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tAMOUNT\tSTATUS\tDESCRIPTION")
	for _, t := range p.Content {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", t.ID, t.Type, t.Amount, t.Status, t.Description)
	}
	return tw.Flush()
}
