package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/adminconsole/internal/apiclient"
	"github.com/dmitrijs2005/adminconsole/internal/cryptox"
	"github.com/dmitrijs2005/adminconsole/internal/models"
	"github.com/dmitrijs2005/adminconsole/internal/view"
)

const sessionExpired = "Session expired. Run 'login' to sign in again."

// report prints err for the user and hands it back.
func (a *App) report(ctx context.Context, err error) error {
	var se *apiclient.StatusError
	switch {
	case errors.Is(err, apiclient.ErrLoginRequired):
		fmt.Fprintln(a.out, sessionExpired)
	case errors.As(err, &se):
		fmt.Fprintf(a.out, "Request failed: %s\n", se.Error())
	default:
		a.logger.Error(ctx, "command failed", "error", err)
		fmt.Fprintf(a.out, "error: %v\n", err)
	}
	return err
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.scanner, "Enter email", a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	password, err := GetPassword(a.scanner, a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	defer cryptox.Wipe(password)

	pair, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		var le *apiclient.LoginError
		if errors.As(err, &le) {
			fmt.Fprintln(a.out, le.Error())
			return err
		}
		return a.report(ctx, err)
	}

	if err := a.sess.SetTokens(ctx, pair.Token, pair.RefreshToken); err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.sess.Clear(ctx); err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	stats, err := a.api.DashboardStats(ctx, a.sess)
	if err != nil {
		return a.report(ctx, err)
	}
	s := view.BuildStats(stats)
	fmt.Fprintf(a.out, "Users: %d\nSubscriptions: %d\nPayments: %d\n", s.Users, s.Subscriptions, s.Payments)
	return nil
}

// Users lists users. Positional arguments are limit and offset; key=value
// arguments set filters such as is_admin=true.
func (a *App) Users(ctx context.Context, args []string) error {
	q := parseArgs(args, "limit", "offset")
	page, err := a.api.ListUsers(ctx, a.sess, models.UserFilterFrom(q))
	if err != nil {
		return a.report(ctx, err)
	}

	t := view.BuildUsersTable(a.format, page, q)
	fmt.Fprintln(a.out, t.Count)
	if t.Empty != "" {
		fmt.Fprintln(a.out, t.Empty)
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tUSERNAME\tADMIN\tACTIVE\tVERIFIED\tCREATED")
	for _, r := range t.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Email, r.Username, r.Admin, r.Active, r.Verified, r.Created)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	a.printOffsets(page.PrevOffset, page.NextOffset)
	return nil
}

// User shows one user. The two short lists are fetched on their own, so one
// failing does not hide the other.
func (a *App) User(ctx context.Context, args []string) error {
	id, _, ok := splitID(args)
	if !ok {
		fmt.Fprintln(a.out, "Usage: user <id>")
		return nil
	}

	detail, err := a.api.GetUser(ctx, a.sess, id)
	if err != nil {
		return a.report(ctx, err)
	}
	p := view.BuildUserProfile(a.format, detail)

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, line := range [][2]string{
		{"Email", p.Email},
		{"Username", p.Username},
		{"Admin", p.Admin},
		{"Active", p.Active},
		{"Verified", p.Verified},
		{"Created", p.Created},
		{"Subscriptions", fmt.Sprint(p.SubscriptionsCount)},
		{"Transactions", fmt.Sprint(p.TransactionsCount)},
	} {
		fmt.Fprintf(w, "%s:\t%s\n", line[0], line[1])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\nRecent subscriptions:")
	subs, err := a.api.ListUserSubscriptions(ctx, a.sess, id, apiclient.DetailPreview)
	if err != nil {
		if errors.Is(err, apiclient.ErrLoginRequired) {
			return a.report(ctx, err)
		}
		_ = a.report(ctx, err)
	} else {
		a.printSummary(view.BuildSubscriptionSummary(a.format, subs))
	}

	fmt.Fprintln(a.out, "\nRecent transactions:")
	txs, err := a.api.ListUserTransactions(ctx, a.sess, id, apiclient.DetailPreview)
	if err != nil {
		return a.report(ctx, err)
	}
	a.printSummary(view.BuildTransactionSummary(txs))
	return nil
}

func (a *App) Subscriptions(ctx context.Context, args []string) error {
	id, rest, ok := splitID(args)
	if !ok {
		fmt.Fprintln(a.out, "Usage: subs <id> [limit] [offset]")
		return nil
	}
	q := parseArgs(rest, "limit", "offset")
	page, err := a.api.ListUserSubscriptions(ctx, a.sess, id, models.PageRequestFrom(q))
	if err != nil {
		return a.report(ctx, err)
	}

	t := view.BuildSubscriptionsTable(a.format, id, page, q)
	fmt.Fprintln(a.out, t.Count)
	if t.Empty != "" {
		fmt.Fprintln(a.out, t.Empty)
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tPROVIDER\tSTARTED\tPERIOD END")
	for _, r := range t.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Status, r.Provider, r.Started, r.PeriodEnd)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	a.printOffsets(page.PrevOffset, page.NextOffset)
	return nil
}

func (a *App) Transactions(ctx context.Context, args []string) error {
	id, rest, ok := splitID(args)
	if !ok {
		fmt.Fprintln(a.out, "Usage: txs <id> [limit] [offset]")
		return nil
	}
	q := parseArgs(rest, "limit", "offset")
	page, err := a.api.ListUserTransactions(ctx, a.sess, id, models.PageRequestFrom(q))
	if err != nil {
		return a.report(ctx, err)
	}

	t := view.BuildTransactionsTable(a.format, id, page, q)
	fmt.Fprintln(a.out, t.Count)
	if t.Empty != "" {
		fmt.Fprintln(a.out, t.Empty)
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tPROVIDER\tAMOUNT\tCREATED")
	for _, r := range t.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Status, r.Provider, r.Amount, r.Created)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	a.printOffsets(page.PrevOffset, page.NextOffset)
	return nil
}

func (a *App) printSummary(s *view.Summary) {
	if s.Empty != "" {
		fmt.Fprintln(a.out, s.Empty)
		return
	}
	for _, item := range s.Items {
		fmt.Fprintf(a.out, "  %s  %s\n", item.Status, item.Detail)
	}
}

func (a *App) printOffsets(prev, next *int) {
	if prev != nil {
		fmt.Fprintf(a.out, "previous offset: %d\n", *prev)
	}
	if next != nil {
		fmt.Fprintf(a.out, "next offset: %d\n", *next)
	}
}

// parseArgs maps key=value arguments as is and bare arguments onto the
// given names in order. Extra bare arguments are ignored.
func parseArgs(args []string, positional ...string) url.Values {
	q := url.Values{}
	i := 0
	for _, arg := range args {
		if k, v, ok := strings.Cut(arg, "="); ok {
			q.Set(k, v)
			continue
		}
		if i < len(positional) {
			q.Set(positional[i], arg)
			i++
		}
	}
	return q
}

func splitID(args []string) (string, []string, bool) {
	if len(args) == 0 || args[0] == "" {
		return "", nil, false
	}
	return args[0], args[1:], true
}

var _ execIface = (*App)(nil)
