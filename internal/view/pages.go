package view

import (
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/adminconsole/internal/models"
)

// PageID identifies which controller populates a page.
type PageID string

const (
	PageLogin             PageID = "login"
	PageDashboard         PageID = "dashboard"
	PageUsers             PageID = "users"
	PageUserDetail        PageID = "user-detail"
	PageUserSubscriptions PageID = "user-subscriptions"
	PageUserTransactions  PageID = "user-transactions"
)

const (
	NoUsers         = "No users found."
	NoSubscriptions = "No subscriptions found."
	NoTransactions  = "No transactions found."
)

// Stats is the dashboard. A nil *Stats means the fetch did not succeed.
type Stats struct {
	Users         int64
	Subscriptions int64
	Payments      int64
}

func BuildStats(s models.DashboardStats) *Stats {
	return &Stats{Users: s.Users, Subscriptions: s.Subscriptions, Payments: s.Payments}
}

// Table is a rendered collection page.
type Table[R any] struct {
	Count   string
	Rows    []R
	Empty   string
	Colspan int
	Links   []Link
}

// UsersFilter pre-populates the users filter form.
type UsersFilter struct {
	Limit      string
	IsActive   string
	IsVerified string
	IsAdmin    string
}

func BuildUsersFilter(q url.Values) UsersFilter {
	f := UsersFilter{
		Limit:      q.Get("limit"),
		IsActive:   q.Get("is_active"),
		IsVerified: q.Get("is_verified"),
		IsAdmin:    q.Get("is_admin"),
	}
	if f.Limit == "" {
		f.Limit = models.DefaultLimit
	}
	return f
}

type UserRow struct {
	ID       string
	Email    string
	Href     string
	Username string
	Admin    string
	Active   string
	Verified string
	Created  string
}

// UserHref is the console page for one user.
func UserHref(id string) string {
	return "/admin/users/" + url.PathEscape(id)
}

func BuildUsersTable(f Formatter, page models.Page[models.User], current url.Values) *Table[UserRow] {
	t := &Table[UserRow]{
		Count:   fmt.Sprintf("%d total users", page.Total),
		Colspan: 6,
		Links:   Pagination("/admin/users", current, page.PrevOffset, page.NextOffset),
	}
	if len(page.Data) == 0 {
		t.Empty = NoUsers
		return t
	}
	for _, u := range page.Data {
		t.Rows = append(t.Rows, UserRow{
			ID:       u.ID.String(),
			Email:    u.Email,
			Href:     UserHref(u.ID.String()),
			Username: OrDash(u.Username),
			Admin:    YesNo(u.IsAdmin),
			Active:   YesNo(u.IsActive),
			Verified: YesNo(u.IsVerified),
			Created:  f.Date(u.CreatedAt),
		})
	}
	return t
}

type SubscriptionRow struct {
	Status    string
	Provider  string
	Started   string
	PeriodEnd string
}

func BuildSubscriptionsTable(f Formatter, userID string, page models.Page[models.Subscription], current url.Values) *Table[SubscriptionRow] {
	t := &Table[SubscriptionRow]{
		Count:   fmt.Sprintf("%d total subscriptions", page.Total),
		Colspan: 4,
		Links:   Pagination(UserHref(userID)+"/subscriptions", current, page.PrevOffset, page.NextOffset),
	}
	if len(page.Data) == 0 {
		t.Empty = NoSubscriptions
		return t
	}
	for _, s := range page.Data {
		t.Rows = append(t.Rows, SubscriptionRow{
			Status:    OrDash(s.Status),
			Provider:  OrDash(s.Provider),
			Started:   f.Date(s.StartedAt),
			PeriodEnd: f.Date(s.CurrentPeriodEnd),
		})
	}
	return t
}

type TransactionRow struct {
	Status   string
	Provider string
	Amount   string
	Created  string
}

func BuildTransactionsTable(f Formatter, userID string, page models.Page[models.Transaction], current url.Values) *Table[TransactionRow] {
	t := &Table[TransactionRow]{
		Count:   fmt.Sprintf("%d total transactions", page.Total),
		Colspan: 4,
		Links:   Pagination(UserHref(userID)+"/transactions", current, page.PrevOffset, page.NextOffset),
	}
	if len(page.Data) == 0 {
		t.Empty = NoTransactions
		return t
	}
	for _, tx := range page.Data {
		t.Rows = append(t.Rows, TransactionRow{
			Status:   OrDash(tx.Status),
			Provider: OrDash(tx.Provider),
			Amount:   Amount(tx.AmountCents, tx.Currency),
			Created:  f.Date(tx.CreatedAt),
		})
	}
	return t
}

// UserProfile is the header block of the user page.
type UserProfile struct {
	Email              string
	Username           string
	Admin              string
	Active             string
	Verified           string
	Created            string
	SubscriptionsCount int64
	TransactionsCount  int64
}

func BuildUserProfile(f Formatter, d models.UserDetail) *UserProfile {
	return &UserProfile{
		Email:              d.User.Email,
		Username:           OrDash(d.User.Username),
		Admin:              YesNo(d.User.IsAdmin),
		Active:             YesNo(d.User.IsActive),
		Verified:           YesNo(d.User.IsVerified),
		Created:            f.Date(d.User.CreatedAt),
		SubscriptionsCount: d.SubscriptionsCount,
		TransactionsCount:  d.TransactionsCount,
	}
}

// Summary is a short list on the user page; Empty is set when it has no
// items.
type Summary struct {
	Items []SummaryItem
	Empty string
}

type SummaryItem struct {
	Status string
	Detail string
}

func BuildSubscriptionSummary(f Formatter, page models.Page[models.Subscription]) *Summary {
	if len(page.Data) == 0 {
		return &Summary{Empty: NoSubscriptions}
	}
	s := &Summary{}
	for _, sub := range page.Data {
		s.Items = append(s.Items, SummaryItem{
			Status: sub.Status,
			Detail: sub.Provider + " - " + f.Date(sub.StartedAt),
		})
	}
	return s
}

func BuildTransactionSummary(page models.Page[models.Transaction]) *Summary {
	if len(page.Data) == 0 {
		return &Summary{Empty: NoTransactions}
	}
	s := &Summary{}
	for _, tx := range page.Data {
		s.Items = append(s.Items, SummaryItem{
			Status: tx.Status,
			Detail: tx.Provider + " - " + Amount(tx.AmountCents, tx.Currency),
		})
	}
	return s
}
