// Package models holds the JSON shapes exchanged with the admin API.
//
// Optional fields are resolved while decoding: missing numbers become 0,
// a missing or null data array becomes empty, and absent page offsets stay
// nil so pagination can tell "no such page" apart from offset 0.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an identifier the API may send either as a string or a number.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

type TokenPair struct {
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DashboardStats struct {
	Users         int64 `json:"users"`
	Subscriptions int64 `json:"subscriptions"`
	Payments      int64 `json:"payments"`
}

type User struct {
	ID         ID     `json:"id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	IsAdmin    bool   `json:"is_admin"`
	IsActive   bool   `json:"is_active"`
	IsVerified bool   `json:"is_verified"`
	CreatedAt  string `json:"created_at"`
}

type UserDetail struct {
	User               User  `json:"user"`
	SubscriptionsCount int64 `json:"subscriptions_count"`
	TransactionsCount  int64 `json:"transactions_count"`
}

type Subscription struct {
	Status           string `json:"status"`
	Provider         string `json:"provider"`
	StartedAt        string `json:"started_at"`
	CurrentPeriodEnd string `json:"current_period_end"`
}

type Transaction struct {
	Status      string `json:"status"`
	Provider    string `json:"provider"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	CreatedAt   string `json:"created_at"`
}

// Page is one offset-paginated slice of a collection.
type Page[T any] struct {
	Total      int64 `json:"total"`
	Data       []T   `json:"data"`
	Limit      *int  `json:"limit,omitempty"`
	Offset     *int  `json:"offset,omitempty"`
	HasNext    bool  `json:"has_next"`
	PrevOffset *int  `json:"prev_offset"`
	NextOffset *int  `json:"next_offset"`
}

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	var r struct {
		Total      int64 `json:"total"`
		Data       []T   `json:"data"`
		Limit      *int  `json:"limit"`
		Offset     *int  `json:"offset"`
		HasNext    bool  `json:"has_next"`
		PrevOffset *int  `json:"prev_offset"`
		NextOffset *int  `json:"next_offset"`
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	if r.Data == nil {
		r.Data = []T{}
	}
	*p = Page[T]{
		Total:      r.Total,
		Data:       r.Data,
		Limit:      r.Limit,
		Offset:     r.Offset,
		HasNext:    r.HasNext,
		PrevOffset: r.PrevOffset,
		NextOffset: r.NextOffset,
	}
	return nil
}
