package models

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_AcceptsStringAndNumber(t *testing.T) {
	var u struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"9f1c","b":42,"c":null}`), &u))
	assert.Equal(t, ID("9f1c"), u.A)
	assert.Equal(t, ID("42"), u.B)
	assert.Equal(t, ID(""), u.C)

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestPage_Defaults(t *testing.T) {
	var p Page[User]
	require.NoError(t, json.Unmarshal([]byte(`{"next_offset":10}`), &p))

	assert.EqualValues(t, 0, p.Total)
	assert.NotNil(t, p.Data)
	assert.Empty(t, p.Data)
	assert.Nil(t, p.PrevOffset)
	require.NotNil(t, p.NextOffset)
	assert.Equal(t, 10, *p.NextOffset)
}

func TestPage_NullOffsetsStayNil(t *testing.T) {
	var p Page[Transaction]
	body := `{"total":25,"data":[{"status":"paid","provider":"stripe","amount_cents":1999,"currency":"USD"}],
		"limit":10,"offset":0,"has_next":true,"prev_offset":null,"next_offset":10}`
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	assert.EqualValues(t, 25, p.Total)
	require.Len(t, p.Data, 1)
	assert.EqualValues(t, 1999, p.Data[0].AmountCents)
	assert.True(t, p.HasNext)
	assert.Nil(t, p.PrevOffset)
	require.NotNil(t, p.Offset)
	assert.Equal(t, 0, *p.Offset)
}

func TestUserDetail_MissingCounts(t *testing.T) {
	var d UserDetail
	require.NoError(t, json.Unmarshal([]byte(`{"user":{"id":7,"email":"a@b.c","is_admin":true}}`), &d))

	assert.Equal(t, ID("7"), d.User.ID)
	assert.True(t, d.User.IsAdmin)
	assert.Zero(t, d.SubscriptionsCount)
	assert.Zero(t, d.TransactionsCount)
}

func TestUserFilter_QuerySkipsEmpty(t *testing.T) {
	f := UserFilterFrom(url.Values{"limit": {"5"}, "is_admin": {"true"}, "is_active": {""}, "extra": {"x"}})

	assert.Equal(t, url.Values{"limit": {"5"}, "is_admin": {"true"}}, f.Query())
	assert.Empty(t, UserFilter{}.Query())
}

func TestPageRequestFrom_Defaults(t *testing.T) {
	assert.Equal(t, PageRequest{Limit: "10", Offset: "0"}, PageRequestFrom(url.Values{}))
	assert.Equal(t, PageRequest{Limit: "25", Offset: "50"}, PageRequestFrom(url.Values{"limit": {"25"}, "offset": {"50"}}))
	assert.Equal(t, "limit=10&offset=0", PageRequest{Limit: "10", Offset: "0"}.Query().Encode())
}
