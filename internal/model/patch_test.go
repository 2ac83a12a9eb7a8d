package model

import (
	"encoding/json"
	"errors"
	"testing"

	"cashierhub-api/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldUnmarshalPresence(t *testing.T) {
	var p UserPatch
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Budi","profile_picture":null}`), &p))

	assert.True(t, p.Name.Present())
	assert.Equal(t, "Budi", p.Name.Value)
	assert.True(t, p.ProfilePicture.Set)
	assert.True(t, p.ProfilePicture.Null)
	assert.False(t, p.Email.Set)
}

func TestFieldMarshal(t *testing.T) {
	body, err := json.Marshal(struct {
		A Field[int] `json:"a"`
		B Field[int] `json:"b"`
	}{A: Some(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":null}`, string(body))
}

func fakeHash(s string) (string, error) { return "hashed:" + s, nil }

func TestUserPatchColumnsOnlyPresentFields(t *testing.T) {
	var p UserPatch
	require.NoError(t, json.Unmarshal([]byte(`{"phone":"0812","address":"Jl. Merdeka"}`), &p))

	cols, err := p.Columns(fakeHash)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"phone": "0812", "address": "Jl. Merdeka"}, cols)
}

func TestUserPatchBlankUsernameAndPasswordAreKept(t *testing.T) {
	p := UserPatch{Username: Some("  "), Password: Some("")}
	cols, err := p.Columns(fakeHash)
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestUserPatchHashesPassword(t *testing.T) {
	p := UserPatch{Password: Some("newpass")}
	cols, err := p.Columns(fakeHash)
	require.NoError(t, err)
	assert.Equal(t, "hashed:newpass", cols["password"])
}

func TestUserPatchShortPassword(t *testing.T) {
	p := UserPatch{Password: Some("abc")}
	_, err := p.Columns(fakeHash)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestUserPatchHashError(t *testing.T) {
	boom := errors.New("boom")
	p := UserPatch{Password: Some("longenough")}
	_, err := p.Columns(func(string) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
}

func TestUserPatchProfilePictureNullClears(t *testing.T) {
	cols, err := UserPatch{ProfilePicture: Null[string]()}.Columns(fakeHash)
	require.NoError(t, err)
	v, ok := cols["profile_picture"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestUserPatchRejectsInvalid(t *testing.T) {
	cases := map[string]UserPatch{
		"null name":  {Name: Null[string]()},
		"blank name": {Name: Some(" ")},
		"bad email":  {Email: Some("nope")},
		"null email": {Email: Null[string]()},
		"blank role": {Role: Some("")},
		"null role":  {Role: Null[string]()},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := p.Columns(fakeHash)
			assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
		})
	}
}

func TestProductPatchCategoryAlias(t *testing.T) {
	var p ProductPatch
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Minuman"}`), &p))
	name, ok, err := p.CategoryName()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Minuman", name)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"Minuman","category":"Makanan"}`), &p))
	name, _, _ = p.CategoryName()
	assert.Equal(t, "Makanan", name)

	_, ok, err = ProductPatch{}.CategoryName()
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = ProductPatch{Category: Some(" ")}.CategoryName()
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestProductPatchColumns(t *testing.T) {
	var p ProductPatch
	require.NoError(t, json.Unmarshal([]byte(`{"stock":12,"price":"15000.50"}`), &p))

	cols, err := p.Columns()
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, 12, cols["stock"])
	assert.True(t, decimal.RequireFromString("15000.50").Equal(cols["price"].(decimal.Decimal)))
}

func TestProductPatchRejectsNegative(t *testing.T) {
	_, err := ProductPatch{Stock: Some(-1)}.Columns()
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = ProductPatch{Price: Some(decimal.NewFromInt(-5))}.Columns()
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = ProductPatch{Code: Null[string]()}.Columns()
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestProductPatchRejectsValuesBeyondColumns(t *testing.T) {
	_, err := ProductPatch{Stock: Some(MaxQuantity + 1)}.Columns()
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = ProductPatch{Price: Some(decimal.RequireFromString("10000000000.00"))}.Columns()
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	cols, err := ProductPatch{Stock: Some(MaxQuantity), Price: Some(MaxAmount)}.Columns()
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, cols["stock"])
}

func TestAmountInRange(t *testing.T) {
	assert.True(t, AmountInRange(decimal.Zero))
	assert.True(t, AmountInRange(MaxAmount))
	assert.True(t, AmountInRange(decimal.RequireFromString("9999999999.994")))
	assert.False(t, AmountInRange(decimal.RequireFromString("9999999999.995")))
	assert.False(t, AmountInRange(decimal.NewFromInt(-1)))
}
