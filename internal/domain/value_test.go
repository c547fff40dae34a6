package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValueKinds(t *testing.T) {
	cases := []struct {
		raw  string
		kind Kind
		text string
	}{
		{`"Fireball"`, KindString, "Fireball"},
		{`42`, KindNumber, "42"},
		{`1.50`, KindNumber, "1.50"},
		{`true`, KindBool, "true"},
		{`null`, KindNull, "null"},
		{`{"a": [1, 2]}`, KindRaw, `{"a":[1,2]}`},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			v, err := ParseValue([]byte(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, tc.kind, v.Kind())
			assert.Equal(t, tc.text, v.Text())
		})
	}
}

func TestParseValueRejectsGarbage(t *testing.T) {
	for _, raw := range []string{``, `nil`, `"open`, `1e999`} {
		_, err := ParseValue([]byte(raw))
		assert.Error(t, err, raw)
	}
}

func TestValueMarshalKeepsLiteral(t *testing.T) {
	v, err := ParseValue([]byte(`1.50`))
	require.NoError(t, err)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `1.50`, string(out))
}

func TestValueLooseEqual(t *testing.T) {
	assert.True(t, Int(1).LooseEqual("1"))
	assert.True(t, Int(1).LooseEqual("1.0"))
	assert.True(t, Int(1).LooseEqual(" 1 "))
	assert.False(t, Int(1).LooseEqual(""))
	assert.False(t, Int(1).LooseEqual("one"))
	assert.False(t, Int(0).LooseEqual(""))

	assert.True(t, String("rare").LooseEqual("rare"))
	assert.False(t, String("rare").LooseEqual("Rare"))
	assert.False(t, String("1").LooseEqual("1.0"))

	assert.True(t, Bool(true).LooseEqual("true"))
	assert.False(t, Bool(true).LooseEqual("1"))

	assert.False(t, Null().LooseEqual("null"))
	assert.False(t, Null().LooseEqual(""))
}

func TestValueEqualIsExact(t *testing.T) {
	assert.True(t, Int(1).Equal(Number(1)))
	assert.False(t, Int(1).Equal(String("1")))
	assert.True(t, String("a").Equal(String("a")))
	assert.True(t, Null().Equal(Null()))

	raw, err := ParseValue([]byte(`[1]`))
	require.NoError(t, err)
	assert.False(t, raw.Equal(raw))
}

func TestValueTruthy(t *testing.T) {
	assert.True(t, String("x").Truthy())
	assert.False(t, String("").Truthy())
	assert.True(t, Int(3).Truthy())
	assert.False(t, Int(0).Truthy())
	assert.True(t, Bool(true).Truthy())
	assert.False(t, Bool(false).Truthy())
	assert.False(t, Null().Truthy())
}
