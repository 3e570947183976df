package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalSortedIsStable(t *testing.T) {
	a := map[string]interface{}{"b": 1, "a": "x", "c": []int{1, 2}}
	b := map[string]interface{}{"c": []int{1, 2}, "a": "x", "b": 1}

	da, err := MarshalSorted(a)
	require.NoError(t, err)
	db, err := MarshalSorted(b)
	require.NoError(t, err)

	assert.Equal(t, string(da), string(db))
	assert.Equal(t, `{"a":"x","b":1,"c":[1,2]}`, string(da))
}

func TestConvert(t *testing.T) {
	type hit struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	}
	var out []hit
	err := Convert([]interface{}{map[string]interface{}{"title": "t", "url": "u"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, []hit{{Title: "t", URL: "u"}}, out)
}
