package phono

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExact(t *testing.T) {
	inv, err := NewInventory(testRecords())
	require.NoError(t, err)
	r := NewResolver(inv, 16)

	v, _ := inv.Features("f")
	res, ok := r.Resolve(v)
	require.True(t, ok)
	assert.Equal(t, "f", res.Symbol)
	assert.True(t, res.Exact)
	assert.Equal(t, "f", res.Text())
	_, ambiguous := res.Notice(v)
	assert.False(t, ambiguous)
}

func TestResolveDuplicateGroup(t *testing.T) {
	inv, err := NewInventory(testRecords())
	require.NoError(t, err)
	r := NewResolver(inv, 0)

	v, _ := inv.Features("ʦ")
	res, ok := r.Resolve(v)
	require.True(t, ok)
	assert.Equal(t, "ts", res.Symbol)
	assert.True(t, res.Exact)
	notice, ambiguous := res.Notice(v)
	require.True(t, ambiguous)
	assert.Equal(t, []string{"ts", "ʦ"}, notice.Symbols)
	assert.Contains(t, notice.String(), `chose "ts"`)
}

func TestResolveFallback(t *testing.T) {
	inv, err := NewInventory(testRecords())
	require.NoError(t, err)
	r := NewResolver(inv, 4)

	// Voiced and continuant but consonantal: no such segment.
	v := vec("syl", Minus, "cons", Plus, "voice", Plus, "cont", Plus)
	res, ok := r.Resolve(v)
	require.True(t, ok)
	assert.False(t, res.Exact)
	// b and f both share three pairs; b is registered first.
	assert.Equal(t, "b", res.Symbol)
	assert.Equal(t, "(b)", res.Text())
	assert.InDelta(t, 0.75, res.Ratio, 1e-9)

	again, _ := r.Resolve(v)
	assert.Equal(t, res, again)
}

func TestResolveEmpty(t *testing.T) {
	inv, err := NewInventory(testRecords())
	require.NoError(t, err)
	_, ok := NewResolver(inv, 1).Resolve(nil)
	assert.False(t, ok)
}

func TestResolveConcurrent(t *testing.T) {
	inv, err := NewInventory(testRecords())
	require.NoError(t, err)
	r := NewResolver(inv, 2)
	queries := []Vector{
		vec("syl", Plus, "cons", Plus, "voice", Plus, "cont", Plus),
		vec("syl", Minus, "cons", Minus, "voice", Minus, "cont", Minus),
		vec("syl", Plus, "cons", Plus, "voice", Minus, "cont", Minus),
	}
	want := make([]Resolution, len(queries))
	for i, q := range queries {
		want[i], _ = NewResolver(inv, 0).Resolve(q)
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q := i % len(queries)
				got, _ := r.Resolve(queries[q])
				assert.Equal(t, want[q], got)
			}
		}()
	}
	wg.Wait()
}
