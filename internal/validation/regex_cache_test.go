package validation

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexCacheEvictsFIFO(t *testing.T) {
	cache := NewRegexCache(100, logrus.New())

	for i := 0; i < 150; i++ {
		_, ok := cache.Get(fmt.Sprintf("^value-%d$", i))
		assert.True(t, ok)
	}

	assert.Equal(t, 100, cache.Len())

	// The first 50 patterns were evicted; re-fetching recompiles them.
	re, ok := cache.Get("^value-0$")
	require.True(t, ok)
	assert.True(t, re.MatchString("value-0"))
	assert.Equal(t, 100, cache.Len())
}

func TestRegexCacheInvalidPatternCachedOnce(t *testing.T) {
	cache := NewRegexCache(10, logrus.New())

	re, ok := cache.Get("[unclosed")
	assert.False(t, ok)
	assert.Nil(t, re)

	// The invalid marker occupies a slot so compilation is not retried.
	assert.Equal(t, 1, cache.Len())
	_, ok = cache.Get("[unclosed")
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())
}

func TestRegexCacheReusesCompiled(t *testing.T) {
	cache := NewRegexCache(10, logrus.New())

	first, ok := cache.Get(`^\d+$`)
	require.True(t, ok)
	second, ok := cache.Get(`^\d+$`)
	require.True(t, ok)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Len())
}
