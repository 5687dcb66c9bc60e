package validation

import (
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/pkg/constants"
)

// regexEntry is a tagged cache entry: either a compiled pattern or a marker
// that compilation failed, so a bad pattern is compiled and logged only
// once.
type regexEntry struct {
	compiled *regexp.Regexp
	invalid  bool
}

// RegexCache caches compiled constraint patterns keyed by pattern text,
// bounded with FIFO eviction. The pipeline is single-goroutine, so no
// locking is needed.
type RegexCache struct {
	maxSize int
	entries map[string]regexEntry
	order   []string
	logger  *logrus.Logger
}

// NewRegexCache creates a pattern cache with the given capacity.
func NewRegexCache(maxSize int, logger *logrus.Logger) *RegexCache {
	if maxSize <= 0 {
		maxSize = constants.DefaultRegexCacheSize
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &RegexCache{
		maxSize: maxSize,
		entries: make(map[string]regexEntry, maxSize),
		logger:  logger,
	}
}

// Get returns the compiled regex for the pattern, compiling and caching on
// first use. The second return is false when the pattern is invalid.
func (c *RegexCache) Get(pattern string) (*regexp.Regexp, bool) {
	if entry, ok := c.entries[pattern]; ok {
		if entry.invalid {
			return nil, false
		}
		return entry.compiled, true
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"pattern": pattern,
			"error":   err,
		}).Warn("Invalid constraint pattern, skipping")
		c.insert(pattern, regexEntry{invalid: true})
		return nil, false
	}

	c.insert(pattern, regexEntry{compiled: re})
	return re, true
}

// Len returns the number of cached entries.
func (c *RegexCache) Len() int {
	return len(c.entries)
}

func (c *RegexCache) insert(pattern string, entry regexEntry) {
	if len(c.entries) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[pattern] = entry
	c.order = append(c.order, pattern)
}
