package pattern

import (
	"fmt"
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of compiled expressions kept.
const DefaultCacheSize = 256

// Compiler compiles regex sources and remembers both successes and failures,
// so a bad pattern is only reported once per source string.
type Compiler struct {
	cache *lru.Cache[string, compiled]
}

type compiled struct {
	re  *regexp.Regexp
	err error
}

// NewCompiler creates a Compiler holding at most size expressions.
func NewCompiler(size int) (*Compiler, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, compiled](size)
	if err != nil {
		return nil, fmt.Errorf("create regex cache: %w", err)
	}
	return &Compiler{cache: cache}, nil
}

// Compile returns the compiled expression for src.
func (c *Compiler) Compile(src string) (*regexp.Regexp, error) {
	if hit, ok := c.cache.Get(src); ok {
		return hit.re, hit.err
	}
	re, err := regexp.Compile(src)
	c.cache.Add(src, compiled{re: re, err: err})
	return re, err
}

// Len returns the number of cached entries.
func (c *Compiler) Len() int {
	return c.cache.Len()
}
