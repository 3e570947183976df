package options

import (
	"fmt"
	"time"

	"github.com/kiosk404/herald/internal/herald/service/tools/builtin"
	"github.com/spf13/pflag"
)

// ToolsOptions configures tool execution and the result cache.
type ToolsOptions struct {
	CacheBackend    string        `json:"cache-backend"     mapstructure:"cache-backend"`
	CacheTTL        time.Duration `json:"cache-ttl"         mapstructure:"cache-ttl"`
	CacheMaxEntries int           `json:"cache-max-entries" mapstructure:"cache-max-entries"`
	CacheWriteTools bool          `json:"cache-write-tools" mapstructure:"cache-write-tools"`
	Uncached        []string      `json:"uncached"          mapstructure:"uncached"`

	RedisAddr      string `json:"redis-addr"       mapstructure:"redis-addr"`
	RedisPassword  string `json:"redis-password"   mapstructure:"redis-password"`
	RedisDB        int    `json:"redis-db"         mapstructure:"redis-db"`
	RedisKeyPrefix string `json:"redis-key-prefix" mapstructure:"redis-key-prefix"`

	ExecTimeout  time.Duration `json:"exec-timeout"  mapstructure:"exec-timeout"`
	StrictParams bool          `json:"strict-params" mapstructure:"strict-params"`

	SearchEndpoint string        `json:"search-endpoint" mapstructure:"search-endpoint"`
	CrawlTimeout   time.Duration `json:"crawl-timeout"   mapstructure:"crawl-timeout"`
	MaxPageChars   int           `json:"max-page-chars"  mapstructure:"max-page-chars"`
}

func NewToolsOptions() *ToolsOptions {
	return &ToolsOptions{
		CacheBackend:    "memory",
		CacheTTL:        5 * time.Minute,
		CacheMaxEntries: 100,
		Uncached:        []string{builtin.GetCurrentTime},
		RedisAddr:       "127.0.0.1:6379",
		RedisKeyPrefix:  "herald:tools:",
		ExecTimeout:     30 * time.Second,
		CrawlTimeout:    15 * time.Second,
		MaxPageChars:    8000,
	}
}

func (o *ToolsOptions) Validate() []error {
	var errs []error
	switch o.CacheBackend {
	case "memory", "redis", "none":
	default:
		errs = append(errs, fmt.Errorf("--tools.cache-backend %q must be one of memory, redis, none", o.CacheBackend))
	}
	if o.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("--tools.cache-ttl must be positive"))
	}
	if o.ExecTimeout <= 0 {
		errs = append(errs, fmt.Errorf("--tools.exec-timeout must be positive"))
	}
	return errs
}

func (o *ToolsOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.CacheBackend, "tools.cache-backend", o.CacheBackend, "Tool result cache: memory, redis or none.")
	fs.DurationVar(&o.CacheTTL, "tools.cache-ttl", o.CacheTTL, "How long a cached tool result stays valid.")
	fs.IntVar(&o.CacheMaxEntries, "tools.cache-max-entries", o.CacheMaxEntries, "Entry count above which expired results are swept.")
	fs.BoolVar(&o.CacheWriteTools, "tools.cache-write-tools", o.CacheWriteTools, "Also cache results of tools that write data.")
	fs.StringSliceVar(&o.Uncached, "tools.uncached", o.Uncached, "Tools whose results are never cached.")
	fs.StringVar(&o.RedisAddr, "tools.redis-addr", o.RedisAddr, "Redis address for the redis cache backend.")
	fs.StringVar(&o.RedisPassword, "tools.redis-password", o.RedisPassword, "Redis password, ${ENV} references allowed.")
	fs.IntVar(&o.RedisDB, "tools.redis-db", o.RedisDB, "Redis database number.")
	fs.StringVar(&o.RedisKeyPrefix, "tools.redis-key-prefix", o.RedisKeyPrefix, "Prefix for cached result keys.")
	fs.DurationVar(&o.ExecTimeout, "tools.exec-timeout", o.ExecTimeout, "Timeout for a single tool execution.")
	fs.BoolVar(&o.StrictParams, "tools.strict-params", o.StrictParams, "Reject parameters a tool does not declare.")
	fs.StringVar(&o.SearchEndpoint, "tools.search-endpoint", o.SearchEndpoint, "SearXNG-compatible JSON search endpoint for web_search.")
	fs.DurationVar(&o.CrawlTimeout, "tools.crawl-timeout", o.CrawlTimeout, "HTTP timeout for crawl_webpage.")
	fs.IntVar(&o.MaxPageChars, "tools.max-page-chars", o.MaxPageChars, "Maximum characters of page text kept per crawl.")
}
