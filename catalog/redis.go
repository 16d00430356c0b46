package catalog

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vortex-fintech/intlphone/geo"
	"github.com/vortex-fintech/intlphone/logger"
)

const (
	DefaultCacheKey = "intlphone:countries"
	DefaultCacheTTL = time.Hour
)

// RedisConfig describes a single-node, sentinel or cluster deployment.
type RedisConfig struct {
	Mode         string        `yaml:"mode" validate:"omitempty,oneof=single sentinel cluster"`
	Addrs        []string      `yaml:"addrs"`
	MasterName   string        `yaml:"master_name"`
	DB           int           `yaml:"db" validate:"gte=0"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	TLSEnabled   bool          `yaml:"tls"`
	Key          string        `yaml:"key"`
	TTL          time.Duration `yaml:"ttl"`
}

var (
	errRedisAddrRequired   = errors.New("catalog: redis address is required")
	errRedisMasterRequired = errors.New("catalog: redis master name is required for sentinel mode")
	errRedisClusterAddrs   = errors.New("catalog: redis cluster mode requires at least two addresses")
	errRedisSingleAddrs    = errors.New("catalog: redis single mode requires exactly one address")
)

// NewUniversal is swapped in tests.
var NewUniversal = func(opt *redis.UniversalOptions) redis.UniversalClient {
	return redis.NewUniversalClient(opt)
}

// NewRedisClient builds a client for cfg and pings it once.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (redis.UniversalClient, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	addrs := make([]string, 0, len(cfg.Addrs))
	for _, a := range cfg.Addrs {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	if len(addrs) == 0 {
		return nil, errRedisAddrRequired
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "", "single":
		if len(addrs) != 1 {
			return nil, errRedisSingleAddrs
		}
	case "sentinel":
		if strings.TrimSpace(cfg.MasterName) == "" {
			return nil, errRedisMasterRequired
		}
	case "cluster":
		if len(addrs) < 2 {
			return nil, errRedisClusterAddrs
		}
	}

	opt := &redis.UniversalOptions{
		Addrs:        addrs,
		MasterName:   strings.TrimSpace(cfg.MasterName),
		DB:           cfg.DB,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if cfg.TLSEnabled {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rdb := NewUniversal(opt)

	pingTimeout := cfg.DialTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := rdb.Ping(c).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// Cache is the part of a redis client the read-through source needs.
// redis.UniversalClient satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type redisCacheSource struct {
	cache    Cache
	key      string
	ttl      time.Duration
	upstream Source
	log      logger.LoggerInterface
}

// RedisCache serves the country list from key, loading upstream on a miss
// and storing the result for ttl. Only lists that pass Validate are stored;
// an invalid or unreadable entry counts as a miss. Redis failures fall
// through to upstream.
func RedisCache(cache Cache, key string, ttl time.Duration, upstream Source, log logger.LoggerInterface) Source {
	if key == "" {
		key = DefaultCacheKey
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return redisCacheSource{cache: cache, key: key, ttl: ttl, upstream: upstream, log: log}
}

func (s redisCacheSource) Name() string { return "redis:" + s.key + "+" + s.upstream.Name() }

func (s redisCacheSource) Load(ctx context.Context) ([]geo.Country, error) {
	data, err := s.cache.Get(ctx, s.key).Bytes()
	switch {
	case err == nil:
		out, derr := DecodeJSON(data)
		if derr == nil && len(out) > 0 {
			if derr = Validate(out); derr == nil {
				return out, nil
			}
		}
		s.log.Warnw("catalog cache entry unreadable, reloading", "key", s.key, "error", derr)
	case errors.Is(err, redis.Nil):
	default:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.log.Warnw("catalog cache read failed", "key", s.key, "error", err)
	}

	out, err := s.upstream.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	// Invalid lists go back to the catalog for rejection but never into the cache.
	if err := Validate(out); err != nil {
		return out, nil
	}

	payload, err := json.Marshal(out)
	if err != nil {
		s.log.Warnw("catalog cache encode failed", "key", s.key, "error", err)
		return out, nil
	}
	if err := s.cache.Set(ctx, s.key, payload, s.ttl).Err(); err != nil {
		s.log.Warnw("catalog cache write failed", "key", s.key, "error", err)
	}
	return out, nil
}
