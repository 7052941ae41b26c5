package config

import (
	"time"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/pkg/listparse"
)

// Compiled defaults.
const (
	DefaultFXTTLSecs      uint64 = 24 * 60 * 60
	DefaultCryptoTTLSecs  uint64 = 5 * 60
	DefaultWeatherTTLSecs uint64 = 30 * 60
	DefaultTimeoutSecs           = 5
	DefaultProjectDepth          = 3
	DefaultMemoListLimit         = 20
	DefaultBilibiliLimit         = 8
	DefaultProjectDir            = "~/Project"
)

// MarketConfig drives market.fx and market.crypto.
type MarketConfig struct {
	CacheRoot      string
	FXTTLSecs      uint64
	CryptoTTLSecs  uint64
	Retry          domain.RetryPolicy
	Timeout        time.Duration
	FrankfurterURL string
	CoinbaseURL    string
	KrakenURL      string
}

// LoadMarket reads MARKET_* settings.
func LoadMarket(env domain.Env) (MarketConfig, error) {
	retry, err := loadRetry(env, "MARKET", 3, 200)
	if err != nil {
		return MarketConfig{}, err
	}
	timeout, err := loadTimeout(env, "MARKET")
	if err != nil {
		return MarketConfig{}, err
	}
	return MarketConfig{
		CacheRoot:      ResolveCacheRoot(env, "MARKET_CACHE_DIR"),
		FXTTLSecs:      ParseTTLSecs(env, "MARKET_FX_CACHE_TTL_SECS", DefaultFXTTLSecs),
		CryptoTTLSecs:  ParseTTLSecs(env, "MARKET_CRYPTO_CACHE_TTL_SECS", DefaultCryptoTTLSecs),
		Retry:          retry,
		Timeout:        timeout,
		FrankfurterURL: env.Get("MARKET_FRANKFURTER_URL"),
		CoinbaseURL:    env.Get("MARKET_COINBASE_URL"),
		KrakenURL:      env.Get("MARKET_KRAKEN_URL"),
	}, nil
}

// WeatherConfig drives weather.today.
type WeatherConfig struct {
	CacheRoot    string
	TTLSecs      uint64
	CountryCode  string
	Retry        domain.RetryPolicy
	Timeout      time.Duration
	GeocodingURL string
	OpenMeteoURL string
	MetNoURL     string
	UserAgent    string
}

// LoadWeather reads WEATHER_* settings.
func LoadWeather(env domain.Env) (WeatherConfig, error) {
	retry, err := loadRetry(env, "WEATHER", 2, 250)
	if err != nil {
		return WeatherConfig{}, err
	}
	timeout, err := loadTimeout(env, "WEATHER")
	if err != nil {
		return WeatherConfig{}, err
	}
	country, err := ParseAlphaCode(env, "WEATHER_COUNTRY_CODE", "")
	if err != nil {
		return WeatherConfig{}, err
	}
	return WeatherConfig{
		CacheRoot:    ResolveCacheRoot(env, "WEATHER_CACHE_DIR"),
		TTLSecs:      ParseTTLSecs(env, "WEATHER_CACHE_TTL_SECS", DefaultWeatherTTLSecs),
		CountryCode:  country,
		Retry:        retry,
		Timeout:      timeout,
		GeocodingURL: env.Get("WEATHER_GEOCODING_URL"),
		OpenMeteoURL: env.Get("WEATHER_OPEN_METEO_URL"),
		MetNoURL:     env.Get("WEATHER_MET_NO_URL"),
		UserAgent:    env.Get("WEATHER_USER_AGENT"),
	}, nil
}

// BilibiliConfig drives bilibili.query.
type BilibiliConfig struct {
	UID        string
	MaxResults int
	Retry      domain.RetryPolicy
	Timeout    time.Duration
	SuggestURL string
}

// LoadBilibili reads BILIBILI_* settings.
func LoadBilibili(env domain.Env) (BilibiliConfig, error) {
	limit, err := ParseClampedInt(env, "BILIBILI_MAX_RESULTS", DefaultBilibiliLimit, 1, 20)
	if err != nil {
		return BilibiliConfig{}, err
	}
	retry, err := loadRetry(env, "BILIBILI", 2, 150)
	if err != nil {
		return BilibiliConfig{}, err
	}
	timeout, err := loadTimeout(env, "BILIBILI")
	if err != nil {
		return BilibiliConfig{}, err
	}
	uid, _ := env.Lookup("BILIBILI_UID")
	return BilibiliConfig{
		UID:        uid,
		MaxResults: limit,
		Retry:      retry,
		Timeout:    timeout,
		SuggestURL: env.Get("BILIBILI_SUGGEST_URL"),
	}, nil
}

// MemoConfig drives the memo helper.
type MemoConfig struct {
	DBPath    string
	ListLimit int
}

// LoadMemo reads MEMO_* settings.
func LoadMemo(env domain.Env) (MemoConfig, error) {
	limit, err := ParseClampedInt(env, "MEMO_LIST_LIMIT", DefaultMemoListLimit, 1, 200)
	if err != nil {
		return MemoConfig{}, err
	}
	return MemoConfig{
		DBPath:    ResolveDataPath(env, "MEMO_DB_PATH", "memo.db"),
		ListLimit: limit,
	}, nil
}

// ProjectConfig drives the git project index.
type ProjectConfig struct {
	Roots     []string
	MaxDepth  int
	UsageFile string
}

// LoadProject reads PROJECT_* settings. Roots keep their configured order;
// duplicates after expansion are dropped.
func LoadProject(env domain.Env) (ProjectConfig, error) {
	depth, err := ParseClampedInt(env, "PROJECT_MAX_DEPTH", DefaultProjectDepth, 1, 10)
	if err != nil {
		return ProjectConfig{}, err
	}
	raw, ok := env.Lookup("PROJECT_DIRS")
	if !ok {
		raw = DefaultProjectDir
	}
	seen := map[string]bool{}
	roots, err := listparse.ParseOrderedListWith(raw, func(token string) (string, bool, error) {
		path := ExpandPath(env, token)
		if seen[path] {
			return "", false, nil
		}
		seen[path] = true
		return path, true, nil
	})
	if err != nil {
		return ProjectConfig{}, err
	}
	return ProjectConfig{
		Roots:     roots,
		MaxDepth:  depth,
		UsageFile: ResolveDataPath(env, "PROJECT_USAGE_FILE", "project-usage.log"),
	}, nil
}

func loadRetry(env domain.Env, prefix string, defAttempts, defBackoffMS int) (domain.RetryPolicy, error) {
	attempts, err := ParseClampedInt(env, prefix+"_RETRY_MAX_ATTEMPTS", defAttempts, 1, 5)
	if err != nil {
		return domain.RetryPolicy{}, err
	}
	backoff, err := ParseClampedInt(env, prefix+"_RETRY_BASE_BACKOFF_MS", defBackoffMS, 0, 5000)
	if err != nil {
		return domain.RetryPolicy{}, err
	}
	return domain.RetryPolicy{MaxAttempts: attempts, BaseBackoffMS: uint64(backoff)}, nil
}

func loadTimeout(env domain.Env, prefix string) (time.Duration, error) {
	secs, err := ParseClampedInt(env, prefix+"_TIMEOUT_SECS", DefaultTimeoutSecs, 1, 30)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}
