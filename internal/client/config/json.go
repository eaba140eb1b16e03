package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/snapgram/internal/flagx"
	"github.com/dmitrijs2005/snapgram/internal/timex"
)

// JsonConfig is a DTO used only for unmarshalling. Durations accept "3s"
// style strings or integer nanoseconds.
type JsonConfig struct {
	GatewayDSN  string `json:"gateway_dsn"`
	LocalDBPath string `json:"local_db_path"`

	SessionSecret string         `json:"session_secret"`
	SessionTTL    timex.Duration `json:"session_ttl"`

	S3User          string `json:"s3_user"`
	S3Password      string `json:"s3_password"`
	S3Bucket        string `json:"s3_bucket"`
	S3Region        string `json:"s3_region"`
	S3BaseEndpoint  string `json:"s3_base_endpoint"`
	S3PublicBaseURL string `json:"s3_public_base_url"`

	RequestTimeout      timex.Duration `json:"request_timeout"`
	RetryDelay          timex.Duration `json:"retry_delay"`
	SearchDebounce      timex.Duration `json:"search_debounce"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	AuthorCacheTTL      timex.Duration `json:"author_cache_ttl"`

	MetricsAddr string `json:"metrics_addr"`

	LogBackend string `json:"log_backend"`
	LogLevel   string `json:"log_level"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}

// parseJson overlays cfg with the JSON file given by -c or -config. Fields
// missing from the file keep their current value. Read and decode errors
// panic.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.GatewayDSN, jc.GatewayDSN)
	setString(&cfg.LocalDBPath, jc.LocalDBPath)
	setString(&cfg.SessionSecret, jc.SessionSecret)
	setDuration(&cfg.SessionTTL, jc.SessionTTL)
	setString(&cfg.S3User, jc.S3User)
	setString(&cfg.S3Password, jc.S3Password)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3PublicBaseURL, jc.S3PublicBaseURL)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.RetryDelay, jc.RetryDelay)
	setDuration(&cfg.SearchDebounce, jc.SearchDebounce)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setDuration(&cfg.AuthorCacheTTL, jc.AuthorCacheTTL)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogLevel, jc.LogLevel)
}
