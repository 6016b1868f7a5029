package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultDatabaseDriver = "mongo"
	defaultMongoURI       = "mongodb://localhost:27017"
	defaultMongoDB        = "storegraph"
	defaultRedisAddr      = ""
	defaultTokenTTL       = 24 * time.Hour
	defaultCacheTTL       = 5 * time.Minute
	defaultAppPort        = "8000"
	defaultAppEnv         = "local"
	defaultUpdateReturns  = UpdateReturnsBefore
	defaultRateLimit      = 200
)

// Accepted values of UPDATE_RETURNS.
const (
	UpdateReturnsBefore = "before"
	UpdateReturnsAfter  = "after"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load merges config/app.json, config/app.yaml and .env over the defaults.
// Process environment variables always win over file values.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", "config/app.yaml", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"DB_DRIVER":      defaultDatabaseDriver,
		"MONGO_URI":      defaultMongoURI,
		"MONGO_DB":       defaultMongoDB,
		"REDIS_ADDR":     defaultRedisAddr,
		"REDIS_PASSWORD": "",
		"JWT_SECRET":     "",
		"TOKEN_TTL":      defaultTokenTTL.String(),
		"CACHE_TTL":      defaultCacheTTL.String(),
		"APP_PORT":       defaultAppPort,
		"APP_ENV":        defaultAppEnv,
		"UPDATE_RETURNS": defaultUpdateReturns,
		"STRICT_POLICY":  "false",
		"RATE_LIMIT":     strconv.Itoa(defaultRateLimit),
		"OTEL_EXPORTER":  "none",
	}
}

// ── Store ────────────────────────────────────────────────────────────────────

// DatabaseDriver returns "mongo" or "memory".
func DatabaseDriver() string {
	_ = Load()

	driver := strings.ToLower(get("DB_DRIVER", defaultDatabaseDriver))
	switch driver {
	case "mongo", "memory":
		return driver
	default:
		return defaultDatabaseDriver
	}
}

func MongoURI() string { _ = Load(); return get("MONGO_URI", defaultMongoURI) }
func MongoDB() string  { _ = Load(); return get("MONGO_DB", defaultMongoDB) }

// ── Cache ────────────────────────────────────────────────────────────────────

// RedisAddr is empty when no read cache should be used.
func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

func CacheTTL() time.Duration {
	_ = Load()
	return duration("CACHE_TTL", defaultCacheTTL)
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func JWTSecret() string {
	_ = Load()
	return get("JWT_SECRET", "")
}

func TokenTTL() time.Duration {
	_ = Load()
	return duration("TOKEN_TTL", defaultTokenTTL)
}

// StrictPolicy reports whether product writes and user reads require an admin.
func StrictPolicy() bool {
	_ = Load()
	b, err := strconv.ParseBool(get("STRICT_POLICY", "false"))
	return err == nil && b
}

// ── GraphQL ──────────────────────────────────────────────────────────────────

// UpdateReturns selects which snapshot updateProduct hands back.
func UpdateReturns() string {
	_ = Load()
	switch v := strings.ToLower(get("UPDATE_RETURNS", defaultUpdateReturns)); v {
	case UpdateReturnsBefore, UpdateReturnsAfter:
		return v
	default:
		return defaultUpdateReturns
	}
}

// ── App ──────────────────────────────────────────────────────────────────────

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// RateLimit is the number of requests one client may send per minute.
func RateLimit() int {
	_ = Load()
	n, err := strconv.Atoi(get("RATE_LIMIT", strconv.Itoa(defaultRateLimit)))
	if err != nil || n <= 0 {
		return defaultRateLimit
	}
	return n
}

// TrustedProxies lists the reverse proxies (addresses or CIDR ranges) whose
// X-Forwarded-For header identifies the client. Empty means none.
func TrustedProxies() []string {
	_ = Load()
	var out []string
	for _, p := range strings.Split(get("TRUSTED_PROXIES", ""), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ── Observability ────────────────────────────────────────────────────────────

func OTelExporter() string {
	_ = Load()
	return strings.ToLower(get("OTEL_EXPORTER", "none"))
}

func OTelEndpoint() string {
	_ = Load()
	return get("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
}

func LogMongoURI() string        { _ = Load(); return get("LOG_MONGO_URI", "") }
func LogMongoDB() string         { _ = Load(); return get("LOG_MONGO_DB", defaultMongoDB) }
func LogMongoCollection() string { _ = Load(); return get("LOG_MONGO_COLLECTION", "logs") }

// ── Loading ──────────────────────────────────────────────────────────────────

func loadFromFiles(jsonPath, yamlPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(jsonPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeYAMLConfig(yamlPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	mergeRaw(raw, out)
	return nil
}

func mergeYAMLConfig(path string, out map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	mergeRaw(raw, out)
	return nil
}

// mergeRaw copies scalar values; nested objects are ignored.
func mergeRaw(raw map[string]interface{}, out map[string]string) {
	for key, val := range raw {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}

		switch v := val.(type) {
		case string:
			out[k] = strings.TrimSpace(v)
		case bool, int, int64, float64:
			out[k] = fmt.Sprint(v)
		}
	}
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	if env, ok := os.LookupEnv(key); ok && strings.TrimSpace(env) != "" {
		return strings.TrimSpace(env)
	}

	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

func duration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(get(key, fallback.String()))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
