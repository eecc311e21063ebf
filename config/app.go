package config

import (
	"os"
	"strconv"
	"sync"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

// Config carries the mutable knobs of the service. The core services take it
// through their constructors so they stay testable without ambient state.
type Config struct {
	AppName         string
	Port            string
	Env             string
	Debug           bool
	DefaultCurrency string
	DefaultLocation string
	// UnitRatioSource selects the conversion authority: "global" uses the
	// unit_conversion table plus unit ratios, "product" uses product_unit rows.
	UnitRatioSource string
	// HMACClockSkewSeconds is the accepted timestamp window for terminal requests.
	HMACClockSkewSeconds int
	GlassesPerBottle     int
	LoafFraction         string
	JarFraction          string
}

// LoadAppConfig initializes the global AppConfig variable on first call and
// returns it.
func LoadAppConfig() *Config {
	once.Do(func() {
		AppConfig = &Config{
			AppName:              getEnv("APP_NAME", "cavina"),
			Port:                 os.Getenv("PORT"),
			Env:                  os.Getenv("APP_ENV"),
			Debug:                os.Getenv("DEBUG") == "true",
			DefaultCurrency:      getEnv("DEFAULT_CURRENCY", "USD"),
			DefaultLocation:      getEnv("DEFAULT_LOCATION", "Bar"),
			UnitRatioSource:      getEnv("UNIT_RATIO_SOURCE", "global"),
			HMACClockSkewSeconds: getEnvInt("HMAC_CLOCK_SKEW_SECONDS", 300),
			GlassesPerBottle:     getEnvInt("GLASSES_PER_BOTTLE", 5),
			LoafFraction:         getEnv("LOAF_FRACTION", "0.1"),
			JarFraction:          getEnv("JAR_FRACTION", "0.1"),
		}
	})
	return AppConfig
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
