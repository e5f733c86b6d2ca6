package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "TATAME"

type (
	Config struct {
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		Env          string
		SecretKey    string
		RollbarToken string
		LogLevel     string
		Server       ServerConfig
		Database     DatabaseConfig
	}

	ServerConfig struct {
		Address         string
		DebugAddress    string
		Host            string
		ShutdownTimeout time.Duration
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		AccessTokenTTL  time.Duration
		RefreshTokenTTL time.Duration
		CORSOrigins     []string
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine          string // mysql | postgres | inmem
		Host            string
		Port            int
		User            string
		Password        string
		Name            string
		AdminUser       string
		AdminPassword   string
		DisableTLS      bool
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
	}
)

// Address returns the "host:port" the database listens on.
func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, strconv.Itoa(dc.Port))
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Tatame")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "k2#v9s!dq0z&m8r1+w4t_yx7p$c6e5b3^n@hfj)gla(u")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("log.level", "info")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugAddress", ":4000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.readTimeout", 10*time.Second)
	v.SetDefault("server.writeTimeout", 20*time.Second)
	v.SetDefault("server.accessTokenTTL", 15*time.Minute)
	v.SetDefault("server.refreshTokenTTL", 7*24*time.Hour)
	v.SetDefault("server.corsOrigins", []string{"*"})
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("database.engine", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "tatame")
	v.SetDefault("database.password", "tatame")
	v.SetDefault("database.name", "tatame")
	v.SetDefault("database.adminUser", "root")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 5*time.Minute)
}

// NewConfig loads the application settings.
// Values come from defaults, optionally overridden by config/.env.<env> and TATAME_* env vars
// (e.g. TATAME_DATABASE_ENGINE=postgres).
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)

	env := strings.ToLower(os.Getenv("ENV")) // dev (default), test, qa, prod
	if env == "" {
		env = "dev"
	}
	if env == "test" {
		v.Set("testMode", true)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+env)
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		Env:          env,
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		LogLevel:     v.GetString("log.level"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			DebugAddress:    v.GetString("server.debugAddress"),
			Host:            v.GetString("server.host"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			ReadTimeout:     v.GetDuration("server.readTimeout"),
			WriteTimeout:    v.GetDuration("server.writeTimeout"),
			AccessTokenTTL:  v.GetDuration("server.accessTokenTTL"),
			RefreshTokenTTL: v.GetDuration("server.refreshTokenTTL"),
			CORSOrigins:     v.GetStringSlice("server.corsOrigins"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:          strings.ToLower(v.GetString("database.engine")),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			AdminUser:       v.GetString("database.adminUser"),
			AdminPassword:   v.GetString("database.adminPassword"),
			DisableTLS:      v.GetBool("database.disableTLS"),
			MaxOpenConns:    v.GetInt("database.maxOpenConns"),
			MaxIdleConns:    v.GetInt("database.maxIdleConns"),
			ConnMaxLifetime: v.GetDuration("database.connMaxLifetime"),
		},
	}
}

// NewTestConfig returns a Config suitable for tests: in-memory storage and a fixed secret.
func NewTestConfig() *Config {
	v := viper.New()
	setDefaults(v)
	v.Set("testMode", true)
	v.Set("database.engine", "inmem")
	v.Set("secretKey", "test-secret")

	conf := &Config{
		Debug:     false,
		TestMode:  true,
		AppName:   v.GetString("appName"),
		Build:     "test",
		Env:       "test",
		SecretKey: v.GetString("secretKey"),
		LogLevel:  "error",
		Server: ServerConfig{
			AccessTokenTTL:  v.GetDuration("server.accessTokenTTL"),
			RefreshTokenTTL: v.GetDuration("server.refreshTokenTTL"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			CORSOrigins:     v.GetStringSlice("server.corsOrigins"),
			DisableReqLogs:  true,
		},
		Database: DatabaseConfig{Engine: v.GetString("database.engine")},
	}
	return conf
}
