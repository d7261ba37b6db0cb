package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name        string
	Env         string
	HTTP        HTTP
	Admin       AdminHTTP
	CORSOrigins []string `mapstructure:"corsOrigins"`
}

type FileRotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  FileRotate
}

type JWT struct {
	Secret    string
	Issuer    string
	ExpiresIn time.Duration `mapstructure:"expiresIn"`
}

type DB struct {
	Driver             string // mysql / postgres / sqlite
	DSN                string
	Host               string
	Port               int
	Name               string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Seed struct {
	AdminName     string `mapstructure:"adminName"`
	AdminEmail    string `mapstructure:"adminEmail"`
	AdminPassword string `mapstructure:"adminPassword"`
	Categories    bool
}

// Limits 保护下游 DB 的入口限流参数
type Limits struct {
	RPS               float64
	Burst             int
	LoginRPS          float64 `mapstructure:"loginRps"`
	LoginBurst        int     `mapstructure:"loginBurst"`
	MaxConcurrent     int64   `mapstructure:"maxConcurrent"`
	MaxBodyMB         int64   `mapstructure:"maxBodyMB"`
	RequestTimeoutSec int     `mapstructure:"requestTimeoutSec"`
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	DB     DB
	Seed   Seed
	Limits Limits
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "bookstore-admin")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.readTimeoutSec", 10)
	v.SetDefault("app.http.writeTimeoutSec", 15)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 5001)
	v.SetDefault("app.corsOrigins", []string{"http://localhost:3000"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.compress", true)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.maxSizeMB", 100)
	v.SetDefault("log.file.maxBackups", 7)
	v.SetDefault("log.file.maxAgeDays", 30)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "bookstore-admin")
	v.SetDefault("jwt.expiresIn", "24h")

	v.SetDefault("db.driver", "mysql")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.name", "bookstore_admin")
	v.SetDefault("db.username", "root")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxOpenConns", 10)
	v.SetDefault("db.maxIdleConns", 5)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")

	v.SetDefault("seed.adminName", "Admin User")
	v.SetDefault("seed.adminEmail", "admin@bookstore.com")
	v.SetDefault("seed.adminPassword", "admin123")
	v.SetDefault("seed.categories", true)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.loginRps", 1)
	v.SetDefault("limits.loginBurst", 10)
	v.SetDefault("limits.maxConcurrent", 300)
	v.SetDefault("limits.maxBodyMB", 16)
	v.SetDefault("limits.requestTimeoutSec", 10)
}

// Read 读取配置文件（可缺省）+ APP_ 前缀环境变量，例如 APP_DB_HOST
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 文件不存在时只用默认值 + 环境变量
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("read config: %v", err)
	}
	if c.JWT.Secret == "" {
		log.Fatalf("config: jwt.secret (APP_JWT_SECRET) is required")
	}
	return c
}
