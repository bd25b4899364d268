package config

import "time"

type Config struct {
	Web       Web
	Cors      Cors
	DB        DB
	Auth      Auth
	Paypal    Paypal
	Purchase  Purchase
	RateLimit RateLimit
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:30s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type Cors struct {
	Origin string
}

// DB describes how to reach the relational store. Driver is either "postgres"
// or "sqlite3"; for sqlite3 Name is the database file and InMemory opens a
// shared in-memory database with that name instead.
type DB struct {
	Driver       string `conf:"default:postgres"`
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost:5432"`
	Name         string `conf:"default:postgres"`
	DisableTLS   bool   `conf:"default:true"`
	InMemory     bool   `conf:"default:false"`
	MaxIdleConns int    `conf:"default:2"`
	MaxOpenConns int    `conf:"default:0"`
}

type Auth struct {
	SigningKey string        `conf:"required,mask"`
	TokenTTL   time.Duration `conf:"default:24h"`
}

type Paypal struct {
	ClientID string `conf:"required"`
	Secret   string `conf:"required,mask"`
	URL      string `conf:"default:https://api-m.sandbox.paypal.com"`
}

type Purchase struct {
	Currency       string        `conf:"default:USD"`
	PendingTTL     time.Duration `conf:"default:1h"`
	SweepInterval  time.Duration `conf:"default:10m"`
	GatewayTimeout time.Duration `conf:"default:15s"`
	FrontendURL    string        `conf:"default:http://localhost:3000"`
}

type RateLimit struct {
	Burst        int           `conf:"default:20"`
	RPS          float64       `conf:"default:5"`
	ClientExpiry time.Duration `conf:"default:10m"`
}
