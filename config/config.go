package config

import "time"

type Config struct {
	Web  Web
	DB   DB
	Cors Cors
	Rate Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost"`
	Name         string `conf:"default:courselibrary"`
	MaxIdleConns int    `conf:"default:2"`
	MaxOpenConns int    `conf:"default:0"`
	DisableTLS   bool   `conf:"default:true"`
}

type Cors struct {
	Origin string
}

type Rate struct {
	Enabled bool          `conf:"default:false"`
	Burst   int           `conf:"default:20"`
	Expiry  time.Duration `conf:"default:10m"`
	RPS     float64       `conf:"default:50"`
}
