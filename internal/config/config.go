package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Map       MapConfig       `mapstructure:"map"`
	Routing   RoutingConfig   `mapstructure:"routing"`
}

type ServerConfig struct {
	Port          string `mapstructure:"port" validate:"required,numeric"`
	SessionSecret string `mapstructure:"session_secret" validate:"required,min=16"`
	Templates     string `mapstructure:"templates" validate:"required"`
	StaticDir     string `mapstructure:"static_dir" validate:"required"`
}

// StoreConfig holds sqlite settings and the optional seed sheet.
type StoreConfig struct {
	Path      string `mapstructure:"path" validate:"required"`
	SeedFile  string `mapstructure:"seed_file"`
	SeedSheet string `mapstructure:"seed_sheet" validate:"required"`
}

// DirectoryConfig picks where sessions fetch the customer listing from. An empty
// SourceURL reads the local store.
type DirectoryConfig struct {
	SourceURL string        `mapstructure:"source_url" validate:"omitempty,url"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type MapConfig struct {
	TileURL     string  `mapstructure:"tile_url" validate:"required"`
	MaxZoom     int     `mapstructure:"max_zoom" validate:"min=1,max=22"`
	FollowZoom  int     `mapstructure:"follow_zoom" validate:"min=1,max=22,ltefield=MaxZoom"`
	InitialZoom int     `mapstructure:"initial_zoom" validate:"min=0,max=22"`
	CenterLat   float64 `mapstructure:"center_lat" validate:"min=-90,max=90"`
	CenterLon   float64 `mapstructure:"center_lon" validate:"min=-180,max=180"`
}

type RoutingConfig struct {
	RouteWhileDragging bool `mapstructure:"route_while_dragging"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "9595")
	v.SetDefault("server.session_secret", "change-me-customer-nav-session-key")
	v.SetDefault("server.templates", "templates/*")
	v.SetDefault("server.static_dir", "static")
	v.SetDefault("store.path", "customers.db")
	v.SetDefault("store.seed_file", "")
	v.SetDefault("store.seed_sheet", "Customers")
	v.SetDefault("directory.source_url", "")
	v.SetDefault("directory.timeout", time.Duration(0))
	v.SetDefault("map.tile_url", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("map.max_zoom", 19)
	v.SetDefault("map.follow_zoom", 15)
	v.SetDefault("map.initial_zoom", 8)
	v.SetDefault("map.center_lat", 6.9271)
	v.SetDefault("map.center_lon", 79.8612)
	v.SetDefault("routing.route_while_dragging", true)
}

// Load reads configuration from file and env. Env var overrides use prefix CUSTNAV_;
// PORT is honoured as well.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	cfgPath := os.Getenv("CUSTNAV_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CUSTNAV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicitly named file must exist
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		v.Set("server.port", port)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks field constraints.
func Validate(c Config) error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
