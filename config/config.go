package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Black-And-White-Club/malta-bot/internal/observability"
)

// Config struct to hold the configuration settings
type Config struct {
	Discord       DiscordConfig       `yaml:"discord"`
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
	Game          GameConfig          `yaml:"game"`
	Weather       WeatherConfig       `yaml:"weather"`
	Mail          MailConfig          `yaml:"mail"`
}

// DiscordConfig holds the bot credentials and the channel/role ids it posts to.
type DiscordConfig struct {
	Token                 string            `yaml:"token" env:"DISCORD_TOKEN"`
	AppID                 string            `yaml:"app_id" env:"DISCORD_APP_ID"`
	GuildID               string            `yaml:"guild_id" env:"DISCORD_GUILD_ID"`
	Prefix                string            `yaml:"prefix" env:"DISCORD_PREFIX"`
	AdminRoleID           string            `yaml:"admin_role_id" env:"ADMIN_ROLE_ID"`
	LevelUpChannelID      string            `yaml:"level_up_channel_id" env:"LEVEL_UP_CHANNEL_ID"`
	WeatherChannelID      string            `yaml:"weather_channel_id" env:"WEATHER_CHANNEL_ID"`
	LotteryChannelID      string            `yaml:"lottery_channel_id" env:"LOTTERY_CHANNEL_ID"`
	ApplicationsChannelID string            `yaml:"applications_channel_id" env:"APPLICATIONS_CHANNEL_ID"`
	GeneralChannelID      string            `yaml:"general_channel_id" env:"GENERAL_CHANNEL_ID"`
	IgnoredChannelIDs     []string          `yaml:"ignored_channel_ids" env:"IGNORED_CHANNEL_IDS" envSeparator:","`
	LevelRoles            map[string]string `yaml:"level_roles" env:"LEVEL_ROLES"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn" env:"DATABASE_URL"`
}

// NATSConfig holds the optional NATS mirror configuration.
type NATSConfig struct {
	URL string `yaml:"url" env:"NATS_URL"`
}

// HTTPConfig holds the health, metrics and read API server settings.
type HTTPConfig struct {
	Address        string   `yaml:"address" env:"HTTP_ADDRESS"`
	JWTSecret      string   `yaml:"jwt_secret" env:"JWT_SECRET"`
	RateLimit      float64  `yaml:"rate_limit" env:"HTTP_RATE_LIMIT"`
	RateBurst      int      `yaml:"rate_burst" env:"HTTP_RATE_BURST"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" envSeparator:","`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment string `yaml:"environment" env:"ENV"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL"`
}

// GameConfig holds the tunables of the economy.
type GameConfig struct {
	Timezone          string        `yaml:"timezone" env:"TIMEZONE"`
	PostCooldown      time.Duration `yaml:"post_cooldown" env:"POST_COOLDOWN"`
	HappyHourStart    int           `yaml:"happy_hour_start" env:"HAPPY_HOUR_START"`
	HappyHourDuration time.Duration `yaml:"happy_hour_duration" env:"HAPPY_HOUR_DURATION"`
	DecayInterval     time.Duration `yaml:"decay_interval" env:"DECAY_INTERVAL"`
	WinChance         float64       `yaml:"win_chance" env:"GAMBLE_WIN_CHANCE"`
	MinBet            int64         `yaml:"min_bet" env:"GAMBLE_MIN_BET"`
	MaxBet            int64         `yaml:"max_bet" env:"GAMBLE_MAX_BET"`
	TicketPrice       int64         `yaml:"ticket_price" env:"LOTTERY_TICKET_PRICE"`
	MaxTickets        int           `yaml:"max_tickets" env:"LOTTERY_MAX_TICKETS"`
	LotteryDrawCron   string        `yaml:"lottery_draw_cron" env:"LOTTERY_DRAW_CRON"`
}

// RegionConfig describes one simulated weather region.
type RegionConfig struct {
	Name    string `yaml:"name"`
	Climate string `yaml:"climate"`
}

// WeatherConfig holds the simulation settings.
type WeatherConfig struct {
	Interval   time.Duration  `yaml:"interval" env:"WEATHER_INTERVAL"`
	TimeScale  float64        `yaml:"time_scale" env:"TIME_SCALE"`
	RealEpoch  time.Time      `yaml:"real_epoch" env:"REAL_EPOCH"`
	Regions    []RegionConfig `yaml:"regions"`
	HistoryLen int            `yaml:"history_len" env:"WEATHER_HISTORY_LEN"`
}

// MailConfig holds the IMAP mailbox polled for applications.
type MailConfig struct {
	Host          string        `yaml:"host" env:"IMAP_HOST"`
	Port          int           `yaml:"port" env:"IMAP_PORT"`
	Username      string        `yaml:"username" env:"IMAP_USERNAME"`
	Password      string        `yaml:"password" env:"IMAP_PASSWORD"`
	Mailbox       string        `yaml:"mailbox" env:"IMAP_MAILBOX"`
	SubjectFilter string        `yaml:"subject_filter" env:"IMAP_SUBJECT_FILTER"`
	PollInterval  time.Duration `yaml:"poll_interval" env:"MAIL_POLL_INTERVAL"`
}

// Enabled reports whether mail polling is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// Default returns the configuration used when neither file nor environment set a value.
func Default() Config {
	return Config{
		Discord: DiscordConfig{
			Prefix: "!",
		},
		HTTP: HTTPConfig{
			Address:   ":8080",
			RateLimit: 5,
			RateBurst: 10,
		},
		Observability: ObservabilityConfig{
			Environment: "production",
			LogLevel:    "info",
		},
		Game: GameConfig{
			Timezone:          "Europe/Malta",
			PostCooldown:      60 * time.Second,
			HappyHourStart:    20,
			HappyHourDuration: time.Hour,
			DecayInterval:     time.Hour,
			WinChance:         0.48,
			MinBet:            10,
			MaxBet:            5000,
			TicketPrice:       50,
			MaxTickets:        100,
			LotteryDrawCron:   "0 20 * * 0",
		},
		Weather: WeatherConfig{
			Interval:   time.Hour,
			TimeScale:  4,
			RealEpoch:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			HistoryLen: 48,
			Regions: []RegionConfig{
				{Name: "Valletta", Climate: "coastal"},
				{Name: "Mdina", Climate: "inland"},
				{Name: "Dingli", Climate: "highland"},
				{Name: "Gozo", Climate: "island"},
			},
		},
		Mail: MailConfig{
			Port:          993,
			Mailbox:       "INBOX",
			SubjectFilter: "application",
			PollInterval:  5 * time.Minute,
		},
	}
}

// LoadConfig loads defaults, then the YAML file (if present), then environment overrides.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// Environment-only deployment.
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required settings and ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Discord.Token == "" {
		errs = append(errs, errors.New("DISCORD_TOKEN is required"))
	}
	if c.Postgres.DSN == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Game.HappyHourStart < 0 || c.Game.HappyHourStart > 23 {
		errs = append(errs, fmt.Errorf("HAPPY_HOUR_START must be 0-23, got %d", c.Game.HappyHourStart))
	}
	if c.Game.WinChance <= 0 || c.Game.WinChance >= 1 {
		errs = append(errs, fmt.Errorf("GAMBLE_WIN_CHANCE must be in (0,1), got %v", c.Game.WinChance))
	}
	if c.Game.MinBet <= 0 || c.Game.MaxBet < c.Game.MinBet {
		errs = append(errs, fmt.Errorf("invalid bet range [%d, %d]", c.Game.MinBet, c.Game.MaxBet))
	}
	if c.Weather.TimeScale <= 0 {
		errs = append(errs, fmt.Errorf("TIME_SCALE must be positive, got %v", c.Weather.TimeScale))
	}
	if len(c.Weather.Regions) == 0 {
		errs = append(errs, errors.New("at least one weather region is required"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LevelRoleMap(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location loads the configured game timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Game.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Game.Timezone, err)
	}
	return loc, nil
}

// LevelRoleMap converts LEVEL_ROLES ("10:roleA,20:roleB") into level -> role id.
func (c *Config) LevelRoleMap() (map[int]string, error) {
	out := make(map[int]string, len(c.Discord.LevelRoles))
	for k, v := range c.Discord.LevelRoles {
		level, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("invalid LEVEL_ROLES level %q: %w", k, err)
		}
		out[level] = strings.TrimSpace(v)
	}
	return out, nil
}

// ToObsConfig maps the application config to the observability config.
func ToObsConfig(appCfg *Config) observability.Config {
	return observability.Config{
		ServiceName: "malta-bot",
		Environment: appCfg.Observability.Environment,
		LogLevel:    appCfg.Observability.LogLevel,
	}
}
