package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath     = "/etc/minecraft-status-bot/config.yaml"
	defaultMinecraftPort  = 25565
	defaultUpdateInterval = 60 * time.Second
	minUpdateInterval     = 5 * time.Second
	defaultHistoryHours   = 24
	defaultChartColor     = "#3498db"
)

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Embed     EmbedConfig     `yaml:"embed"`
	StatusAPI StatusAPIConfig `yaml:"status_api"`
	OTel      OTelConfig      `yaml:"otel"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Servers   []ServerConfig  `yaml:"servers"`
}

type BotConfig struct {
	Token    string         `yaml:"-"` // from env only
	GuildID  string         `yaml:"guild_id"`
	Presence PresenceConfig `yaml:"presence"`
}

type PresenceConfig struct {
	Status     string           `yaml:"status"` // online, idle, dnd, invisible
	Activities []ActivityConfig `yaml:"activities"`
}

type ActivityConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // playing, streaming, listening, watching, competing
}

type EmbedConfig struct {
	Title  string      `yaml:"title"`
	Footer string      `yaml:"footer"`
	Colors EmbedColors `yaml:"colors"`
}

type EmbedColors struct {
	Online  string `yaml:"online"`
	Offline string `yaml:"offline"`
}

type StatusAPIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type OTelConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

type MetricsConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// ServerConfig describes one monitored Minecraft server.
type ServerConfig struct {
	Name           string        `yaml:"name"`
	Address        string        `yaml:"address"`
	Port           int           `yaml:"port"`
	ChannelID      string        `yaml:"channel_id"`
	UpdateInterval time.Duration `yaml:"update_interval"`
	Display        DisplayConfig `yaml:"display"`
	RCON           RCONConfig    `yaml:"rcon"`
}

type DisplayConfig struct {
	Type           string      `yaml:"type"` // "embed" or "chart"
	ShowNextUpdate bool        `yaml:"show_next_update"`
	Chart          ChartConfig `yaml:"chart"`
}

type ChartConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Color        string `yaml:"color"`
	HistoryHours int    `yaml:"history_hours"`
}

type RCONConfig struct {
	Port        int    `yaml:"port"`
	PasswordEnv string `yaml:"password_env"`
	Password    string `yaml:"-"` // resolved from PasswordEnv
}

// HostPort returns the address in the host:port form the status API expects.
func (s ServerConfig) HostPort() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

// ChartEnabled reports whether a history chart should be attached to the embed.
func (d DisplayConfig) ChartEnabled() bool {
	return d.Type == "chart" && d.Chart.Enabled
}

func (r RCONConfig) Enabled() bool {
	return r.Port > 0 && r.Password != ""
}

func defaultConfig() Config {
	return Config{
		Bot: BotConfig{
			Presence: PresenceConfig{
				Status: "online",
			},
		},
		Embed: EmbedConfig{
			Title:  "Minecraft Server Status",
			Footer: "Server Status Bot",
			Colors: EmbedColors{
				Online:  "#2ecc71",
				Offline: "#e74c3c",
			},
		},
		StatusAPI: StatusAPIConfig{
			BaseURL: "https://api.mcstatus.io/v2/status/java",
			Timeout: 10 * time.Second,
		},
		OTel: OTelConfig{
			ServiceName: "minecraft-status-bot",
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Interval: 15 * time.Second,
		},
	}
}

// loadConfig reads the YAML file at path on top of the defaults and applies env overrides.
// An empty path falls back to CONFIG_PATH and then the default location.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = envOr("CONFIG_PATH", defaultConfigPath)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Env overrides (secrets)
	cfg.Bot.Token = os.Getenv("DISCORD_BOT_TOKEN")
	for i := range cfg.Servers {
		if env := cfg.Servers[i].RCON.PasswordEnv; env != "" {
			cfg.Servers[i].RCON.Password = os.Getenv(env)
		}
	}

	cfg.applyServerDefaults()
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyServerDefaults() {
	for i := range c.Servers {
		s := &c.Servers[i]
		if s.Port == 0 {
			s.Port = defaultMinecraftPort
		}
		if s.UpdateInterval == 0 {
			s.UpdateInterval = defaultUpdateInterval
		}
		if s.Display.Type == "" {
			s.Display.Type = "embed"
		}
		if s.Display.Chart.Color == "" {
			s.Display.Chart.Color = defaultChartColor
		}
		if s.Display.Chart.HistoryHours == 0 {
			s.Display.Chart.HistoryHours = defaultHistoryHours
		}
	}
}

func (c *Config) validate() error {
	if len(c.Servers) == 0 {
		return fmt.Errorf("at least one server is required")
	}
	if _, err := parseHexColor(c.Embed.Colors.Online); err != nil {
		return fmt.Errorf("embed.colors.online: %w", err)
	}
	if _, err := parseHexColor(c.Embed.Colors.Offline); err != nil {
		return fmt.Errorf("embed.colors.offline: %w", err)
	}

	seen := make(map[string]bool, len(c.Servers))
	for i, s := range c.Servers {
		if s.Name == "" {
			return fmt.Errorf("servers[%d]: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate server name: %q", s.Name)
		}
		seen[s.Name] = true

		if s.Address == "" {
			return fmt.Errorf("server %q: address is required", s.Name)
		}
		if s.Port < 1 || s.Port > 65535 {
			return fmt.Errorf("server %q: port must be between 1 and 65535, got %d", s.Name, s.Port)
		}
		if s.ChannelID == "" {
			return fmt.Errorf("server %q: channel_id is required", s.Name)
		}
		if s.UpdateInterval < minUpdateInterval {
			return fmt.Errorf("server %q: update_interval must be at least %s, got %s", s.Name, minUpdateInterval, s.UpdateInterval)
		}
		if s.Display.Type != "embed" && s.Display.Type != "chart" {
			return fmt.Errorf("server %q: display.type must be \"embed\" or \"chart\", got %q", s.Name, s.Display.Type)
		}
		if _, err := parseHexColor(s.Display.Chart.Color); err != nil {
			return fmt.Errorf("server %q: display.chart.color: %w", s.Name, err)
		}
		if s.Display.Chart.HistoryHours < 2 {
			return fmt.Errorf("server %q: display.chart.history_hours must be at least 2, got %d", s.Name, s.Display.Chart.HistoryHours)
		}
		if s.RCON.Port != 0 {
			if s.RCON.Port < 1 || s.RCON.Port > 65535 {
				return fmt.Errorf("server %q: rcon.port must be between 1 and 65535, got %d", s.Name, s.RCON.Port)
			}
			if s.RCON.PasswordEnv == "" {
				return fmt.Errorf("server %q: rcon.password_env is required when rcon.port is set", s.Name)
			}
			if s.RCON.Password == "" {
				return fmt.Errorf("server %q: rcon password env %s is empty", s.Name, s.RCON.PasswordEnv)
			}
		}
	}
	return nil
}

// parseHexColor parses "#rrggbb" (the leading # is optional) into a 24-bit RGB value.
func parseHexColor(s string) (int, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return int(v), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
