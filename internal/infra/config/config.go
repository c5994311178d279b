package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization

	"shift_rotation_bot/internal/domain/calendar"
	"shift_rotation_bot/internal/domain/shift"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Rotation defaults, used whenever a configured value is missing or invalid.
const (
	DefaultAnchorDate            = "2025-07-16"
	DefaultAnchorTeam            = 1
	DefaultTeamCount             = shift.DefaultTeamCount
	DefaultTransferMaxResults    = shift.DefaultMaxTransfers
	DefaultReminderLeadMinutes   = 60
	DefaultTransferLookaheadDays = 7
)

// RotationConfig pins the shift rotation to the calendar.
type RotationConfig struct {
	AnchorDate         string `yaml:"anchor_date"`
	AnchorTeam         int    `yaml:"anchor_team"`
	TeamCount          int    `yaml:"team_count"`
	TransferMaxResults int    `yaml:"transfer_max_results"`
}

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken          string
	DatabaseURL            string
	AdminTelegramID        int64
	LogLevel               string
	Environment            string
	CronSpecShiftChange    string // Daily announcement at the 07:00 shift change
	CronSpecReminderCheck  string // For checking upcoming-shift reminders
	CronSpecTransferDigest string // For the evening handover digest
	ReminderLeadMinutes    int
	TransferLookaheadDays  int
	Rotation               RotationConfig
	Warnings               []string // Invalid values replaced by defaults
}

// Load reads configuration from environment variables and .env file (if present).
// Rotation settings may also come from the YAML file named by SHIFT_CONFIG_PATH;
// environment variables override the file.
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecShiftChange = envOr("CRON_SPEC_SHIFT_CHANGE", "0 7 * * *")        // Default: 07:00 daily
	cfg.CronSpecReminderCheck = envOr("CRON_SPEC_REMINDER_CHECK", "*/5 * * * *")  // Default: every 5 minutes
	cfg.CronSpecTransferDigest = envOr("CRON_SPEC_TRANSFER_DIGEST", "0 20 * * *") // Default: 20:00 daily

	cfg.ReminderLeadMinutes = cfg.positiveInt("REMINDER_LEAD_MINUTES", os.Getenv("REMINDER_LEAD_MINUTES"), DefaultReminderLeadMinutes)
	cfg.TransferLookaheadDays = cfg.positiveInt("TRANSFER_LOOKAHEAD_DAYS", os.Getenv("TRANSFER_LOOKAHEAD_DAYS"), DefaultTransferLookaheadDays)

	if err := cfg.loadRotation(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *AppConfig) loadRotation() error {
	rot := RotationConfig{
		AnchorDate:         DefaultAnchorDate,
		AnchorTeam:         DefaultAnchorTeam,
		TeamCount:          DefaultTeamCount,
		TransferMaxResults: DefaultTransferMaxResults,
	}

	if path := os.Getenv("SHIFT_CONFIG_PATH"); path != "" {
		if err := loadRotationFile(path, &rot); err != nil {
			return err
		}
	}

	if v := os.Getenv("ANCHOR_DATE"); v != "" {
		rot.AnchorDate = v
	}
	if v := os.Getenv("ANCHOR_TEAM"); v != "" {
		rot.AnchorTeam = cfg.positiveInt("ANCHOR_TEAM", v, DefaultAnchorTeam)
	}
	if v := os.Getenv("TEAM_COUNT"); v != "" {
		rot.TeamCount = cfg.positiveInt("TEAM_COUNT", v, DefaultTeamCount)
	}
	if v := os.Getenv("TRANSFER_MAX_RESULTS"); v != "" {
		rot.TransferMaxResults = cfg.positiveInt("TRANSFER_MAX_RESULTS", v, DefaultTransferMaxResults)
	}

	if _, err := calendar.ParseDay(rot.AnchorDate); err != nil {
		cfg.warn("anchor date %q is not a YYYY-MM-DD date, using %s", rot.AnchorDate, DefaultAnchorDate)
		rot.AnchorDate = DefaultAnchorDate
	}
	if rot.TeamCount < 1 {
		cfg.warn("team count %d is not positive, using %d", rot.TeamCount, DefaultTeamCount)
		rot.TeamCount = DefaultTeamCount
	}
	if rot.AnchorTeam < 1 || rot.AnchorTeam > rot.TeamCount {
		cfg.warn("anchor team %d is outside 1..%d, using %d", rot.AnchorTeam, rot.TeamCount, DefaultAnchorTeam)
		rot.AnchorTeam = DefaultAnchorTeam
	}
	if rot.TransferMaxResults < 1 {
		cfg.warn("transfer max results %d is not positive, using %d", rot.TransferMaxResults, DefaultTransferMaxResults)
		rot.TransferMaxResults = DefaultTransferMaxResults
	}

	cfg.Rotation = rot
	return nil
}

func loadRotationFile(path string, rot *RotationConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read shift config %s: %w", path, err)
	}
	var file struct {
		Rotation RotationConfig `yaml:"rotation"`
	}
	file.Rotation = *rot
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse shift config %s: %w", path, err)
	}
	*rot = file.Rotation
	return nil
}

// Anchor builds the immutable rotation anchor. Load has already replaced invalid values.
func (cfg *AppConfig) Anchor() shift.Anchor {
	date, err := calendar.ParseDay(cfg.Rotation.AnchorDate)
	if err != nil {
		date = calendar.MustDay(2025, 7, 16)
	}
	return shift.Anchor{
		Date:        date,
		Team:        shift.Team(cfg.Rotation.AnchorTeam),
		CycleLength: shift.CycleLength,
		TeamCount:   cfg.Rotation.TeamCount,
	}
}

func (cfg *AppConfig) positiveInt(name, raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 {
		cfg.warn("invalid %s %q, using %d", name, raw, def)
		return def
	}
	return v
}

func (cfg *AppConfig) warn(format string, args ...any) {
	cfg.Warnings = append(cfg.Warnings, fmt.Sprintf(format, args...))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
