package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config keeps runtime settings for the bot. All values come from
// CANTEENBOT_-prefixed environment variables.
type Config struct {
	TelegramToken         string        `envconfig:"TELEGRAM_TOKEN" required:"true"`
	AdminID               int64         `envconfig:"ADMIN_ID"`
	DatabaseURL           string        `envconfig:"DATABASE_URL" default:"food_requests.db"`
	ReportDir             string        `envconfig:"REPORT_DIR" default:"excel_reports"`
	ReportSplitSubmission bool          `envconfig:"REPORT_SPLIT_SUBMISSION"`
	Canteens              []string      `envconfig:"CANTEENS" default:"Центр,Ястреб"`
	ReminderTime          string        `envconfig:"REMINDER_TIME" default:"16:00"`
	ReminderOffsetDays    int           `envconfig:"REMINDER_OFFSET_DAYS" default:"1"`
	Timezone              string        `envconfig:"TIMEZONE" default:"Europe/Moscow"`
	SessionTTL            time.Duration `envconfig:"SESSION_TTL" default:"30m"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("CANTEENBOT", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Location resolves the configured scheduler time zone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
