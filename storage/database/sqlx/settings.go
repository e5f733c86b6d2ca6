package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/settings"
)

var settingsColumns = []string{
	"id", "system_name", "logo_url", "primary_color", "secondary_color", "background_color", "text_color",
	"monthly_fee_amount", "reminder_days_before", "overdue_days_after", "hero_html", "about_html", "footer_html",
	"custom_css", "custom_js", "google_login_enabled", "facebook_login_enabled", "pix_key", "whatsapp_number",
}

type settingsRepository struct {
	repository
}

var _ settings.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(exec core.DBExecutor) *settingsRepository {
	return &settingsRepository{repository{exec: exec}}
}

func (repo settingsRepository) GetSettings(ctx context.Context, exec ...core.DBExecutor) (settings.ThemeSettings, error) {
	var ts settings.ThemeSettings
	err := get(ctx, repo.getExec(exec), &ts, "SELECT * FROM theme_settings WHERE id = ?", settings.SingletonID)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return settings.Default(), nil
		}
		return settings.ThemeSettings{}, errors.Wrap(err, "getting settings")
	}
	return ts, nil
}

// SaveSettings upserts the singleton row.
func (repo settingsRepository) SaveSettings(ctx context.Context, ts settings.ThemeSettings, exec ...core.DBExecutor) (settings.ThemeSettings, error) {
	exe := repo.getExec(exec)
	ts.ID = settings.SingletonID

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(settingsColumns)), ", ")
	updates := make([]string, 0, len(settingsColumns)-1)
	for _, col := range settingsColumns[1:] {
		if isPostgres(exe) {
			updates = append(updates, col+" = EXCLUDED."+col)
		} else {
			updates = append(updates, col+" = VALUES("+col+")")
		}
	}
	q := "INSERT INTO theme_settings (" + strings.Join(settingsColumns, ", ") + ") VALUES (" + placeholders + ")"
	if isPostgres(exe) {
		q += " ON CONFLICT (id) DO UPDATE SET "
	} else {
		q += " ON DUPLICATE KEY UPDATE "
	}
	q += strings.Join(updates, ", ")

	err := execute(ctx, exe, q,
		ts.ID, ts.SystemName, ts.LogoURL, ts.PrimaryColor, ts.SecondaryColor, ts.BackgroundColor, ts.TextColor,
		ts.MonthlyFeeAmount, ts.ReminderDaysBefore, ts.OverdueDaysAfter, ts.HeroHTML, ts.AboutHTML, ts.FooterHTML,
		ts.CustomCSS, ts.CustomJS, ts.GoogleLoginEnabled, ts.FacebookLoginEnabled, ts.PixKey, ts.WhatsappNumber,
	)
	if err != nil {
		return settings.ThemeSettings{}, errors.Wrap(err, "saving settings")
	}
	return ts, nil
}
