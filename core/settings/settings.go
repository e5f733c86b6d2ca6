// Package settings holds the singleton theme/billing configuration edited by the general admin.
package settings

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/activity"
)

// SingletonID is the primary key of the only settings row.
const SingletonID = 1

type ThemeSettings struct {
	ID                   int     `json:"-" db:"id"`
	SystemName           string  `json:"systemName" db:"system_name" validate:"required,max=255"`
	LogoURL              string  `json:"logoUrl" db:"logo_url"`
	PrimaryColor         string  `json:"primaryColor" db:"primary_color" validate:"required,hexcolor"`
	SecondaryColor       string  `json:"secondaryColor" db:"secondary_color" validate:"required,hexcolor"`
	BackgroundColor      string  `json:"backgroundColor" db:"background_color" validate:"required,hexcolor"`
	TextColor            string  `json:"textColor" db:"text_color" validate:"required,hexcolor"`
	MonthlyFeeAmount     float64 `json:"monthlyFeeAmount" db:"monthly_fee_amount" validate:"gte=0"`
	ReminderDaysBefore   int     `json:"reminderDaysBefore" db:"reminder_days_before" validate:"gte=0,lte=31"`
	OverdueDaysAfter     int     `json:"overdueDaysAfter" db:"overdue_days_after" validate:"gte=0,lte=31"`
	HeroHTML             string  `json:"heroHtml" db:"hero_html"`
	AboutHTML            string  `json:"aboutHtml" db:"about_html"`
	FooterHTML           string  `json:"footerHtml" db:"footer_html"`
	CustomCSS            string  `json:"customCss" db:"custom_css"`
	CustomJS             string  `json:"customJs" db:"custom_js"`
	GoogleLoginEnabled   bool    `json:"googleLoginEnabled" db:"google_login_enabled"`
	FacebookLoginEnabled bool    `json:"facebookLoginEnabled" db:"facebook_login_enabled"`
	PixKey               string  `json:"pixKey" db:"pix_key" validate:"max=255"`
	WhatsappNumber       string  `json:"whatsappNumber" db:"whatsapp_number" validate:"max=30"`
}

// Default returns the settings used until the general admin saves their own.
func Default() ThemeSettings {
	return ThemeSettings{
		ID:                 SingletonID,
		SystemName:         "Tatame",
		PrimaryColor:       "#1d4ed8",
		SecondaryColor:     "#f59e0b",
		BackgroundColor:    "#ffffff",
		TextColor:          "#111827",
		ReminderDaysBefore: 5,
		OverdueDaysAfter:   5,
	}
}

func (ts *ThemeSettings) Clean() {
	ts.ID = SingletonID
	ts.SystemName = core.CleanString(ts.SystemName)
	ts.PrimaryColor = core.CleanString(ts.PrimaryColor, true /* lower */)
	ts.SecondaryColor = core.CleanString(ts.SecondaryColor, true /* lower */)
	ts.BackgroundColor = core.CleanString(ts.BackgroundColor, true /* lower */)
	ts.TextColor = core.CleanString(ts.TextColor, true /* lower */)
	ts.PixKey = core.CleanString(ts.PixKey)
	ts.WhatsappNumber = core.CleanString(ts.WhatsappNumber)
}

type (
	Repository interface {
		// GetSettings returns Default() when the row is missing.
		GetSettings(ctx context.Context, exec ...core.DBExecutor) (ThemeSettings, error)
		SaveSettings(ctx context.Context, ts ThemeSettings, exec ...core.DBExecutor) (ThemeSettings, error)
	}

	Service struct {
		db       core.Transactor
		repo     Repository
		logSvc   *activity.Service
		validate *validator.Validate
	}
)

func NewService(db core.Transactor, repo Repository, logSvc *activity.Service, validate *validator.Validate) *Service {
	return &Service{db: db, repo: repo, logSvc: logSvc, validate: validate}
}

func (svc *Service) Get(ctx context.Context) (ThemeSettings, error) {
	return svc.repo.GetSettings(ctx)
}

func (svc *Service) Update(ctx context.Context, actorID int, ts ThemeSettings) (ThemeSettings, error) {
	ts.Clean()
	if err := svc.validate.Struct(ts); err != nil {
		return ThemeSettings{}, err
	}

	var saved ThemeSettings
	err := svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if saved, err = svc.repo.SaveSettings(ctx, ts, exec); err != nil {
			return errors.Wrap(err, "saving settings")
		}
		return svc.logSvc.Record(ctx, actorID, activity.ActionSettingsUpdated, "theme settings", exec)
	})
	return saved, err
}
