package core

import (
	"embed"

	"github.com/northstarhq/northstar/modules/core/infrastructure/notify"
	"github.com/northstarhq/northstar/modules/core/infrastructure/persistence"
	"github.com/northstarhq/northstar/modules/core/presentation/controllers"
	"github.com/northstarhq/northstar/modules/core/services"
	"github.com/northstarhq/northstar/pkg/application"
	"github.com/northstarhq/northstar/pkg/configuration"
	"github.com/northstarhq/northstar/pkg/eskiz"
)

//go:embed infrastructure/persistence/schema/core-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	app.Migrations().RegisterSchema(&MigrationFiles)

	userRepo := persistence.NewUserRepository()
	accountRepo := persistence.NewAccountRepository()
	orgRepo := persistence.NewOrganizationRepository()
	sessionRepo := persistence.NewSessionRepository()
	otpRepo := persistence.NewOtpRepository()

	deviceTrust := services.NewDeviceTrustService(
		[]byte(conf.DeviceTrust.Secret),
		conf.DeviceTrust.Window,
		conf.GoAppEnvironment == configuration.Production,
	)
	notifier := notify.NewEskizNotifier(eskiz.NewSender(
		eskiz.NewConfig(conf.Eskiz.Email, conf.Eskiz.Password, conf.Eskiz.Sender),
	))

	scopeService := services.NewScopeService(accountRepo, orgRepo)
	app.RegisterServices(
		services.NewUserService(userRepo),
		services.NewAccountService(accountRepo, orgRepo, app.EventPublisher()),
		scopeService,
		services.NewOrganizationService(orgRepo, scopeService, app.EventPublisher()),
		deviceTrust,
		services.NewAuthService(services.AuthServiceOptions{
			Users:           userRepo,
			Accounts:        accountRepo,
			Sessions:        sessionRepo,
			Challenges:      otpRepo,
			DeviceTrust:     deviceTrust,
			Notifier:        notifier,
			OtpEnforced:     conf.Otp.Enforced,
			OtpTTL:          conf.Otp.TTL,
			SessionDuration: conf.SessionDuration,
		}),
	)
	app.RegisterControllers(
		controllers.NewAuthController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "core"
}
