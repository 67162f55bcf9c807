package router

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "vet-connect/docs"
	"vet-connect/internal/adapters/auth/sessions"
	"vet-connect/internal/adapters/sms/africastalking"
	"vet-connect/internal/adapters/sms/logsms"
	"vet-connect/internal/adapters/sms/twilio"
	mem "vet-connect/internal/adapters/storage/memory"
	pg "vet-connect/internal/adapters/storage/postgres"
	"vet-connect/internal/domain/alerts"
	"vet-connect/internal/domain/appointments"
	"vet-connect/internal/domain/directory"
	"vet-connect/internal/domain/livestock"
	"vet-connect/internal/middleware"
	"vet-connect/internal/platform/logger"
	"vet-connect/internal/ports/auth"
	"vet-connect/internal/ports/sms"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev: header X-Debug-User-ID)

	// Opcional: si viene, usa Postgres. Si no, intenta DB_DSN y cae a in-memory.
	DB *sql.DB

	// Opcional: gateway SMS explícito (tests). Si no, se elige por SMS_PROVIDER.
	Gateway sms.Gateway

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	// Sesiones en memoria: emiten los tokens de login siempre; verifican
	// solo cuando no te inyectan un verifier externo.
	tokens := sessions.NewStore(0)
	verifier := opts.AuthVerifier
	allowDebug := false
	if verifier == nil {
		verifier = tokens
		allowDebug = true
	}

	r.Use(middleware.AuthContext(verifier, allowDebug))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	var (
		userRepo        directory.Repository
		livestockRepo   livestock.Repository
		appointmentRepo appointments.Repository
		alertRepo       alerts.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres no disponible, usando memoria", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		userRepo = pg.NewUsersRepo(db)
		livestockRepo = pg.NewLivestockRepo(db)
		appointmentRepo = pg.NewAppointmentsRepo(db)
		alertRepo = pg.NewAlertsRepo(db)
	} else {
		userRepo = mem.NewUserRepo()
		livestockRepo = mem.NewLivestockRepo()
		appointmentRepo = mem.NewAppointmentRepo()
		alertRepo = mem.NewAlertRepo()
	}

	gw := opts.Gateway
	if gw == nil {
		gw = gatewayFromEnv(log)
	}

	// Services por módulo
	dirSvc := directory.NewService(userRepo)
	livestockSvc := livestock.NewService(livestockRepo)
	apptSvc := appointments.NewService(appointmentRepo, dirSvc, livestockSvc)
	alertSvc := alerts.NewService(alertRepo, dirSvc, gw, log)

	// Rutas por módulo
	r.Route("/api", func(api chi.Router) {
		directory.RegisterRoutes(api, dirSvc, tokens)
		livestock.RegisterRoutes(api, livestockSvc, dirSvc)
		appointments.RegisterRoutes(api, apptSvc, dirSvc)
		alerts.RegisterRoutes(api, alertSvc, dirSvc)
	})

	return r
}

// gatewayFromEnv arma el gateway SMS según SMS_PROVIDER. Ante credenciales
// incompletas cae al gateway de log para no romper el arranque en dev.
func gatewayFromEnv(log logger.Logger) sms.Gateway {
	prefix := os.Getenv("COUNTRY_PREFIX")

	switch os.Getenv("SMS_PROVIDER") {
	case "africastalking":
		gw, err := africastalking.New(africastalking.Config{
			BaseURL:       os.Getenv("AT_BASE_URL"),
			APIKey:        os.Getenv("AT_API_KEY"),
			Username:      os.Getenv("AT_USERNAME"),
			SenderID:      os.Getenv("AT_SENDER_ID"),
			CountryPrefix: prefix,
		})
		if err == nil && gw.IsConfigured() {
			return gw
		}
		log.Warn("africastalking sin configurar, usando gateway de log", nil)
	case "twilio":
		gw, err := twilio.New(twilio.Config{
			BaseURL:       os.Getenv("TWILIO_BASE_URL"),
			AccountSID:    os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:     os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber:    os.Getenv("TWILIO_FROM_NUMBER"),
			CountryPrefix: prefix,
			Throttle:      throttleFromEnv(),
		})
		if err == nil && gw.IsConfigured() {
			return gw
		}
		log.Warn("twilio sin configurar, usando gateway de log", nil)
	}

	return logsms.New(log, prefix)
}

func throttleFromEnv() time.Duration {
	v := os.Getenv("SMS_THROTTLE")
	if v == "" {
		return 0 // el adapter aplica su default
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}
