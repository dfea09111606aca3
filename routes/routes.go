package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/artsfest/handlers"
	"github.com/Dosada05/artsfest/middleware"
	"github.com/Dosada05/artsfest/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Team          *handlers.TeamHandler
	Student       *handlers.StudentHandler
	Event         *handlers.EventHandler
	Participation *handlers.ParticipationHandler
	Result        *handlers.ResultHandler
	Standings     *handlers.StandingsHandler
	Export        *handlers.ExportHandler
	Asset         *handlers.AssetHandler
	Config        *handlers.ConfigHandler
	Dashboard     *handlers.DashboardHandler
	Health        *handlers.HealthHandler
	WebSocket     *handlers.WebSocketHandler
}

func SetupRoutes(router *chi.Mux, h Handlers, auth *middleware.Authenticator, allowedOrigins []string) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/standings", h.WebSocket.ServeStandings)

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequestMetrics)
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Get("/ping", h.Health.Ping)
		r.Get("/keep-alive", h.Health.KeepAlive)
		r.Post("/auth/login", h.Auth.Login)

		// Публичные чтения: анонимам видно только опубликованное.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuthenticate)

			r.Get("/config", h.Config.All)
			r.Get("/assets", h.Asset.List)
			r.Get("/assets/{slot}", h.Asset.Get)
			r.Get("/teams", h.Team.ListTeams)
			r.Get("/teams/{teamID}", h.Team.GetTeamByID)
			r.Get("/events", h.Event.ListEvents)
			r.Get("/events/{eventID}", h.Event.GetEventByID)
			r.Get("/grades", h.Result.GradeTable)

			r.Route("/standings", func(r chi.Router) {
				r.Get("/", h.Standings.Overview)
				r.Get("/teams", h.Standings.TeamLeaderboard)
				r.Get("/students", h.Standings.StudentLeaderboard)
				r.Get("/champions", h.Standings.Champions)
				r.Get("/events/{eventID}", h.Standings.EventResults)
			})
		})

		// Админ и лидеры команд.
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin, models.RoleTeamLeader))

			r.Get("/auth/me", h.Auth.Me)

			r.Get("/students", h.Student.ListStudents)
			r.Post("/students", h.Student.CreateStudent)
			r.Get("/students/{studentID}", h.Student.GetStudentByID)
			r.Put("/students/{studentID}", h.Student.UpdateStudent)
			r.Delete("/students/{studentID}", h.Student.DeleteStudent)
			r.Get("/students/{studentID}/eligible-events", h.Student.EligibleEvents)

			r.Post("/teams/{teamID}/logo", h.Team.UploadLogo)

			r.Get("/participations", h.Participation.List)
			r.Post("/participations", h.Participation.Register)
			r.Post("/participations/toggle", h.Participation.ToggleRegistration)
			r.Post("/participations/team", h.Participation.RegisterTeamEntry)
			r.Delete("/participations/{participationID}", h.Participation.Unregister)
		})

		// Только администратор.
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Get("/users", h.Auth.ListUsers)
			r.Post("/users", h.Auth.CreateUser)

			r.Post("/teams", h.Team.CreateTeam)
			r.Put("/teams/{teamID}", h.Team.UpdateTeam)
			r.Put("/teams/{teamID}/penalty", h.Team.UpdatePenalty)
			r.Delete("/teams/{teamID}", h.Team.DeleteTeam)

			r.Post("/events", h.Event.CreateEvent)
			r.Put("/events/{eventID}", h.Event.UpdateEvent)
			r.Delete("/events/{eventID}", h.Event.DeleteEvent)
			r.Put("/events/{eventID}/team-results", h.Result.ReplaceTeamResults)

			r.Put("/participations/{participationID}/attendance", h.Participation.MarkAttendance)
			r.Put("/participations/{participationID}/result", h.Result.RecordResult)
			r.Post("/results/recalculate", h.Result.Recalculate)
			r.Put("/grades/{tier}", h.Result.UpdateGradeSetting)

			r.Put("/config/{key}", h.Config.Set)
			r.Put("/assets/{slot}", h.Asset.Upload)
			r.Delete("/assets/{slot}", h.Asset.Delete)

			r.Get("/dashboard", h.Dashboard.Stats)

			r.Route("/exports", func(r chi.Router) {
				r.Get("/standings.xlsx", h.Export.StandingsWorkbook)
				r.Get("/score-report.pdf", h.Export.ScoreReport)
				r.Get("/standings.png", h.Export.StandingsChart)
				r.Get("/events/{eventID}/judgment.pdf", h.Export.JudgmentSheet)
				r.Get("/events/{eventID}/call-sheet.pdf", h.Export.CallSheet)
			})
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"the requested resource could not be found"}` + "\n"))
	})
}
