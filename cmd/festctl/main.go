package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Dosada05/artsfest/db"
	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"github.com/Dosada05/artsfest/scoring"
	"github.com/Dosada05/artsfest/services"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// systemActor выполняет команды от имени администратора.
var systemActor = services.Actor{Role: models.RoleAdmin}

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "festctl",
		Usage: "arts festival portal maintenance",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "PostgreSQL DSN",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			createAdminCommand(),
			recalculateCommand(),
			championsCommand(),
		},
	}
}

func withDB(c *cli.Context, fn func(ctx context.Context, conn *sql.DB) error) error {
	conn, err := db.Connect(c.String("database-url"), 5*time.Second)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(c.Context, conn)
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending schema migrations",
		Action: func(c *cli.Context) error {
			return withDB(c, func(ctx context.Context, conn *sql.DB) error {
				applied, err := db.Migrate(ctx, conn)
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(c.App.Writer, "No new migrations to run")
					return nil
				}
				for _, name := range applied {
					fmt.Fprintf(c.App.Writer, "Applied %s\n", name)
				}
				return nil
			})
		},
	}
}

func createAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-admin",
		Usage: "create an administrator account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"ADMIN_PASSWORD"}},
			&cli.StringFlag{Name: "name", Value: "Administrator"},
		},
		Action: func(c *cli.Context) error {
			return withDB(c, func(ctx context.Context, conn *sql.DB) error {
				auth := services.NewAuthService(repositories.NewPostgresUserRepository(conn), repositories.NewPostgresTeamRepository(conn))
				user, err := auth.CreateUser(ctx, systemActor, services.CreateUserInput{
					FullName: c.String("name"),
					Email:    c.String("email"),
					Password: c.String("password"),
					Role:     models.RoleAdmin,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Created admin %s (id %d)\n", user.Email, user.ID)
				return nil
			})
		},
	}
}

func recalculateCommand() *cli.Command {
	return &cli.Command{
		Name:  "recalculate",
		Usage: "re-derive stored points from the current grade table",
		Action: func(c *cli.Context) error {
			return withDB(c, func(ctx context.Context, conn *sql.DB) error {
				partRepo := repositories.NewPostgresParticipationRepository(conn)
				tx := repositories.NewPostgresTransactor(conn)
				results := services.NewResultService(
					partRepo,
					repositories.NewPostgresEventRepository(conn),
					tx,
					services.NewGradeService(repositories.NewPostgresGradeSettingRepository(conn), partRepo, tx, nil),
					nil,
				)
				changed, err := results.RecalculatePoints(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Updated %d participations\n", changed)
				return nil
			})
		},
	}
}

func championsCommand() *cli.Command {
	return &cli.Command{
		Name:  "champions",
		Usage: "print section champions",
		Action: func(c *cli.Context) error {
			return withDB(c, func(ctx context.Context, conn *sql.DB) error {
				teamRepo := repositories.NewPostgresTeamRepository(conn)
				studentRepo := repositories.NewPostgresStudentRepository(conn)
				eventRepo := repositories.NewPostgresEventRepository(conn)
				partRepo := repositories.NewPostgresParticipationRepository(conn)
				cfg := services.NewConfigService(repositories.NewPostgresAppConfigRepository(conn), nil)
				standings := services.NewStandingsService(teamRepo, eventRepo, partRepo, cfg,
					services.NewDashboardService(teamRepo, studentRepo, eventRepo, partRepo))

				champions, err := standings.Champions(ctx, systemActor)
				if err != nil {
					return err
				}
				return printChampions(c.App.Writer, champions)
			})
		},
	}
}

func printChampions(w io.Writer, champions []scoring.SectionChampions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SECTION\tAWARD\tCHEST\tNAME\tTEAM\tPOINTS")
	for _, sc := range champions {
		for _, row := range []struct {
			label string
			award *scoring.Award
		}{{"Kala", sc.Primary}, {"Sargga", sc.Secondary}} {
			if row.award == nil {
				fmt.Fprintf(tw, "%s\t%s\t-\tnot awarded\t-\t-\n", sc.Section, row.label)
				continue
			}
			a := row.award
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", sc.Section, row.label, a.ChestNumber, a.Name, a.TeamName, a.Total)
		}
	}
	return tw.Flush()
}
