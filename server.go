// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"context"
	"os"
	"slices"
	"strconv"
	"time"

	"game-library-server/auth"
	"game-library-server/commons"
	"game-library-server/db"
	"game-library-server/handlers"
	"game-library-server/igdb"
	"game-library-server/routes"
	"game-library-server/store"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	commons.LoadEnvFile()

	e := echo.New()
	e.HideBanner = true

	e.Logger.SetLevel(commons.Logger.Level())
	e.Logger.SetHeader("${time_rfc3339} ${level} ${short_file}:${line} -")

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logMsg := func(format string, args ...any) {
				switch {
				case v.Status >= 500:
					e.Logger.Errorf(format, args...)
				case v.Status >= 400:
					e.Logger.Warnf(format, args...)
				default:
					e.Logger.Infof(format, args...)
				}
			}
			logMsg("%s %s - %d - %.2fms - %s",
				v.Method,
				v.URI,
				v.Status,
				float64(v.Latency.Microseconds())/1000.0,
				v.RemoteIP,
			)
			return nil
		},
	}))
	if slices.Contains(os.Args[1:], "--debug") {
		e.Logger.Warn("Debug mode is enabled.")
		e.Debug = true
		e.Logger.SetLevel(log.DEBUG)
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	conn, err := db.Connect()
	if err != nil {
		commons.Logger.Error(err)
		os.Exit(1)
	}
	if err := db.Migrate(conn); err != nil {
		commons.Logger.Error(err)
		os.Exit(1)
	}

	authSvc := auth.NewService(conn)
	catalog := store.NewCatalogStore(conn)
	library := store.NewLibraryStore(conn)
	provider := igdb.NewClient(
		commons.GetEnv("IGDB_CLIENT_ID", ""),
		commons.GetEnv("IGDB_ACCESS_TOKEN", ""),
	)

	adminUser := commons.GetEnv("ADMIN_USERNAME", "admin")
	adminPass := commons.GetEnv("ADMIN_PASSWORD", "admin")
	if err := authSvc.EnsureAdminAccount(context.Background(), adminUser, adminPass); err != nil {
		commons.Logger.Error("Failed to ensure admin account: ", err)
		os.Exit(1)
	}

	startSessionSweeper(authSvc)

	routes.RegisterRoutes(e, authSvc, routes.Handlers{
		Auth:    &handlers.AuthHandler{Auth: authSvc},
		Users:   &handlers.UserHandler{Auth: authSvc},
		Games:   &handlers.GameHandler{Catalog: catalog, Provider: provider},
		Library: &handlers.LibraryHandler{Catalog: catalog, Library: library},
	})

	port := commons.GetEnv("PORT", ":8080")
	if port[0] != ':' {
		port = ":" + port
	}
	e.Logger.Fatal(e.Start(port))
}

// startSessionSweeper periodically removes expired sessions. Validation
// ignores expired rows regardless; the sweep only reclaims storage.
// SESSION_SWEEP_INTERVAL is in minutes; 0 disables the sweeper.
func startSessionSweeper(svc *auth.Service) {
	minutes, err := strconv.Atoi(commons.GetEnv("SESSION_SWEEP_INTERVAL", "60"))
	if err != nil || minutes <= 0 {
		commons.Logger.Info("Session sweeper disabled")
		return
	}
	interval := time.Duration(minutes) * time.Minute
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			deleted, err := svc.SweepExpiredSessions(context.Background())
			if err != nil {
				commons.Logger.Error("Session sweep failed: ", err)
				continue
			}
			if deleted > 0 {
				commons.Logger.Infof("Session sweep removed %d expired sessions", deleted)
			}
		}
	}()
	commons.Logger.Infof("Session sweeper running every %s", interval)
}
