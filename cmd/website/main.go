package main

import (
	"context"
	"embed"
	"encoding/gob"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/heroportal/cmd/website/internal/account"
	"github.com/adampresley/heroportal/cmd/website/internal/admin"
	"github.com/adampresley/heroportal/cmd/website/internal/cache"
	"github.com/adampresley/heroportal/cmd/website/internal/configuration"
	"github.com/adampresley/heroportal/cmd/website/internal/dashboard"
	"github.com/adampresley/heroportal/cmd/website/internal/home"
	"github.com/adampresley/heroportal/cmd/website/internal/navigate"
	"github.com/adampresley/heroportal/pkg/components/accessgate"
	"github.com/adampresley/heroportal/pkg/models"
	"github.com/adampresley/heroportal/pkg/services"
	_ "github.com/glebarez/sqlite"
	"github.com/rfberaldo/sqlz"
	"github.com/rfberaldo/sqlz/binds"
)

var (
	Version string = "development"
	appName string = "heroportal"

	//go:embed app
	appFS embed.FS

	//go:embed sql-migrations
	sqlMigrationsFs embed.FS

	config configuration.Config

	/* Services */
	db                      *sqlz.DB
	gate                    accessgate.Gate
	principalService        services.PrincipalServicer
	renderer                rendering.TemplateRenderer
	sessionProvider         services.SessionProvider
	sessionService          sessions.Session[*models.Principal]
	thumbnailCreatorService cache.ThumbnailCreator

	/* Controllers */
	accountController   account.AccountHandlers
	adminController     admin.AdminHandlers
	dashboardController dashboard.DashboardHandlers
	homeController      home.HomeHandlers
	navigateController  navigate.NavigateHandlers
)

func main() {
	var (
		err error
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("awsEndpointUrl", config.AwsEndpointUrl),
		slog.String("awsRegion", config.AwsRegion),
		slog.String("imageCdnBaseUrl", config.ImageCDNBaseURL),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup services
	 */
	binds.Register("sqlite", binds.BindByDriver("sqlite3"))
	if db, err = sqlz.Connect("sqlite", config.DSN); err != nil {
		panic(err)
	}

	gob.Register(&models.Principal{})

	cookieStore := sessions.NewCookieStore(config.CookieSecret)
	sessionService = sessions.NewSessionWrapper[*models.Principal](cookieStore, "heroportal", "principal")

	principalService = services.NewPrincipalService(services.PrincipalServiceConfig{
		DB: db,
	})

	sessionProvider = services.NewSessionProvider(services.SessionProviderConfig{
		PrincipalService: principalService,
		SessionStore:     sessionService,
	})

	gate = accessgate.NewGate(accessgate.GateConfig{
		LandingPath: config.DefaultLandingPath,
		RetryAfter:  config.SessionRetryAfter,
	})

	awsConfig := &awsconfig.Config{
		Endpoint:        config.AwsEndpointUrl,
		Region:          config.AwsRegion,
		AccessKeyID:     config.AwsAccessKeyId,
		SecretAccessKey: config.AwsSecretAccessKey,
	}

	retrier.Retry(func() error {
		if err = awsConfig.Load(); err != nil {
			slog.Error("failed to load AWS config. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		panic(err)
	}

	s3Client, err := s3.NewClient(awsConfig)

	if err != nil {
		panic(err)
	}

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	thumbnailCreatorService = cache.NewThumbnailCreatorService(cache.ThumbnailCreatorConfig{
		AwsBucket:          config.AwsBucket,
		AwsRegion:          config.AwsRegion,
		GalleryPhotoFolder: config.GalleryPhotoFolder,
		MaxCacheWorkers:    config.MaxCacheWorkers,
		S3Client:           s3Client,
		ShutdownCtx:        shutdownCtx,
	})

	/*
	 * Setup controllers
	 */
	accountController = account.NewAccountController(account.AccountControllerConfig{
		LandingPath:      gate.LandingPath(),
		PrincipalService: principalService,
		Renderer:         renderer,
		SessionService:   sessionService,
	})

	adminController = admin.NewAdminController(admin.AdminControllerConfig{
		PrincipalService: principalService,
		Renderer:         renderer,
	})

	dashboardController = dashboard.NewDashboardController(dashboard.DashboardControllerConfig{
		Renderer: renderer,
	})

	homeController = home.NewHomeController(home.HomeControllerConfig{
		AwsBucket:          config.AwsBucket,
		GalleryPhotoFolder: config.GalleryPhotoFolder,
		HeroImageSrc:       config.HeroImageSrc,
		HeroVideoKey:       config.HeroVideoKey,
		ImageCDNBaseURL:    config.ImageCDNBaseURL,
		Renderer:           renderer,
		S3Client:           s3Client,
	})

	navigateController = navigate.NewNavigateController()

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	requireAuthenticated := gate.Middleware(sessionProvider, nil)
	requireAdmin := gate.Middleware(sessionProvider, models.RolePtr(models.RoleAdmin))

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /", HandlerFunc: homeController.HomePage},
		{Path: "GET /hero-video.mp4", HandlerFunc: homeController.HeroVideo},
		{Path: "GET /navigate/{variant}", HandlerFunc: navigateController.Activate},
		{Path: "GET /login", HandlerFunc: accountController.LoginPage},
		{Path: "POST /login", HandlerFunc: accountController.LoginAction},
		{Path: "GET /logout", HandlerFunc: accountController.LogoutAction},
		{Path: "GET /dashboard", HandlerFunc: dashboardController.DashboardPage, Middlewares: []mux.MiddlewareFunc{requireAuthenticated}},
		{Path: "GET /admin", HandlerFunc: adminController.PrincipalListPage, Middlewares: []mux.MiddlewareFunc{requireAdmin}},
	}

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * The server answers right away. Gated routes render the loading view
	 * until the principal store is migrated and reachable.
	 */
	go prepareSessions(shutdownCtx)

	/*
	 * Start the thumbnail job
	 */
	setupThumbnailCreator(quit)

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func prepareSessions(ctx context.Context) {
	var (
		err error
	)

	retrier.Retry(func() error {
		if ctx.Err() != nil {
			return nil
		}

		if err = migrateDatabase(); err != nil {
			slog.Error("failed to migrate database. trying again", "error", err)
			return err
		}

		if err = principalService.Ping(); err != nil {
			slog.Error("principal store not reachable. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		slog.Error("principal store never became ready; sessions stay in loading state", "error", err)
		return
	}

	if err = seedAdmin(); err != nil {
		slog.Error("error seeding admin principal", "error", err)
	}

	sessionProvider.MarkReady()
	slog.Info("sessions ready")
}

func migrateDatabase() error {
	var (
		err  error
		dirs []fs.DirEntry
		b    []byte
	)

	if dirs, err = sqlMigrationsFs.ReadDir("sql-migrations"); err != nil {
		return err
	}

	for _, d := range dirs {
		if d.IsDir() {
			continue
		}

		if strings.HasPrefix(d.Name(), "commit") {
			if b, err = fs.ReadFile(sqlMigrationsFs, filepath.Join("sql-migrations", d.Name())); err != nil {
				return err
			}

			if err = runSqlScript(b); err != nil {
				if !isIgnorableError(err) {
					return err
				}
			}
		}
	}

	return nil
}

func runSqlScript(script []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, err := db.Exec(ctx, string(script))
	return err
}

func isIgnorableError(err error) bool {
	if strings.Contains(err.Error(), "duplicate column") {
		return true
	}

	return false
}

func seedAdmin() error {
	var (
		err error
	)

	if config.AdminEmail == "" || config.AdminPassword == "" {
		return nil
	}

	if _, err = principalService.GetByEmail(config.AdminEmail); err == nil {
		return nil
	}

	if !errors.Is(err, models.ErrPrincipalNotFound) {
		return err
	}

	if _, err = principalService.Create(config.AdminEmail, "Administrator", config.AdminPassword, models.RoleAdmin); err != nil {
		return err
	}

	slog.Info("seeded admin principal", "email", config.AdminEmail)
	return nil
}

func setupThumbnailCreator(quit chan os.Signal) {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		running := true

		runner := func() {
			defer func() {
				running = false
			}()

			if err := thumbnailCreatorService.CreateThumbnails(); err != nil {
				slog.Error("thumbnail creator failed", "error", err)
				return
			}

			slog.Info("thumbnail creator finished.")
		}

		runner()

		for {
			select {
			case <-quit:
				return

			case <-ticker.C:
				if running {
					slog.Info("thumbnail creator already running. skipping...")
					continue
				}

				runner()
			}
		}
	}()
}
