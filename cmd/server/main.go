package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"brightideas/config"
	"brightideas/database"
	"brightideas/router"

	// LLM (mock fallback)
	"brightideas/pkg/ai"

	// Idea
	ideaCtrlImp "brightideas/pkg/idea/controllerImp"
	ideaRepoImp "brightideas/pkg/idea/repositoryImp"
	ideaSvcImp "brightideas/pkg/idea/serviceImp"

	// Refinement
	refineCtrlImp "brightideas/pkg/refinement/controllerImp"
	refineRepoImp "brightideas/pkg/refinement/repositoryImp"
	refineSvcImp "brightideas/pkg/refinement/serviceImp"

	// Plan
	planCtrlImp "brightideas/pkg/plan/controllerImp"
	planRepoImp "brightideas/pkg/plan/repositoryImp"
	planSvcImp "brightideas/pkg/plan/serviceImp"

	// Health
	healthCtrlImp "brightideas/pkg/health/controllerImp"
)

var features = []string{"refinement", "ai_plans", "plan_upload", "export_markdown", "export_json", "export_xlsx"}

func main() {
	root := &cobra.Command{
		Use:          "server",
		Short:        "Bright Ideas API server",
		SilenceUsage: true,
	}
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  func(cmd *cobra.Command, _ []string) error { return runServe(cmd.Context()) },
	}
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(*cobra.Command, []string) error {
			cfg := config.Load()
			db, err := database.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			log.Printf("[db] schema up to date at %s", cfg.DatabaseURL)
			return database.Close(db)
		},
	}
	root.AddCommand(serve, migrate)
	// no subcommand means serve
	root.RunE = serve.RunE

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}

func newLLM(cfg config.AppConfig) ai.Client {
	if cfg.AIConfigured() {
		return ai.NewOpenAI(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel)
	}
	log.Printf("[ai] no API key configured, using mock client")
	return ai.NewMock()
}

// newServer wires repositories, services and controllers onto a fresh echo.
func newServer(cfg config.AppConfig, db *gorm.DB, llm ai.Client) *echo.Echo {
	gw := ai.NewGateway(llm, ai.GatewayConfig{Timeout: cfg.LLMTimeout, MaxTokens: cfg.LLMMaxTokens})

	iRepo := ideaRepoImp.New(db)
	rRepo := refineRepoImp.New(db)
	pRepo := planRepoImp.New(db)

	iSvc := ideaSvcImp.NewIdeaService(iRepo)
	rSvc := refineSvcImp.NewRefinementService(rRepo, iRepo, gw)
	pSvc := planSvcImp.NewPlanService(pRepo, iRepo, rRepo, gw)

	hCtrl := healthCtrlImp.NewHealthCtrl(db, healthCtrlImp.Info{
		Environment: cfg.Environment,
		AIMode:      gw.Mode(),
		Features:    features,
	})

	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.Debug
	return router.New(
		e,
		router.Options{APIPrefix: cfg.APIPrefix, CORSOrigins: cfg.CORSOrigins},
		ideaCtrlImp.New(iSvc),
		refineCtrlImp.New(rSvc),
		planCtrlImp.NewPlanCtrl(pSvc),
		hCtrl,
	)
}

func runServe(ctx context.Context) error {
	cfg := config.Load()
	db := database.MustOpen(cfg.DatabaseURL)
	defer database.Close(db)

	e := newServer(cfg, db, newLLM(cfg))

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on :%s", cfg.Port)
		errc <- e.Start(":" + cfg.Port)
	}()
	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
