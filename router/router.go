package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	ideaCtrl "brightideas/pkg/idea/controller"
	"brightideas/pkg/middleware"
	planCtrl "brightideas/pkg/plan/controller"
	refineCtrl "brightideas/pkg/refinement/controller"
)

type Options struct {
	APIPrefix   string
	CORSOrigins []string
}

func New(
	e *echo.Echo,
	opts Options,
	ideas ideaCtrl.IdeaController,
	refine refineCtrl.RefinementController,
	plans planCtrl.PlanController,
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLog())
	if len(opts.CORSOrigins) > 0 {
		e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
			AllowOrigins:     opts.CORSOrigins,
			AllowCredentials: true,
		}))
	}

	e.GET("/health", healthCtrl.Health)
	api := e.Group(opts.APIPrefix)
	api.GET("/health", healthCtrl.Health)

	api.POST("/ideas", ideas.Create)
	api.GET("/ideas", ideas.List)
	api.GET("/ideas/stats", ideas.Stats)
	api.GET("/ideas/recent", ideas.Recent)
	api.GET("/ideas/:id", ideas.Get)
	api.PUT("/ideas/:id", ideas.Update)
	api.DELETE("/ideas/:id", ideas.Delete)
	api.POST("/ideas/:id/transition", ideas.Transition)
	api.POST("/ideas/:id/archive", ideas.Archive)
	api.POST("/ideas/:id/restore", ideas.Restore)
	api.GET("/ideas/:id/sessions", refine.ListByIdea)
	api.GET("/ideas/:id/plans", plans.ListByIdea)
	api.POST("/ideas/:id/plans/upload", plans.Upload)

	rg := api.Group("/refinement")
	rg.POST("/sessions", refine.Start)
	rg.GET("/sessions/:id", refine.Get)
	rg.PUT("/sessions/:id/answers", refine.SubmitAnswers)
	rg.POST("/sessions/:id/complete", refine.Complete)
	rg.POST("/questions/generate", refine.PreviewQuestions)

	pg := api.Group("/plans")
	pg.POST("/generate", plans.Generate)
	pg.GET("/:id", plans.Get)
	pg.PUT("/:id", plans.Update)
	pg.DELETE("/:id", plans.Delete)
	pg.POST("/:id/activate", plans.Activate)
	pg.POST("/:id/deactivate", plans.Deactivate)
	pg.GET("/:id/export/json", plans.ExportJSON)
	pg.GET("/:id/export/markdown", plans.ExportMarkdown)
	pg.GET("/:id/export/xlsx", plans.ExportXLSX)
	return e
}
