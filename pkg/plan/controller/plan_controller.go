package controller

import "github.com/labstack/echo/v4"

type PlanController interface {
	Generate(c echo.Context) error
	Get(c echo.Context) error
	ListByIdea(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	Activate(c echo.Context) error
	Deactivate(c echo.Context) error
	Upload(c echo.Context) error
	ExportJSON(c echo.Context) error
	ExportMarkdown(c echo.Context) error
	ExportXLSX(c echo.Context) error
}
