package controller

import "github.com/labstack/echo/v4"

type IdeaController interface {
	Create(c echo.Context) error
	List(c echo.Context) error
	Recent(c echo.Context) error
	Stats(c echo.Context) error
	Get(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	Transition(c echo.Context) error
	Archive(c echo.Context) error
	Restore(c echo.Context) error
}
