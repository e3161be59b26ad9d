package controller

import "github.com/labstack/echo/v4"

type RefinementController interface {
	Start(c echo.Context) error
	Get(c echo.Context) error
	SubmitAnswers(c echo.Context) error
	Complete(c echo.Context) error
	ListByIdea(c echo.Context) error
	PreviewQuestions(c echo.Context) error
}
