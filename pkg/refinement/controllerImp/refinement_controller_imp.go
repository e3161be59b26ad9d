package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"brightideas/pkg/apperr"
	"brightideas/pkg/refinement/controller"
	"brightideas/pkg/refinement/service"
)

type RefinementCtrl struct{ s service.RefinementService }

func New(s service.RefinementService) controller.RefinementController { return &RefinementCtrl{s} }

type ideaRef struct {
	IdeaID string `json:"idea_id"`
}

func bindIdeaRef(c echo.Context) (string, error) {
	var req ideaRef
	if err := c.Bind(&req); err != nil {
		return "", apperr.Validation("invalid json")
	}
	if req.IdeaID == "" {
		return "", apperr.Validation("idea_id is required")
	}
	return req.IdeaID, nil
}

func (h *RefinementCtrl) Start(c echo.Context) error {
	ideaID, err := bindIdeaRef(c)
	if err != nil {
		return err
	}
	sess, err := h.s.StartOrResume(c.Request().Context(), ideaID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *RefinementCtrl) Get(c echo.Context) error {
	sess, err := h.s.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

type answersReq struct {
	Answers map[string]string `json:"answers"`
}

func (h *RefinementCtrl) SubmitAnswers(c echo.Context) error {
	var req answersReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid json")
	}
	sess, err := h.s.SubmitAnswers(c.Request().Context(), c.Param("id"), req.Answers)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *RefinementCtrl) Complete(c echo.Context) error {
	sess, err := h.s.Complete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *RefinementCtrl) ListByIdea(c echo.Context) error {
	list, err := h.s.ListSessions(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *RefinementCtrl) PreviewQuestions(c echo.Context) error {
	ideaID, err := bindIdeaRef(c)
	if err != nil {
		return err
	}
	p, err := h.s.PreviewQuestions(c.Request().Context(), ideaID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
