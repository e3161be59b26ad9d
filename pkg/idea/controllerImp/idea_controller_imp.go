package controllerImp

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"brightideas/entities"
	"brightideas/pkg/apperr"
	"brightideas/pkg/idea/controller"
	"brightideas/pkg/idea/service"
)

type IdeaCtrl struct{ s service.IdeaService }

func New(s service.IdeaService) controller.IdeaController { return &IdeaCtrl{s} }

func (h *IdeaCtrl) Create(c echo.Context) error {
	var in service.CreateInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid json")
	}
	i, err := h.s.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, i)
}

func (h *IdeaCtrl) List(c echo.Context) error {
	f := service.ListFilter{
		Search: c.QueryParam("search"),
		Status: entities.IdeaStatus(c.QueryParam("status")),
		Sort:   c.QueryParam("sort"),
		Order:  c.QueryParam("order"),
	}
	for _, v := range c.QueryParams()["tags"] {
		f.Tags = append(f.Tags, strings.Split(v, ",")...)
	}
	var err error
	if v := c.QueryParam("include_archived"); v != "" {
		if f.IncludeArchived, err = strconv.ParseBool(v); err != nil {
			return apperr.Validation("include_archived must be true or false")
		}
	}
	if f.Skip, err = intParam(c, "skip"); err != nil {
		return err
	}
	if f.Limit, err = intParam(c, "limit"); err != nil {
		return err
	}
	list, err := h.s.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *IdeaCtrl) Recent(c echo.Context) error {
	limit, err := intParam(c, "limit")
	if err != nil {
		return err
	}
	list, err := h.s.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *IdeaCtrl) Stats(c echo.Context) error {
	st, err := h.s.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func (h *IdeaCtrl) Get(c echo.Context) error {
	d, err := h.s.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *IdeaCtrl) Update(c echo.Context) error {
	var p service.IdeaPatch
	if err := c.Bind(&p); err != nil {
		return apperr.Validation("invalid json")
	}
	i, err := h.s.Update(c.Request().Context(), c.Param("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, i)
}

func (h *IdeaCtrl) Delete(c echo.Context) error {
	if err := h.s.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Idea deleted successfully"})
}

type transitionReq struct {
	Status entities.IdeaStatus `json:"status"`
}

func (h *IdeaCtrl) Transition(c echo.Context) error {
	var req transitionReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid json")
	}
	if req.Status == "" {
		return apperr.Validation("status is required")
	}
	i, err := h.s.Transition(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, i)
}

func (h *IdeaCtrl) Archive(c echo.Context) error {
	i, err := h.s.Archive(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, i)
}

func (h *IdeaCtrl) Restore(c echo.Context) error {
	i, err := h.s.Restore(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, i)
}

// intParam reads an optional integer query parameter; absent means 0.
func intParam(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.Validation("%s must be an integer", name)
	}
	return n, nil
}
