package controllerImp

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"brightideas/pkg/apperr"
	"brightideas/pkg/plan/controller"
	"brightideas/pkg/plan/service"
)

const (
	maxUploadBytes = 1 << 20
	xlsxMIME       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type PlanCtrl struct{ s service.PlanService }

func NewPlanCtrl(s service.PlanService) controller.PlanController { return &PlanCtrl{s} }

type generateReq struct {
	RefinementSessionID string `json:"refinement_session_id"`
}

func (h *PlanCtrl) Generate(c echo.Context) error {
	var req generateReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid json")
	}
	if req.RefinementSessionID == "" {
		return apperr.Validation("refinement_session_id is required")
	}
	p, err := h.s.Generate(c.Request().Context(), req.RefinementSessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PlanCtrl) Get(c echo.Context) error {
	p, err := h.s.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlanCtrl) ListByIdea(c echo.Context) error {
	ps, err := h.s.List(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ps)
}

func (h *PlanCtrl) Update(c echo.Context) error {
	var patch service.PlanPatch
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("invalid json")
	}
	p, err := h.s.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlanCtrl) Delete(c echo.Context) error {
	if err := h.s.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Plan deleted successfully"})
}

func (h *PlanCtrl) Activate(c echo.Context) error {
	p, err := h.s.Activate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlanCtrl) Deactivate(c echo.Context) error {
	p, err := h.s.Deactivate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

type uploadReq struct {
	Content string `json:"content"`
	Title   string `json:"title"`
}

// Upload accepts {"content","title"} JSON or a multipart "file" field.
func (h *PlanCtrl) Upload(c echo.Context) error {
	var req uploadReq
	if fh, err := c.FormFile("file"); err == nil {
		if fh.Size > maxUploadBytes {
			return apperr.Validation("file is larger than %d bytes", maxUploadBytes)
		}
		f, err := fh.Open()
		if err != nil {
			return apperr.Validation("cannot read upload: %v", err)
		}
		defer f.Close()
		b, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		if err != nil {
			return apperr.Validation("cannot read upload: %v", err)
		}
		req.Content = string(b)
		req.Title = c.FormValue("title")
	} else if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid json")
	}
	p, err := h.s.UploadFromText(c.Request().Context(), c.Param("id"), req.Content, req.Title)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func attachment(c echo.Context, name string) {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
}

func (h *PlanCtrl) ExportJSON(c echo.Context) error {
	name, doc, err := h.s.ExportJSON(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	attachment(c, name)
	return c.JSON(http.StatusOK, doc)
}

func (h *PlanCtrl) ExportMarkdown(c echo.Context) error {
	name, text, err := h.s.ExportMarkdown(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	attachment(c, name)
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(text))
}

func (h *PlanCtrl) ExportXLSX(c echo.Context) error {
	name, data, err := h.s.ExportXLSX(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	attachment(c, name)
	return c.Blob(http.StatusOK, xlsxMIME, data)
}
