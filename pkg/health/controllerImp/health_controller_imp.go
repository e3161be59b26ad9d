package controllerImp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var appStart = time.Now()

const pingTimeout = 800 * time.Millisecond

// Info is the static part of the health report.
type Info struct {
	Environment string
	AIMode      string
	Features    []string
}

type check struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

type report struct {
	Status      string           `json:"status"`
	Environment string           `json:"environment"`
	AIMode      string           `json:"ai_mode"`
	Features    []string         `json:"features"`
	UptimeSec   int              `json:"uptime_sec"`
	Checks      map[string]check `json:"checks"`
	Time        string           `json:"time"`
}

type HealthCtrl struct {
	db   *gorm.DB
	info Info
}

func NewHealthCtrl(db *gorm.DB, info Info) *HealthCtrl {
	if info.Features == nil {
		info.Features = []string{}
	}
	return &HealthCtrl{db: db, info: info}
}

func (h *HealthCtrl) ping(ctx context.Context) error {
	if h.db == nil {
		return errors.New("database not configured")
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func (h *HealthCtrl) Health(c echo.Context) error {
	db := check{OK: true}
	if err := h.ping(c.Request().Context()); err != nil {
		db = check{Err: err.Error()}
	}

	r := report{
		Status:      "healthy",
		Environment: h.info.Environment,
		AIMode:      h.info.AIMode,
		Features:    h.info.Features,
		UptimeSec:   int(time.Since(appStart).Seconds()),
		Checks:      map[string]check{"database": db},
		Time:        time.Now().UTC().Format(time.RFC3339),
	}
	code := http.StatusOK
	if !db.OK {
		r.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, r)
}
