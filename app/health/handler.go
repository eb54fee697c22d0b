package health

import (
	"context"
	"net/http"
	"time"

	"github.com/mytheresa/storefront/app/response"
	"github.com/mytheresa/storefront/internal/logger"
)

type Pinger interface {
	Ping(ctx context.Context) (time.Time, error)
}

type Status struct {
	Database   string    `json:"database"`
	ServerTime time.Time `json:"server_time"`
}

type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

// HandleHealth reports whether the database answers a trivial query.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	now, err := h.db.Ping(ctx)
	if err != nil {
		logger.Get().WithContext(r.Context()).ErrorWithErr("database connection test failed", err)
		response.Error(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	response.JSON(w, http.StatusOK, Status{Database: "ok", ServerTime: now}, "")
}
