package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type SystemMetricsResponse struct {
	Version       string `json:"version"`
	Mode          string `json:"mode"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	RequestTotal  int64  `json:"request_total"`
	RequestFailed int64  `json:"request_failed"`
	AvgDurationMs int64  `json:"avg_duration_ms"`
}

func (s *APIV1Service) getSystemMetrics(c echo.Context) error {
	snapshot := s.Metrics.GetSnapshot()
	return c.JSON(http.StatusOK, &SystemMetricsResponse{
		Version:       s.Profile.Version,
		Mode:          s.Profile.Mode,
		UptimeSeconds: snapshot.UptimeSeconds,
		RequestTotal:  snapshot.RequestTotal,
		RequestFailed: snapshot.RequestFailed,
		AvgDurationMs: snapshot.AvgDurationMs,
	})
}
