package http

import (
	"sort"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	ordertransport "github.com/Additional-Code/tableside/internal/transport/http/order"
)

// Module aggregates all HTTP transport handlers and logs the resulting route table.
var Module = fx.Options(
	ordertransport.Module,
	fx.Invoke(logRoutes),
)

func logRoutes(e *echo.Echo, logger *zap.Logger) {
	routes := e.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	for _, r := range routes {
		logger.Debug("route registered", zap.String("method", r.Method), zap.String("path", r.Path))
	}
	logger.Info("http routes ready", zap.Int("count", len(routes)))
}
