package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/Shinokawa/quetos-api/internal/market"
)

type HistoryResponse struct {
	Status string            `json:"status"`
	Symbol string            `json:"symbol,omitempty"`
	Data   []market.DailyBar `json:"data,omitempty"`
}

func RegisterRoutes(h *server.Hertz, quotes *market.Service, history *market.HistoryService) {
	h.GET("/healthz", func(_ context.Context, c *app.RequestContext) {
		c.JSON(http.StatusOK, map[string]bool{"ok": true})
	})

	h.GET("/api/quotes", func(ctx context.Context, c *app.RequestContext) {
		raw := c.Query("symbols")
		if raw == "" {
			c.JSON(http.StatusBadRequest, map[string]string{
				"error": "missing required query parameter: symbols",
			})
			return
		}
		symbols := splitSymbols(raw)
		if len(symbols) == 0 {
			c.JSON(http.StatusBadRequest, map[string]string{
				"error": "no symbols given",
			})
			return
		}
		c.JSON(http.StatusOK, quotes.GetQuotes(ctx, symbols))
	})

	h.GET("/api/history", func(ctx context.Context, c *app.RequestContext) {
		symbol := c.Query("symbol")
		if symbol == "" {
			c.JSON(http.StatusBadRequest, map[string]string{
				"status":  "error",
				"message": "missing required query parameter: symbol",
			})
			return
		}
		bars, err := history.GetHistory(ctx, symbol, c.Query("start_date"), c.Query("end_date"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, market.ErrInvalidRequest) {
				status = http.StatusBadRequest
			}
			c.JSON(status, map[string]string{
				"status":  "error",
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, HistoryResponse{
			Status: "success",
			Symbol: symbol,
			Data:   bars,
		})
	})
}

func splitSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
