package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	capmhandler "capm_backend/internal/feature/capm/transport/handler"
	candleshandler "capm_backend/internal/feature/candles/transport/handler"
	universehandler "capm_backend/internal/feature/universe/transport/handler"
	platformhandler "capm_backend/internal/platform/http/handler"
	jwtmw "capm_backend/internal/platform/jwt"
)

// NewRouter はルーティングを設定したginエンジンを返します。
// jwtSecret が空の場合、APIルートは認証なしで公開されます。
func NewRouter(jwtSecret string, ready gin.HandlerFunc, candles *candleshandler.CandlesHandler,
	universe *universehandler.UniverseHandler, capm *capmhandler.CAPMHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.GET("/readyz", ready)

	api := r.Group("/")
	if jwtSecret != "" {
		// リクエストヘッダーに JWT が必要になる
		api.Use(jwtmw.AuthRequired(jwtSecret))
	} else {
		slog.Warn("JWT_SECRET is not set; API routes are public")
	}
	{
		api.GET("/candles/:code", candles.GetCandlesHandler)
		api.GET("/benchmarks", universe.ListBenchmarks)
		api.GET("/benchmarks/:name/symbols", universe.ListSymbols)
		api.POST("/capm/analysis", capm.Analyze)
		api.GET("/capm/compare", capm.Compare)
	}

	return r
}
