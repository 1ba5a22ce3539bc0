// Package router assembles the HTTP route table.
package router

import (
	"github.com/gin-gonic/gin"

	authhandler "stock_trading_backend/internal/feature/auth/transport/handler"
	mhhandler "stock_trading_backend/internal/feature/markethours/transport/handler"
	pfhandler "stock_trading_backend/internal/feature/portfolio/transport/handler"
	quotehandler "stock_trading_backend/internal/feature/quotes/transport/handler"
	"stock_trading_backend/internal/platform/http/handler"
	jwtmw "stock_trading_backend/internal/platform/jwt"
)

// NewRouter builds the gin engine with public and JWT-protected routes.
func NewRouter(auth *authhandler.AuthHandler, quotes *quotehandler.QuoteHandler,
	portfolio *pfhandler.PortfolioHandler, markets *mhhandler.MarketHoursHandler) *gin.Engine {
	r := gin.Default()

	// Public routes.
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.POST("/signup", auth.Signup)
	r.POST("/login", auth.Login)

	// Everything else requires a valid JWT.
	protected := r.Group("/")
	protected.Use(jwtmw.AuthRequired())
	{
		protected.GET("/me", auth.Me)
		protected.POST("/logout", auth.Logout)

		stocks := protected.Group("/stocks")
		{
			stocks.GET("/market-summary", quotes.MarketSummary)
			stocks.GET("/search", quotes.Search)
			stocks.POST("/multiple", quotes.GetMultiple)
			stocks.GET("/price/:symbol", quotes.GetPrice)
			stocks.GET("/history/:symbol", quotes.GetHistory)
			stocks.GET("/:symbol", quotes.GetQuote)
		}

		pf := protected.Group("/portfolio")
		{
			pf.GET("", portfolio.GetPortfolio)
			pf.GET("/summary", portfolio.GetSummary)
			pf.GET("/transactions", portfolio.GetTransactions)
			pf.GET("/max-buy/:symbol", portfolio.MaxBuy)
			pf.POST("/buy", portfolio.Buy)
			pf.POST("/sell", portfolio.Sell)
		}

		mk := protected.Group("/markets")
		{
			mk.GET("/hours", markets.List)
			mk.GET("/status", markets.StatusAll)
			mk.GET("/:market/status", markets.Status)
		}
	}

	return r
}
