package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/bookvault/bookvault/ports"
)

// SetupRouter sets up the Gin router. The refresh endpoint stays outside the
// auth group: it needs no access token.
func SetupRouter(auth *AuthHandlers, books *BookHandlers, tokenizer ports.Tokenizer, logger *slog.Logger) *gin.Engine {
	router := gin.Default()

	authenticated := AuthMiddleware(tokenizer, logger)

	ar := router.Group("/auth")
	{
		ar.POST("/register", auth.Register)
		ar.POST("/login", auth.Login)
		ar.POST("/refresh", auth.Refresh)

		ar.GET("/logout", authenticated, auth.Logout)
		ar.POST("/change-password", authenticated, auth.ChangePassword)
		ar.GET("/current-user", authenticated, auth.CurrentUser)
		ar.PATCH("/update-account", authenticated, auth.UpdateAccount)
		ar.POST("/socials", authenticated, auth.UpdateSocials)
	}

	br := router.Group("/api/books")
	br.Use(authenticated)
	{
		br.POST("", books.Create)
		br.GET("", books.List)
		br.GET("/wishlist", books.Wishlist)
		br.GET("/toggleWishlist/:id", books.ToggleWishlist)
		br.POST("/:id/comment", books.AddComment)
		br.PATCH("/update/:id", books.Update)
		br.DELETE("/delete/:id", books.Delete)
		br.GET("/:id", books.Get)
	}

	return router
}
