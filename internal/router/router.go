package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/emirhankose/dizifilm-api/internal/handler"
	"github.com/emirhankose/dizifilm-api/internal/middleware"
)

// Handlers collects every handler the API mounts.  main wires the
// repositories in and hands the bundle over in one piece.
type Handlers struct {
	Auth      *handler.AuthHandler
	Films     *handler.FilmHandler
	Series    *handler.SeriesHandler
	Genres    *handler.GenreHandler
	Actors    *handler.ActorHandler
	Directors *handler.DirectorHandler
	Lists     *handler.ListHandler
}

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account routes.  Register and login live
// under /v1/auth without middleware; the account endpoints under /v1/me
// require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	me := e.Group("/v1/me")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("", a.Me)
	me.PUT("/password", a.ChangePassword)
	me.PUT("/email", a.UpdateEmail)
	me.DELETE("", a.DeleteAccount)
}

// RegisterCatalog registers the catalog routes under /v1.  Reads are
// public and run through the response cache; writes are protected by
// the access token.  Rating submission and my-rating reads need the
// caller's identity and therefore sit in the protected group too.
func RegisterCatalog(e *echo.Echo, h Handlers, jwtSecret string, cache echo.MiddlewareFunc) {
	pub := e.Group("/v1", cache)
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	// films
	pub.GET("/films", h.Films.List)
	pub.GET("/films/:id", h.Films.Get)
	pub.GET("/films/:id/rating/average", h.Films.AverageRating)
	auth.POST("/films", h.Films.Create)
	auth.PUT("/films/:id", h.Films.Update)
	auth.DELETE("/films/:id", h.Films.Delete)
	auth.PUT("/films/:id/genres", h.Films.SetGenres)
	auth.PUT("/films/:id/actors", h.Films.SetActors)
	auth.PUT("/films/:id/poster", h.Films.UpdatePoster)
	auth.POST("/films/:id/rating", h.Films.Rate)
	auth.GET("/films/:id/rating", h.Films.MyRating)

	// series, seasons and episodes
	pub.GET("/series", h.Series.List)
	pub.GET("/series/:id", h.Series.Get)
	pub.GET("/series/:id/seasons", h.Series.ListSeasons)
	pub.GET("/seasons/:id", h.Series.GetSeason)
	pub.GET("/episodes/:id", h.Series.GetEpisode)
	pub.GET("/series/:id/rating/average", h.Series.AverageRating)
	auth.POST("/series", h.Series.Create)
	auth.PUT("/series/:id", h.Series.Update)
	auth.DELETE("/series/:id", h.Series.Delete)
	auth.PUT("/series/:id/genres", h.Series.SetGenres)
	auth.PUT("/series/:id/actors", h.Series.SetActors)
	auth.PUT("/series/:id/poster", h.Series.UpdatePoster)
	auth.POST("/series/:id/seasons", h.Series.AddSeason)
	auth.PUT("/seasons/:id", h.Series.UpdateSeason)
	auth.DELETE("/seasons/:id", h.Series.DeleteSeason)
	auth.POST("/seasons/:id/episodes", h.Series.AddEpisode)
	auth.PUT("/episodes/:id", h.Series.UpdateEpisode)
	auth.DELETE("/episodes/:id", h.Series.DeleteEpisode)
	auth.POST("/series/:id/rating", h.Series.Rate)
	auth.GET("/series/:id/rating", h.Series.MyRating)

	// genres
	pub.GET("/genres", h.Genres.List)
	pub.GET("/genres/:id", h.Genres.Get)
	pub.GET("/genres/:id/films", h.Genres.FilmsOf)
	pub.GET("/genres/:id/series", h.Genres.SeriesOf)
	auth.POST("/genres", h.Genres.Create)
	auth.PUT("/genres/:id", h.Genres.Update)
	auth.DELETE("/genres/:id", h.Genres.Delete)

	// actors
	pub.GET("/actors", h.Actors.List)
	pub.GET("/actors/:id", h.Actors.Get)
	pub.GET("/actors/:id/films", h.Actors.FilmsOf)
	pub.GET("/actors/:id/series", h.Actors.SeriesOf)
	auth.POST("/actors", h.Actors.Create)
	auth.PUT("/actors/:id", h.Actors.Update)
	auth.PUT("/actors/:id/photo", h.Actors.UpdatePhoto)
	auth.DELETE("/actors/:id", h.Actors.Delete)

	// directors
	pub.GET("/directors", h.Directors.List)
	pub.GET("/directors/:id", h.Directors.Get)
	pub.GET("/directors/:id/films", h.Directors.FilmsOf)
	pub.GET("/directors/:id/series", h.Directors.SeriesOf)
	auth.POST("/directors", h.Directors.Create)
	auth.PUT("/directors/:id", h.Directors.Update)
	auth.PUT("/directors/:id/photo", h.Directors.UpdatePhoto)
	auth.DELETE("/directors/:id", h.Directors.Delete)

	// user lists, owner-scoped end to end
	auth.POST("/lists", h.Lists.Create)
	auth.GET("/lists", h.Lists.Mine)
	auth.GET("/lists/:id", h.Lists.Get)
	auth.PUT("/lists/:id", h.Lists.Update)
	auth.DELETE("/lists/:id", h.Lists.Delete)
	auth.POST("/lists/:id/items", h.Lists.AddItem)
	auth.DELETE("/lists/:id/items", h.Lists.RemoveItem)
}
