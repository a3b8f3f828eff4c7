package routes

import (
	"studioerp/booking"
	"studioerp/middleware"
	"studioerp/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddSchedulingRoutes(router *httprouter.Router, h *booking.Handlers, auth *middleware.Auth, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/bookings/:id/autoassign", auth.Authenticate(rateLimiter.Limit(h.AutoAssign)))
	router.GET("/api/bookings/:id/tasks", auth.Authenticate(h.ListTasks))
	router.GET("/api/bookings/:id/availability", auth.Authenticate(h.Availability))
	router.POST("/api/tasks/:id/skip", auth.Authenticate(rateLimiter.Limit(h.SkipTask)))
	router.POST("/api/conflicts/check", auth.Authenticate(h.CheckConflicts))
}

func AddLiveRoutes(router *httprouter.Router, h *booking.Handlers, hub *booking.Hub, auth *middleware.Auth) {
	router.GET("/ws/bookings/:id", auth.Authenticate(h.Watch(hub)))
}
