package handler

import "github.com/gin-gonic/gin"

// Routes groups the handlers mounted under the API prefix.
type Routes struct {
	Auth        *AuthHandler
	Student     *StudentHandler
	RecordSets  *RecordSetHandler
	Schedule    *ScheduleHandler
	HallTickets *HallTicketHandler
}

// Register mounts the portal API on r. session guards every route except
// login and signed downloads; loginLimit throttles login attempts.
func (rt Routes) Register(r gin.IRouter, prefix string, session, loginLimit gin.HandlerFunc) {
	api := r.Group(prefix)

	api.POST("/auth/login", loginLimit, rt.Auth.Login)
	api.GET("/downloads/hall-tickets/:token", rt.HallTickets.DownloadByToken)

	secured := api.Group("")
	secured.Use(session)
	secured.GET("/me", rt.Student.Me)

	sets := secured.Group("/record-sets")
	sets.GET("", rt.RecordSets.List)
	sets.GET("/:name/schedule", rt.Schedule.Schedule)
	sets.GET("/:name/schedule/export", rt.Schedule.Export)
	sets.GET("/:name/status", rt.Schedule.Status)
	sets.GET("/:name/rooms", rt.Schedule.Rooms)

	tickets := secured.Group("/hall-tickets")
	tickets.GET("/collections", rt.HallTickets.Collections)
	tickets.GET("/:collection/download", rt.HallTickets.Download)
	tickets.POST("/:collection/link", rt.HallTickets.CreateLink)
}
