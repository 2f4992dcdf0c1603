// Code generated by vango routes generator 0.0.3 (none). DO NOT EDIT.

package routes

import (
	api "chat_widget/app/routes/api"
	"github.com/vango-go/vango"
)

// Register adds all routes to the app.
// Generated by `vango dev` or `vango gen routes`.
func Register(app *vango.App) {
	// Layouts
	app.Layout("/", Layout)

	// Pages
	app.Page("/", IndexPage)

	// API routes
	app.API("GET", "/api/health", api.HealthGET)
}

// Route path constants for type-safe linking.
const (
	RouteIndex = "/"
)
