// Package routepath centralizes admin dashboard route constants.
package routepath

const (
	Root = "/"
)

const (
	Settings = "/settings"
)

const (
	// WidgetConfig serves the storefront embed its per-shop configuration.
	WidgetConfig = "/api/widget-config"
	// Events ingests widget analytics events.
	Events = "/api/events"
)
