package models

// ParseRequest is the payload for POST /api/v1/parse.
type ParseRequest struct {
	// HTML is the raw status page markup. Required.
	HTML string `json:"html" binding:"required"`

	// Source is echoed back in the record. Optional.
	Source string `json:"source,omitempty"`
}

// RefreshRequest is the optional payload for POST /api/v1/devices/:id/refresh.
type RefreshRequest struct {
	// Usage also probes the auxiliary usage-counter pages.
	// Default: the device's configured setting.
	Usage *bool `json:"usage,omitempty"`
}

// PageQuery holds the query parameters of GET /api/v1/devices/:id/page.
type PageQuery struct {
	// Format controls the output format.
	// Allowed: "markdown" (default), "html", "text".
	Format string `form:"format" binding:"omitempty,oneof=markdown html text"`

	// Selector narrows the page before rendering: a CSS selector or one of
	// "device" (default), "status", "tanks", "network", "wifi_direct", "all".
	Selector string `form:"selector"`
}

// Defaults applies default values to unset fields.
func (q *PageQuery) Defaults() {
	if q.Format == "" {
		q.Format = "markdown"
	}
}
