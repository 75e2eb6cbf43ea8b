package models

import "time"

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// NewErrorResponse builds an ErrorResponse.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: &ErrorDetail{Code: code, Message: message}}
}

// ParseResponse is the response for POST /api/v1/parse.
type ParseResponse struct {
	Success bool   `json:"success"`
	Record  Record `json:"record"`

	// Timing is the parse duration in milliseconds.
	ParseMs int64 `json:"parse_ms"`
}

// DeviceStatus is the API view of one polled device.
type DeviceStatus struct {
	ID        string `json:"id"`
	Host      string `json:"host"`
	Path      string `json:"path"`
	Available bool   `json:"available"`

	// Model is always set; DefaultModel when unknown.
	Model string `json:"model"`

	// PrinterStatus is "Unknown" when the device is unavailable or silent.
	PrinterStatus string `json:"printer_status"`

	LastRefresh *time.Time     `json:"last_refresh,omitempty"`
	LastError   *ErrorDetail   `json:"last_error,omitempty"`
	Record      *Record        `json:"record,omitempty"`
	Usage       *UsageCounters `json:"usage,omitempty"`
}

// DeviceListResponse is the response for GET /api/v1/devices.
type DeviceListResponse struct {
	Success bool           `json:"success"`
	Devices []DeviceStatus `json:"devices"`
}

// DeviceResponse is the response for a single device.
type DeviceResponse struct {
	Success bool         `json:"success"`
	Device  DeviceStatus `json:"device"`
}

// SensorReading is one named value exposed by a device.
type SensorReading struct {
	Key   string `json:"key"`
	Name  string `json:"name,omitempty"`
	Unit  string `json:"unit,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Value any    `json:"value"`
}

// SensorsResponse is the response for GET /api/v1/devices/:id/sensors.
type SensorsResponse struct {
	Success  bool            `json:"success"`
	DeviceID string          `json:"device_id"`
	Sensors  []SensorReading `json:"sensors"`
}

// SensorResponse is the response for GET /api/v1/devices/:id/sensors/:name.
type SensorResponse struct {
	Success  bool          `json:"success"`
	DeviceID string        `json:"device_id"`
	Sensor   SensorReading `json:"sensor"`
}

// PageResponse is the response for GET /api/v1/devices/:id/page.
type PageResponse struct {
	Success  bool   `json:"success"`
	DeviceID string `json:"device_id"`
	Format   string `json:"format"`
	Content  string `json:"content"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string      `json:"status"` // "healthy" or "degraded"
	Uptime  string      `json:"uptime"`
	Devices DeviceStats `json:"devices"`
	Version string      `json:"version"`
}

// DeviceStats summarizes device availability.
type DeviceStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}
