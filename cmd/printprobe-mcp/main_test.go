package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/use-agent/printprobe/models"
)

func newStubAPI(t *testing.T) *apiClient {
	t.Helper()
	maint := 42
	office := models.DeviceStatus{
		ID: "office", Host: "192.0.2.10", Available: true,
		Model: "Epson WF-3540 Series", PrinterStatus: "Available",
		Record: &models.Record{
			Model:          "Epson WF-3540 Series",
			Inks:           map[string]int{"C": 100, "BK": 26},
			MaintenanceBox: &maint,
			Network:        map[string]string{"SSID": "CHAOS"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/devices", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.DeviceListResponse{Success: true, Devices: []models.DeviceStatus{office}})
	})
	mux.HandleFunc("GET /api/v1/devices/office", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.DeviceResponse{Success: true, Device: office})
	})
	mux.HandleFunc("POST /api/v1/devices/office/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req models.RefreshRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Usage == nil || !*req.Usage {
			t.Errorf("usage flag not forwarded: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(models.DeviceResponse{Success: true, Device: office})
	})
	mux.HandleFunc("GET /api/v1/devices/office/sensors/black", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.SensorResponse{Success: true, DeviceID: "office",
			Sensor: models.SensorReading{Key: "BK", Name: "Ink level Black", Unit: "%", Value: 26}})
	})
	mux.HandleFunc("POST /api/v1/parse", func(w http.ResponseWriter, r *http.Request) {
		var req models.ParseRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(models.ParseResponse{Success: true, Record: models.Record{Model: "Epson X", Source: req.Source}})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(models.NewErrorResponse(models.ErrCodeNotFound, "unknown device: nope"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &apiClient{baseURL: srv.URL, http: &http.Client{Timeout: 5 * time.Second}}
}

func callTool(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var sb strings.Builder
	for _, c := range res.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			sb.WriteString(tc.Text)
		case *mcp.TextContent:
			sb.WriteString(tc.Text)
		}
	}
	return sb.String(), res.IsError
}

func TestTools(t *testing.T) {
	client := newStubAPI(t)
	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
		want    []string
		isError bool
	}{
		{"list", handleListDevices(client), nil, []string{"office (192.0.2.10): Epson WF-3540 Series, available, Available"}, false},
		{"status", handleDeviceStatus(client), map[string]any{"device": "office"}, []string{"BK   26%", "C   100%", "Maintenance box: 42%", "SSID: CHAOS"}, false},
		{"refresh", handleRefreshDevice(client), map[string]any{"device": "office", "usage": true}, []string{"Available: yes"}, false},
		{"sensor", handleReadSensor(client), map[string]any{"device": "office", "sensor": "black"}, []string{"Ink level Black: 26%"}, false},
		{"parse", handleParseStatusPage(client), map[string]any{"html": "<title>X</title>", "source": "upload"}, []string{`"source": "upload"`}, false},
		{"unknown device", handleDeviceStatus(client), map[string]any{"device": "nope"}, []string{"[NOT_FOUND] unknown device: nope"}, true},
		{"missing arg", handleReadSensor(client), map[string]any{"device": "office"}, []string{"sensor is required"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := callTool(t, tt.handler, tt.args)
			if isErr != tt.isError {
				t.Errorf("IsError = %v, want %v (%s)", isErr, tt.isError, text)
			}
			for _, w := range tt.want {
				if !strings.Contains(text, w) {
					t.Errorf("output missing %q:\n%s", w, text)
				}
			}
		})
	}
}

func TestOrderedChannels(t *testing.T) {
	got := orderedChannels(map[string]int{"Y": 1, "ZZ": 1, "BK": 1, "C": 1, "AA": 1})
	want := "BK,C,Y,AA,ZZ"
	if strings.Join(got, ",") != want {
		t.Errorf("orderedChannels = %v, want %s", got, want)
	}
}
