package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/printprobe/models"
)

func main() {
	apiURL := os.Getenv("PRINTPROBE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	client := &apiClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		apiKey:  os.Getenv("PRINTPROBE_API_KEY"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	if err := server.ServeStdio(newServer(client)); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func newServer(client *apiClient) *server.MCPServer {
	s := server.NewMCPServer(
		"printprobe",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("list_devices",
		mcp.WithDescription("List the configured printers with availability, model and printer status."),
	), handleListDevices(client))

	s.AddTool(mcp.NewTool("device_status",
		mcp.WithDescription("Show the last known state of one printer: ink levels, maintenance box, status and network details."),
		mcp.WithString("device",
			mcp.Required(),
			mcp.Description("Device ID as returned by list_devices"),
		),
	), handleDeviceStatus(client))

	s.AddTool(mcp.NewTool("refresh_device",
		mcp.WithDescription("Read the printer's status page now and return the fresh state."),
		mcp.WithString("device",
			mcp.Required(),
			mcp.Description("Device ID as returned by list_devices"),
		),
		mcp.WithBoolean("usage",
			mcp.Description("Also read page counters from the usage pages"),
		),
	), handleRefreshDevice(client))

	s.AddTool(mcp.NewTool("read_sensor",
		mcp.WithDescription("Read one value from a printer, e.g. 'BK', 'black', 'clean', 'printer_status', 'network.SSID' or 'total_pages'."),
		mcp.WithString("device",
			mcp.Required(),
			mcp.Description("Device ID as returned by list_devices"),
		),
		mcp.WithString("sensor",
			mcp.Required(),
			mcp.Description("Sensor key, legacy sensor name or field name"),
		),
	), handleReadSensor(client))

	s.AddTool(mcp.NewTool("parse_status_page",
		mcp.WithDescription("Extract ink levels, status and network details from Epson status page HTML supplied by the caller."),
		mcp.WithString("html",
			mcp.Required(),
			mcp.Description("Raw HTML of the printer status page"),
		),
		mcp.WithString("source",
			mcp.Description("Label stored in the record's source field"),
		),
	), handleParseStatusPage(client))

	return s
}

func handleListDevices(client *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var resp models.DeviceListResponse
		if err := client.call(ctx, http.MethodGet, "/api/v1/devices", nil, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if len(resp.Devices) == 0 {
			return mcp.NewToolResultText("No devices configured."), nil
		}

		var sb strings.Builder
		for _, d := range resp.Devices {
			state := "unavailable"
			if d.Available {
				state = "available"
			}
			fmt.Fprintf(&sb, "%s (%s): %s, %s, %s\n", d.ID, d.Host, d.Model, state, d.PrinterStatus)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleDeviceStatus(client *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("device")
		if err != nil {
			return mcp.NewToolResultError("device is required"), nil
		}
		var resp models.DeviceResponse
		if err := client.call(ctx, http.MethodGet, devicePath(id), nil, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatDevice(resp.Device)), nil
	}
}

func handleRefreshDevice(client *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("device")
		if err != nil {
			return mcp.NewToolResultError("device is required"), nil
		}
		var payload models.RefreshRequest
		if args := request.GetArguments(); args["usage"] != nil {
			usage := request.GetBool("usage", false)
			payload.Usage = &usage
		}
		var resp models.DeviceResponse
		if err := client.call(ctx, http.MethodPost, devicePath(id, "refresh"), payload, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatDevice(resp.Device)), nil
	}
}

func handleReadSensor(client *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("device")
		if err != nil {
			return mcp.NewToolResultError("device is required"), nil
		}
		name, err := request.RequireString("sensor")
		if err != nil {
			return mcp.NewToolResultError("sensor is required"), nil
		}
		var resp models.SensorResponse
		if err := client.call(ctx, http.MethodGet, devicePath(id, "sensors", name), nil, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatReading(resp.Sensor)), nil
	}
}

func handleParseStatusPage(client *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		markup, err := request.RequireString("html")
		if err != nil {
			return mcp.NewToolResultError("html is required"), nil
		}
		payload := models.ParseRequest{HTML: markup, Source: request.GetString("source", "")}

		var resp models.ParseResponse
		if err := client.call(ctx, http.MethodPost, "/api/v1/parse", payload, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		pretty, err := json.MarshalIndent(resp.Record, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to format record: %v", err)), nil
		}
		return mcp.NewToolResultText(string(pretty)), nil
	}
}
