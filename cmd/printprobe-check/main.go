// printprobe-check reads one status page, from a device or a saved file,
// and prints the extracted record as JSON or the page itself.
//
//	printprobe-check --host 192.168.1.20
//	printprobe-check --file status.html --format markdown
//	printprobe-check --discover
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/use-agent/printprobe/config"
	"github.com/use-agent/printprobe/device"
	"github.com/use-agent/printprobe/discovery"
	"github.com/use-agent/printprobe/models"
	"github.com/use-agent/printprobe/parser"
	"github.com/use-agent/printprobe/render"
	"github.com/use-agent/printprobe/scraper"
)

type options struct {
	host     string
	path     string
	file     string
	scheme   string
	format   string
	selector string
	source   string
	usage    bool
	timeout  time.Duration
	verbose  bool

	discover     bool
	discoverWait time.Duration
}

// result is the JSON output.
type result struct {
	Record models.Record         `json:"record"`
	Usage  *models.UsageCounters `json:"usage,omitempty"`
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("printprobe-check", pflag.ContinueOnError)
	flagSet.StringVar(&opts.host, "host", "", "device host or IP, optionally with http:// or https://")
	flagSet.StringVar(&opts.path, "path", config.DefaultStatusPath, "status page path")
	flagSet.StringVarP(&opts.file, "file", "f", "", "parse a saved page instead of fetching (- for stdin)")
	flagSet.StringVar(&opts.scheme, "scheme", "http", "scheme used when --host has none")
	flagSet.StringVarP(&opts.format, "format", "o", "json", "output: json, markdown, html or text")
	flagSet.StringVar(&opts.selector, "selector", "", "CSS selector or region (device, status, tanks, network, wifi_direct, all) narrowing page output")
	flagSet.StringVar(&opts.source, "source", "", "source label stored in the record (default: host or file)")
	flagSet.BoolVar(&opts.usage, "usage", false, "also probe the usage counter pages")
	flagSet.DurationVar(&opts.timeout, "timeout", 5*time.Second, "per-page timeout")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log strategy fallbacks to stderr")
	flagSet.BoolVar(&opts.discover, "discover", false, "list Epson devices announced over mDNS and exit")
	flagSet.DurationVar(&opts.discoverWait, "discover-wait", 3*time.Second, "how long to listen with --discover")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if opts.discover {
		found, err := discovery.Browse(ctx, opts.discoverWait)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(found)
	}
	if opts.host == "" && opts.file == "" {
		return fmt.Errorf("one of --host, --file or --discover is required")
	}

	fetcher := scraper.NewFetcher(config.FetchConfig{
		Scheme:     opts.scheme,
		Timeout:    opts.timeout,
		UserAgent:  "printprobe-check",
		UsagePaths: config.DefaultUsagePaths,
	})

	var (
		markup string
		res    result
		err    error
	)
	if opts.file != "" {
		source := opts.source
		if source == "" {
			source = opts.file
		}
		if markup, err = readFile(opts.file); err != nil {
			return err
		}
		res.Record = parser.Parse(markup, source)
		if opts.usage {
			if u := scraper.ParseUsage(markup); !u.Empty() {
				res.Usage = &u
			}
		}
	} else {
		s := newSession(fetcher, opts)
		if !s.RefreshWithUsage(ctx, opts.usage) {
			return s.LastError()
		}
		markup, _ = s.Page()
		res.Record, _ = s.Record()
		if u := s.Usage(); !u.Empty() {
			res.Usage = &u
		}
	}

	if opts.format != "json" {
		content, err := render.New().Render(markup, opts.format, opts.selector, "")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, content)
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// newSession reads the device the way the server does. --host may carry
// its own scheme.
func newSession(f *scraper.Fetcher, opts options) *device.Session {
	cfg := config.DeviceConfig{ID: opts.source, Host: opts.host, Path: opts.path, Scheme: opts.scheme}
	if scheme, host, ok := strings.Cut(opts.host, "://"); ok {
		cfg.Scheme, cfg.Host = scheme, host
	}
	if cfg.ID == "" {
		cfg.ID = opts.host
	}
	return device.NewSession(cfg, f, 0)
}

func readFile(name string) (string, error) {
	var (
		raw []byte
		err error
	)
	if name == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(name)
	}
	if err != nil {
		return "", err
	}
	return parser.Decode(raw), nil
}
