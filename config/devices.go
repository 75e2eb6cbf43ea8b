package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DeviceConfig describes one device to poll.
type DeviceConfig struct {
	ID     string `yaml:"id"`
	Host   string `yaml:"host"`
	Path   string `yaml:"path"`
	Scheme string `yaml:"scheme"`

	// Usage overrides PollConfig.Usage for this device.
	Usage *bool `yaml:"usage"`
}

type devicesFile struct {
	Devices []DeviceConfig `yaml:"devices"`
}

// LoadDevicesFile reads a YAML device list:
//
//	devices:
//	  - id: office
//	    host: 192.168.1.20
//	    path: /PRESENTATION/HTML/TOP/PRTINFO.HTML
func LoadDevicesFile(path string) ([]DeviceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var f devicesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return f.Devices, nil
}

// ParseDeviceEntry parses an inline "id=host[/path]" entry. Without "id="
// the host doubles as the id.
func ParseDeviceEntry(entry string) (DeviceConfig, error) {
	entry = strings.TrimSpace(entry)
	var d DeviceConfig
	if id, rest, ok := strings.Cut(entry, "="); ok {
		d.ID = strings.TrimSpace(id)
		entry = strings.TrimSpace(rest)
	}
	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(strings.ToLower(entry), scheme) {
			d.Scheme = strings.TrimSuffix(scheme, "://")
			entry = entry[len(scheme):]
			break
		}
	}
	host, path, _ := strings.Cut(entry, "/")
	d.Host = host
	if path != "" {
		d.Path = "/" + path
	}
	if d.ID == "" {
		d.ID = d.Host
	}
	if d.Host == "" {
		return d, fmt.Errorf("config: device entry %q has no host", entry)
	}
	return d, nil
}

// DeviceList merges the devices file and inline entries, applies the
// default status path and rejects duplicate or incomplete entries.
func (c *Config) DeviceList() ([]DeviceConfig, error) {
	var devices []DeviceConfig
	if c.Devices.File != "" {
		fromFile, err := LoadDevicesFile(c.Devices.File)
		if err != nil {
			return nil, err
		}
		devices = append(devices, fromFile...)
	}
	for _, entry := range c.Devices.Inline {
		d, err := ParseDeviceEntry(entry)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}

	seen := make(map[string]struct{}, len(devices))
	for i := range devices {
		d := &devices[i]
		d.ID = strings.TrimSpace(d.ID)
		d.Host = strings.TrimSpace(d.Host)
		if d.Host == "" {
			return nil, fmt.Errorf("config: device %q has no host", d.ID)
		}
		if d.ID == "" {
			d.ID = d.Host
		}
		if d.Path == "" {
			d.Path = DefaultStatusPath
		}
		if d.Scheme == "" {
			d.Scheme = c.Fetch.Scheme
		}
		if d.Scheme != "http" && d.Scheme != "https" {
			return nil, fmt.Errorf("config: device %q: unsupported scheme %q", d.ID, d.Scheme)
		}
		if d.Usage == nil {
			usage := c.Poll.Usage
			d.Usage = &usage
		}
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("config: duplicate device id %q", d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	return devices, nil
}
