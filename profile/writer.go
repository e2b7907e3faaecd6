package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ddr4869/fabprofile/common/logger"
	"github.com/ddr4869/fabprofile/config"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format is a serialization format for profiles.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultFormats are written when no format is requested.
var DefaultFormats = []Format{FormatJSON, FormatYAML}

// ParseFormat accepts json, yaml or yml, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.Errorf("unsupported profile format %q", s)
	}
}

// OutputDir is where profiles of the network rooted at rootPath are kept.
func OutputDir(rootPath string) string {
	return filepath.Join(rootPath, "fablo-target", "fabric-config", "connection-profiles")
}

// FileName returns connection-profile-<org>.<format> with the org name in
// lower case.
func FileName(orgName string, format Format) string {
	return fmt.Sprintf("connection-profile-%s.%s", strings.ToLower(orgName), format)
}

// Encode serializes p. JSON and YAML are both indented by two spaces.
func Encode(p *ConnectionProfile, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal profile to json")
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return nil, errors.Wrap(err, "failed to marshal profile to yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "failed to flush yaml encoder")
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.Errorf("unsupported profile format %q", format)
	}
}

// Write stores p in dir once per format and returns the written paths.
func Write(dir string, p *ConnectionProfile, formats ...Format) ([]string, error) {
	if len(formats) == 0 {
		formats = DefaultFormats
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create directory %s", dir)
	}

	var written []string
	for _, format := range formats {
		data, err := Encode(p, format)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, FileName(p.Client.Organization, format))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, errors.Wrapf(err, "failed to write %s", path)
		}
		logger.Debugf("wrote connection profile %s", path)
		written = append(written, path)
	}
	return written, nil
}

// GenerateAll builds the profile of every org in network and writes it to
// outDir, or to OutputDir of the network root when outDir is empty.
func GenerateAll(network *config.Network, outDir string, formats ...Format) ([]string, error) {
	if outDir == "" {
		outDir = OutputDir(network.Settings.Paths.ChaincodesBaseDir)
	}

	if len(formats) == 0 {
		formats = DefaultFormats
	}

	var written []string
	owners := make(map[string]int, len(network.Orgs))
	for i, org := range network.Orgs {
		for _, format := range formats {
			name := FileName(org.Name, format)
			if owner, ok := owners[name]; ok && owner != i {
				return written, errors.Errorf("profiles of %s and %s would both be written to %s", network.Orgs[owner].Name, org.Name, name)
			}
			owners[name] = i
		}
	}

	for _, org := range network.Orgs {
		p := BuildProfile(network.Name, network.Settings, org, network.Orgs)
		paths, err := Write(outDir, p, formats...)
		written = append(written, paths...)
		if err != nil {
			return written, logger.WrapErrorf(err, "failed to write profile of %s", org.Name)
		}
		logger.Infof("generated connection profile for %s (%d peers)", org.Name, p.Peers.Len())
	}
	return written, nil
}

// Load reads a JSON profile written by Write.
func Load(path string) (*ConnectionProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read profile %s", path)
	}
	p := &ConnectionProfile{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, errors.Wrapf(err, "failed to parse profile %s", path)
	}
	return p, nil
}
