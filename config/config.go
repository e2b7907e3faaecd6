package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ddr4869/fabprofile/common/logger"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	// EnvNetworkName overrides networkName from the topology file.
	EnvNetworkName = "FABLO_NETWORK_NAME"
	// EnvRootPath overrides networkSettings.paths.chaincodesBaseDir.
	EnvRootPath = "FABLO_ROOT_PATH"
)

// LoadNetwork reads a YAML or JSON topology file and applies environment
// overrides. The result is not validated; call Validate for that.
func LoadNetwork(path string) (*Network, error) {
	if path == "" {
		return nil, errors.New("topology file path cannot be empty")
	}

	fileEnv, err := loadEnvFile(filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load .env file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read topology file %s", path)
	}

	network := &Network{}
	if err := yaml.Unmarshal(data, network); err != nil {
		return nil, errors.Wrapf(err, "failed to parse topology file %s", path)
	}

	network.Name = getEnvOrDefault(fileEnv, EnvNetworkName, network.Name)
	network.Settings.Paths.ChaincodesBaseDir = getEnvOrDefault(fileEnv, EnvRootPath, network.Settings.Paths.ChaincodesBaseDir)

	if network.Settings.Paths.ChaincodesBaseDir == "" {
		abs, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve directory of %s", path)
		}
		network.Settings.Paths.ChaincodesBaseDir = abs
		logger.Warnf("chaincodesBaseDir not set, using %s", abs)
	}

	logger.Debugf("loaded network %q with %d orgs from %s", network.Name, len(network.Orgs), path)
	return network, nil
}

// Validate reports every problem in the topology at once.
func (n *Network) Validate() error {
	var err error

	if n.Name == "" {
		err = multierr.Append(err, errors.New("networkName is required"))
	}
	if len(n.Orgs) == 0 {
		err = multierr.Append(err, errors.New("at least one org is required"))
	}

	// profile file names use the lower-cased org name
	seen := make(map[string]string, len(n.Orgs))
	for i, org := range n.Orgs {
		label := fmt.Sprintf("orgs[%d]", i)
		if org.Name == "" {
			err = multierr.Append(err, errors.Errorf("%s: name is required", label))
		} else {
			label = fmt.Sprintf("org %q", org.Name)
			key := strings.ToLower(org.Name)
			if prev, ok := seen[key]; ok {
				err = multierr.Append(err, errors.Errorf("%s: duplicate org name (clashes with %q)", label, prev))
			} else {
				seen[key] = org.Name
			}
		}
		if org.MSPName == "" {
			err = multierr.Append(err, errors.Errorf("%s: mspName is required", label))
		}
		if org.Domain == "" {
			err = multierr.Append(err, errors.Errorf("%s: domain is required", label))
		}
		if org.CA.Address == "" {
			err = multierr.Append(err, errors.Errorf("%s: ca.address is required", label))
		}
		if !validPort(org.CA.ExposePort) {
			err = multierr.Append(err, errors.Errorf("%s: ca.exposePort %d out of range", label, org.CA.ExposePort))
		}
		for j, p := range org.AnchorPeers {
			if p.Address == "" {
				err = multierr.Append(err, errors.Errorf("%s: anchorPeers[%d].address is required", label, j))
			}
			if !validPort(p.Port) {
				err = multierr.Append(err, errors.Errorf("%s: anchorPeers[%d].port %d out of range", label, j, p.Port))
			}
		}
	}

	return err
}

// FindOrg returns the org with the given name.
func (n *Network) FindOrg(name string) (OrgConfig, error) {
	for _, org := range n.Orgs {
		if org.Name == name {
			return org, nil
		}
	}
	return OrgConfig{}, errors.Errorf("org %q not found in network %q", name, n.Name)
}

func validPort(port int) bool {
	return port > 0 && port <= 65535
}

// loadEnvFile reads KEY=VALUE pairs from an optional .env file next to the
// topology file or in the working directory. The process environment is
// left untouched.
func loadEnvFile(dir string) (map[string]string, error) {
	possiblePaths := []string{
		filepath.Join(dir, ".env"),
		".env",
	}

	var envPath string
	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			envPath = path
			break
		}
	}

	env := make(map[string]string)
	if envPath == "" {
		return env, nil
	}

	file, err := os.Open(envPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open .env file: %s", envPath)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if len(value) >= 2 && (value[0] == '"' && value[len(value)-1] == '"') {
			value = value[1 : len(value)-1]
		}

		env[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read .env file: %s", envPath)
	}
	return env, nil
}

// getEnvOrDefault prefers the process environment, then the .env file.
func getEnvOrDefault(fileEnv map[string]string, key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := fileEnv[key]; value != "" {
		return value
	}
	return defaultValue
}
