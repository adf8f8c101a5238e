package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultEnvironment is selected when SAUCE_ENV is unset.
const DefaultEnvironment = "dev"

// ErrUnknownEnvironment is returned when the selected environment is not configured.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Environment is a deployment of the store under test and its credentials.
type Environment struct {
	Name     string `yaml:"-"`
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Environments maps environment names to their settings.
type Environments map[string]Environment

// DefaultEnvironments returns the built-in dev, qa and prod environments.
func DefaultEnvironments() Environments {
	return Environments{
		"dev": {
			Name:     "dev",
			URL:      "https://www.saucedemo.com",
			Username: "standard_user",
			Password: "secret_sauce",
		},
		"qa": {
			Name:     "qa",
			URL:      "https://qa.saucedemo.com",
			Username: "qa_user",
			Password: "qa_password",
		},
		"prod": {
			Name:     "prod",
			URL:      "https://www.saucedemo.com",
			Username: "standard_user",
			Password: "secret_sauce",
		},
	}
}

// ParseEnvironments overlays YAML environment definitions onto base. Fields
// left empty in the document keep the base value. base is not modified.
func ParseEnvironments(data []byte, base Environments) (Environments, error) {
	var doc map[string]Environment
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse environments: %w", err)
	}

	out := make(Environments, len(base)+len(doc))
	for name, env := range base {
		out[name] = env
	}
	for name, override := range doc {
		env := out[name]
		env.Name = name
		if override.URL != "" {
			env.URL = override.URL
		}
		if override.Username != "" {
			env.Username = override.Username
		}
		if override.Password != "" {
			env.Password = override.Password
		}
		if env.URL == "" {
			return nil, fmt.Errorf("environment %q: url is required", name)
		}
		if u, err := url.Parse(env.URL); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("environment %q: invalid url %q", name, env.URL)
		}
		out[name] = env
	}
	return out, nil
}

// LoadEnvironments returns the built-in environments, overlaid with the YAML
// file named by SAUCE_ENVIRONMENTS_FILE when set.
func LoadEnvironments(getenv func(string) string) (Environments, error) {
	envs := DefaultEnvironments()
	path := getenv("SAUCE_ENVIRONMENTS_FILE")
	if path == "" {
		return envs, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read environments file: %w", err)
	}
	return ParseEnvironments(data, envs)
}

// Select returns the environment called name.
func (e Environments) Select(name string) (Environment, error) {
	env, ok := e[name]
	if !ok {
		return Environment{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownEnvironment, name, e.Names())
	}
	env.Name = name
	return env, nil
}

// Names returns the environment names in sorted order.
func (e Environments) Names() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadEnvironment resolves the environment selected by SAUCE_ENV.
func LoadEnvironment(getenv func(string) string) (Environment, error) {
	envs, err := LoadEnvironments(getenv)
	if err != nil {
		return Environment{}, err
	}
	name := getenv("SAUCE_ENV")
	if name == "" {
		name = DefaultEnvironment
	}
	return envs.Select(name)
}
