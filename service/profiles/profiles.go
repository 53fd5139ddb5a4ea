// Package profiles discovers AWS named profiles from the shared config files.
package profiles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	envConfigFile      = "AWS_CONFIG_FILE"
	envCredentialsFile = "AWS_SHARED_CREDENTIALS_FILE"

	profilePrefix    = "profile "
	ssoSessionPrefix = "sso-session "
)

// Profile is a named profile and where it was declared.
type Profile struct {
	Name           string
	SSO            bool
	SSOSession     string
	Region         string
	InConfig       bool
	HasCredentials bool
}

// Inventory is everything found in the shared config and credentials files.
type Inventory struct {
	ConfigPath       string
	CredentialsPath  string
	ConfigFound      bool
	CredentialsFound bool
	Profiles         []Profile
	SSOSessions      []string
}

// ConfigPath returns the shared config path, honoring AWS_CONFIG_FILE.
func ConfigPath() string {
	return pathFromEnv(envConfigFile, "config")
}

// CredentialsPath returns the shared credentials path, honoring AWS_SHARED_CREDENTIALS_FILE.
func CredentialsPath() string {
	return pathFromEnv(envCredentialsFile, "credentials")
}

func pathFromEnv(env, name string) string {
	if p := os.Getenv(env); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".aws", name)
	}
	return filepath.Join(home, ".aws", name)
}

// Discover parses both files. Missing files are reported on the inventory,
// not as errors; unreadable or malformed files are errors.
func Discover(configPath, credentialsPath string) (*Inventory, error) {
	inv := &Inventory{ConfigPath: configPath, CredentialsPath: credentialsPath}
	byName := map[string]*Profile{}
	get := func(name string) *Profile {
		p, ok := byName[name]
		if !ok {
			p = &Profile{Name: name}
			byName[name] = p
		}
		return p
	}

	cfg, found, err := load(configPath)
	if err != nil {
		return nil, err
	}
	inv.ConfigFound = found
	if cfg != nil {
		for _, section := range cfg.Sections() {
			name := section.Name()
			switch {
			case strings.HasPrefix(name, ssoSessionPrefix):
				inv.SSOSessions = append(inv.SSOSessions, strings.TrimSpace(strings.TrimPrefix(name, ssoSessionPrefix)))
				continue
			case strings.HasPrefix(name, profilePrefix):
				name = strings.TrimSpace(strings.TrimPrefix(name, profilePrefix))
			case name == "default":
			default:
				continue
			}
			if len(section.Keys()) == 0 && name != "default" {
				continue
			}

			p := get(name)
			p.InConfig = true
			p.Region = section.Key("region").String()
			p.SSOSession = section.Key("sso_session").String()
			p.SSO = p.SSOSession != "" || section.HasKey("sso_start_url")
		}
	}

	creds, found, err := load(credentialsPath)
	if err != nil {
		return nil, err
	}
	inv.CredentialsFound = found
	if creds != nil {
		for _, section := range creds.Sections() {
			if section.Name() == ini.DefaultSection || len(section.Keys()) == 0 {
				continue
			}
			get(section.Name()).HasCredentials = true
		}
	}

	if p, ok := byName["default"]; ok && !p.InConfig && !p.HasCredentials {
		delete(byName, "default")
	}
	for _, p := range byName {
		inv.Profiles = append(inv.Profiles, *p)
	}
	sort.Slice(inv.Profiles, func(i, j int) bool { return inv.Profiles[i].Name < inv.Profiles[j].Name })
	sort.Strings(inv.SSOSessions)
	return inv, nil
}

func load(path string) (*ini.File, bool, error) {
	if path == "" {
		return nil, false, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stat %s: %w", path, err)
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, true, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, true, nil
}

// Names returns every profile name.
func (inv *Inventory) Names() []string {
	names := make([]string, 0, len(inv.Profiles))
	for _, p := range inv.Profiles {
		names = append(names, p.Name)
	}
	return names
}

// SSOProfiles returns the names of profiles that sign in through IAM Identity Center.
func (inv *Inventory) SSOProfiles() []string {
	var names []string
	for _, p := range inv.Profiles {
		if p.SSO {
			names = append(names, p.Name)
		}
	}
	return names
}
