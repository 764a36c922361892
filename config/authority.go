package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Authority is the on-disk list of statically configured owners and admins.
//
//	owners:
//	  - "123456789"
//	  - "@founder"
//	admins:
//	  - "@moderator"
//	verification:
//	  guild_id: "987"
//	  role_ids: ["111", "222"]
type Authority struct {
	Owners       []string           `yaml:"owners"`
	Admins       []string           `yaml:"admins"`
	Verification VerificationConfig `yaml:"verification"`
}

type VerificationConfig struct {
	GuildID string   `yaml:"guild_id"`
	RoleIDs []string `yaml:"role_ids"`
}

// LoadAuthorityFile reads and parses an authority YAML file
func LoadAuthorityFile(path string) (*Authority, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read authority file %s: %w", path, err)
	}
	return ParseAuthority(data)
}

// ParseAuthority parses authority YAML
func ParseAuthority(data []byte) (*Authority, error) {
	var a Authority
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse authority file: %w", err)
	}
	return &a, nil
}

// ApplyAuthority merges file entries into the env-provided lists.
// Verification settings from the file only fill unset values.
func (c *Config) ApplyAuthority(a *Authority) {
	c.OwnerIdentities = mergeUnique(c.OwnerIdentities, a.Owners)
	c.AdminIdentities = mergeUnique(c.AdminIdentities, a.Admins)
	if c.VerificationGuildID == "" {
		c.VerificationGuildID = a.Verification.GuildID
	}
	if len(c.VerificationRoleIDs) == 0 {
		c.VerificationRoleIDs = a.Verification.RoleIDs
	}
}

func mergeUnique(base, extra []string) []string {
	out := slices.Clone(base)
	for _, e := range extra {
		if e != "" && !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}
