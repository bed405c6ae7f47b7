package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the config file name inside the .git directory
const FileName = ".vbranch_config"

// RepoConfig represents the repository configuration
type RepoConfig struct {
	DefaultBranch *string `json:"defaultBranch,omitempty"`
	AutoAssign    *bool   `json:"autoAssign,omitempty"`
}

func configPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", FileName)
}

// GetRepoConfig reads the repository configuration. A missing file yields
// an empty config.
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	data, err := os.ReadFile(configPath(repoRoot))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &RepoConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read repo config: %w", err)
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}
	return &config, nil
}

// Save writes the configuration to the repository
func (c *RepoConfig) Save(repoRoot string) error {
	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(configPath(repoRoot), configJSON, 0600)
}

// IsInitialized checks if vb has been initialized
func IsInitialized(repoRoot string) bool {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return false
	}
	return config.DefaultBranch != nil && *config.DefaultBranch != ""
}

// GetDefaultBranch returns the id of the default virtual branch, or "" when unset
func GetDefaultBranch(repoRoot string) (string, error) {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return "", err
	}
	if config.DefaultBranch == nil {
		return "", nil
	}
	return *config.DefaultBranch, nil
}

// SetDefaultBranch updates the default virtual branch
func SetDefaultBranch(repoRoot string, branchID string) error {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}
	config.DefaultBranch = &branchID
	return config.Save(repoRoot)
}

// GetAutoAssign reports whether unowned hunks are assigned on status.
// Defaults to true.
func GetAutoAssign(repoRoot string) (bool, error) {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return false, err
	}
	if config.AutoAssign == nil {
		return true, nil
	}
	return *config.AutoAssign, nil
}

// SetAutoAssign updates the auto-assign setting
func SetAutoAssign(repoRoot string, enabled bool) error {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}
	config.AutoAssign = &enabled
	return config.Save(repoRoot)
}
