package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sppack/sppack/pkg/core"
)

// runConfig is the on-disk configuration for one generation run. Environment
// variables referenced as ${NAME} are expanded before parsing.
type runConfig struct {
	Source struct {
		Fixture string `yaml:"fixture"`
		SiteURL string `yaml:"site_url"`
	} `yaml:"source"`
	List   string `yaml:"list"`
	Target struct {
		SiteURL      string `yaml:"site_url"`
		ListName     string `yaml:"list_name"`
		ListID       string `yaml:"list_id"`
		WebID        string `yaml:"web_id"`
		RootFolderID string `yaml:"root_folder_id"`
	} `yaml:"target"`
	RenameColumns bool     `yaml:"rename_columns"`
	ExcludeFields []string `yaml:"exclude_fields"`
	Workers       int      `yaml:"workers"`
	Output        struct {
		Dir     string `yaml:"dir"`
		Archive string `yaml:"archive"`
	} `yaml:"output"`
}

func loadConfig(path string) (*runConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg runConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.List == "" {
		return nil, fmt.Errorf("config %s: list is required", path)
	}
	if cfg.Source.Fixture == "" {
		return nil, fmt.Errorf("config %s: source.fixture is required", path)
	}
	return &cfg, nil
}

func (c *runConfig) target() core.Target {
	listName := c.Target.ListName
	if listName == "" {
		listName = c.List
	}
	return core.Target{
		SiteURL:      c.Target.SiteURL,
		ListName:     listName,
		ListID:       c.Target.ListID,
		WebID:        c.Target.WebID,
		RootFolderID: c.Target.RootFolderID,
	}
}
