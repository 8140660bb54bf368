package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures the packaging configuration for a project.
type Config struct {
	Version         int                 `yaml:"version"`
	Name            string              `yaml:"name"`
	AppVersion      string              `yaml:"app_version"`
	Programs        map[string]string   `yaml:"programs"`
	JvmOpts         map[string][]string `yaml:"jvm_opts"`
	ExtraClasspath  map[string][]string `yaml:"extra_classpath"`
	Root            string              `yaml:"root"`
	ExcludeProjects []string            `yaml:"exclude_projects"`
	Projects        []ProjectConfig     `yaml:"projects"`
	Jars            JarsConfig          `yaml:"jars"`
	Dist            DistConfig          `yaml:"dist"`
	Scripts         ScriptsConfig       `yaml:"scripts"`
	Archive         ArchiveConfig       `yaml:"archive"`
}

// ProjectConfig describes one project in the build graph: where its compiled
// jars and dependency report live, and which sibling projects it uses.
type ProjectConfig struct {
	Name   string   `yaml:"name"`
	Dir    string   `yaml:"dir"`
	Jars   []string `yaml:"jars"`
	Report string   `yaml:"report"`
	Uses   []string `yaml:"uses"`
}

// BaseDir returns the project's directory resolved against the workspace
// root. Jar and report paths are relative to this directory.
func (p ProjectConfig) BaseDir(root string) string {
	if strings.TrimSpace(p.Dir) == "" {
		return root
	}
	if filepath.IsAbs(p.Dir) {
		return filepath.Clean(p.Dir)
	}
	return filepath.Join(root, p.Dir)
}

// JarsConfig controls how dependency jars are selected and named.
type JarsConfig struct {
	NameConvention string   `yaml:"name_convention"`
	Classifiers    []string `yaml:"classifiers"`
	Unmanaged      []string `yaml:"unmanaged"`
}

// DistConfig controls the layout directory and its extra contents.
type DistConfig struct {
	Dir             string            `yaml:"dir"`
	ResourceDirs    []string          `yaml:"resource_dirs"`
	ExtraFiles      []ExtraFileConfig `yaml:"extra_files"`
	WorldExecutable *bool             `yaml:"world_executable,omitempty"`
}

// ExtraFileConfig maps a source file to a destination path under the layout root.
type ExtraFileConfig struct {
	Src  string `yaml:"src"`
	Dest string `yaml:"dest"`
}

// ScriptsConfig controls launch script generation.
type ScriptsConfig struct {
	Windows           *bool  `yaml:"windows,omitempty"`
	ExpandedClasspath bool   `yaml:"expanded_classpath"`
	MacIconFile       string `yaml:"mac_icon_file"`
	BashTemplate      string `yaml:"bash_template"`
	BatTemplate       string `yaml:"bat_template"`
	MakeTemplate      string `yaml:"make_template"`
}

// ArchiveConfig controls archive naming.
type ArchiveConfig struct {
	Prefix string `yaml:"prefix"`
}

// WindowsValue returns the effective Windows-script toggle applying defaults.
func (s ScriptsConfig) WindowsValue() bool {
	if s.Windows == nil {
		return true
	}
	return *s.Windows
}

// WorldExecutableValue returns the effective executable-bit policy applying defaults.
func (d DistConfig) WorldExecutableValue() bool {
	if d.WorldExecutable == nil {
		return true
	}
	return *d.WorldExecutable
}

// ArchivePrefix returns the configured archive prefix, falling back to the
// project name.
func (c Config) ArchivePrefix() string {
	if strings.TrimSpace(c.Archive.Prefix) != "" {
		return c.Archive.Prefix
	}
	return c.Name
}

// ArchiveStem returns the synthetic top-level directory name used inside the
// archive, "{prefix}-{version}".
func (c Config) ArchiveStem() string {
	return c.ArchivePrefix() + "-" + c.AppVersion
}

// RootProject returns the configured root project name, falling back to the
// first declared project.
func (c Config) RootProject() string {
	if strings.TrimSpace(c.Root) != "" {
		return c.Root
	}
	if len(c.Projects) > 0 {
		return c.Projects[0].Name
	}
	return ""
}

// Project returns the project configuration with the given name.
func (c Config) Project(name string) (ProjectConfig, bool) {
	for _, p := range c.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return ProjectConfig{}, false
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Jars: JarsConfig{
			NameConvention: "default",
		},
		Dist: DistConfig{
			Dir:             "dist",
			ResourceDirs:    []string{"src/pack"},
			WorldExecutable: boolPtr(true),
		},
		Scripts: ScriptsConfig{
			Windows:     boolPtr(true),
			MacIconFile: "icon.png",
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures nested fields fall back to sensible defaults when the
// YAML omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Jars.NameConvention == "" {
		c.Jars.NameConvention = defaults.Jars.NameConvention
	}
	if c.Dist.Dir == "" {
		c.Dist.Dir = defaults.Dist.Dir
	}
	if c.Dist.ResourceDirs == nil {
		c.Dist.ResourceDirs = append([]string(nil), defaults.Dist.ResourceDirs...)
	}
	if c.Dist.WorldExecutable == nil {
		c.Dist.WorldExecutable = boolPtr(true)
	}
	if c.Scripts.Windows == nil {
		c.Scripts.Windows = boolPtr(true)
	}
	if c.Scripts.MacIconFile == "" {
		c.Scripts.MacIconFile = defaults.Scripts.MacIconFile
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

func boolPtr(v bool) *bool {
	return &v
}
