package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"distpack/pkg/jarname"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// ValidateStrict runs all strict validations against the config and returns
// structured results. projectRoot anchors relative paths.
func (c Config) ValidateStrict(projectRoot string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateIdentity()...)
	results = append(results, c.validatePrograms()...)
	results = append(results, c.validateProjects(projectRoot)...)
	results = append(results, c.validateJars(projectRoot)...)
	results = append(results, c.validateDist(projectRoot)...)
	results = append(results, c.validateScripts(projectRoot)...)
	return results
}

func (c Config) validateIdentity() []ValidationResult {
	var results []ValidationResult
	if strings.TrimSpace(c.Name) == "" {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "name is required",
		})
	}
	if strings.TrimSpace(c.AppVersion) == "" {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "app_version is required",
		})
	}
	if c.Version != 1 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("unknown config version %d (expected 1)", c.Version),
		})
	}
	return results
}

func (c Config) validatePrograms() []ValidationResult {
	var results []ValidationResult

	names := make([]string, 0, len(c.Programs))
	for name := range c.Programs {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]string, len(names))
	for _, name := range names {
		mainClass := c.Programs[name]
		if strings.TrimSpace(mainClass) == "" {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("program %q has no main class", name),
			})
		}
		sanitized := stripWhitespace(name)
		if sanitized == "" {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("program %q has an empty name after removing whitespace", name),
			})
			continue
		}
		if other, ok := seen[sanitized]; ok {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("programs %q and %q collide on launcher name %q", other, name, sanitized),
			})
			continue
		}
		seen[sanitized] = name
	}

	for name := range c.JvmOpts {
		if _, ok := c.Programs[name]; !ok {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("jvm_opts for unknown program %q", name),
			})
		}
	}
	for name := range c.ExtraClasspath {
		if _, ok := c.Programs[name]; !ok {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("extra_classpath for unknown program %q", name),
			})
		}
	}

	return results
}

func (c Config) validateProjects(projectRoot string) []ValidationResult {
	var results []ValidationResult

	if len(c.Projects) == 0 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: "no projects configured; the distribution will contain no project jars",
		})
	}

	known := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		if strings.TrimSpace(p.Name) == "" {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: "project with empty name",
			})
			continue
		}
		if known[p.Name] {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("project %q declared more than once", p.Name),
			})
			continue
		}
		known[p.Name] = true
	}

	for _, p := range c.Projects {
		base := p.BaseDir(projectRoot)
		for _, used := range p.Uses {
			if !known[used] {
				results = append(results, ValidationResult{
					Level:   "error",
					Message: fmt.Sprintf("project %q uses unknown project %q", p.Name, used),
				})
			}
		}
		if p.Report != "" {
			resolved := resolveAgainst(base, p.Report)
			if _, err := os.Stat(resolved); err != nil {
				results = append(results, ValidationResult{
					Level:   "warning",
					Message: fmt.Sprintf("project %q: dependency report %q not found", p.Name, p.Report),
				})
			}
		}
		for _, jar := range p.Jars {
			resolved := resolveAgainst(base, jar)
			if _, err := os.Stat(resolved); err != nil {
				results = append(results, ValidationResult{
					Level:   "warning",
					Message: fmt.Sprintf("project %q: jar %q not found", p.Name, jar),
				})
			}
		}
	}

	if c.Root != "" && !known[c.Root] {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("root references unknown project %q", c.Root),
		})
	}
	for _, excluded := range c.ExcludeProjects {
		if !known[excluded] {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("exclude_projects references unknown project %q", excluded),
			})
		}
	}

	return results
}

func (c Config) validateJars(projectRoot string) []ValidationResult {
	var results []ValidationResult

	if _, err := jarname.ParseConvention(c.Jars.NameConvention); err != nil {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: err.Error(),
		})
	}

	for _, jar := range c.Jars.Unmanaged {
		resolved := resolveAgainst(projectRoot, jar)
		if _, err := os.Stat(resolved); err != nil {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("unmanaged jar %q not found", jar),
			})
		}
	}

	return results
}

func (c Config) validateDist(projectRoot string) []ValidationResult {
	var results []ValidationResult

	for _, extra := range c.Dist.ExtraFiles {
		if strings.TrimSpace(extra.Src) == "" {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: "extra file with empty src",
			})
			continue
		}
		if strings.TrimSpace(extra.Dest) == "" {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("extra file %q has no dest", extra.Src),
			})
			continue
		}
		dest := filepath.ToSlash(filepath.Clean(extra.Dest))
		if filepath.IsAbs(extra.Dest) || dest == ".." || strings.HasPrefix(dest, "../") {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("extra file dest %q escapes the dist directory", extra.Dest),
			})
			continue
		}
		resolved := resolveAgainst(projectRoot, extra.Src)
		if _, err := os.Stat(resolved); err != nil {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("extra file %q not found", extra.Src),
			})
		}
	}

	for _, dir := range c.Dist.ResourceDirs {
		resolved := resolveAgainst(projectRoot, dir)
		if _, err := os.Stat(resolved); err != nil {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("resource directory %q not found", dir),
			})
		}
	}

	return results
}

func (c Config) validateScripts(projectRoot string) []ValidationResult {
	var results []ValidationResult

	overrides := []struct {
		field string
		path  string
	}{
		{"bash_template", c.Scripts.BashTemplate},
		{"bat_template", c.Scripts.BatTemplate},
		{"make_template", c.Scripts.MakeTemplate},
	}
	for _, override := range overrides {
		if override.path == "" {
			continue
		}
		resolved := resolveAgainst(projectRoot, override.path)
		if _, err := os.Stat(resolved); err != nil {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("%s %q not found", override.field, override.path),
			})
		}
	}

	return results
}

func resolveAgainst(projectRoot, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(projectRoot, path)
}

func stripWhitespace(value string) string {
	return strings.Join(strings.Fields(value), "")
}
