package depreport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RuntimeConfiguration is the configuration name whose modules end up in the
// packaged distribution.
const RuntimeConfiguration = "runtime"

// Report is the dependency resolution output the build tool writes for one
// project.
type Report struct {
	Project        string          `json:"project"`
	Configurations []Configuration `json:"configurations"`
}

// Configuration groups the modules resolved for one dependency scope.
type Configuration struct {
	Name    string   `json:"name"`
	Modules []Module `json:"modules"`
}

// Module identifies one resolved dependency module.
type Module struct {
	Organization string     `json:"organization"`
	Name         string     `json:"name"`
	Revision     string     `json:"revision"`
	Artifacts    []Artifact `json:"artifacts"`
}

// Artifact is one file belonging to a resolved module.
type Artifact struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	Classifier string `json:"classifier,omitempty"`
	File       string `json:"file"`
}

// ID renders the module coordinate as organization:name:revision.
func (m Module) ID() string {
	return m.Organization + ":" + m.Name + ":" + m.Revision
}

// Configuration returns the first configuration with the given name.
func (r Report) Configuration(name string) (Configuration, bool) {
	for _, cfg := range r.Configurations {
		if cfg.Name == name {
			return cfg, true
		}
	}
	return Configuration{}, false
}

// Load reads a dependency report file, validates its contents, and resolves
// relative artifact paths against the report's directory. When validation
// issues are found, the returned error will be of type ValidationErrors and
// the report is still returned to allow callers to continue working with it.
func Load(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("read report: %w", err)
	}

	if len(data) == 0 {
		return Report{}, errors.New("report file is empty")
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return Report{}, fmt.Errorf("parse report: %w", err)
	}

	base := filepath.Dir(path)
	var errs ValidationErrors

	for ci := range report.Configurations {
		cfg := &report.Configurations[ci]
		if strings.TrimSpace(cfg.Name) == "" {
			errs = append(errs, ValidationError{Field: "name", Message: "configuration name is required"})
			continue
		}
		for mi := range cfg.Modules {
			mod := &cfg.Modules[mi]
			errs = append(errs, validateModule(mod, base)...)
		}
	}

	if len(errs) > 0 {
		return report, errs
	}
	return report, nil
}

func validateModule(mod *Module, base string) []ValidationError {
	var errs []ValidationError

	require := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, ValidationError{
				Module:  mod.ID(),
				Field:   field,
				Message: field + " is required",
			})
		}
	}

	require("organization", mod.Organization)
	require("name", mod.Name)
	require("revision", mod.Revision)

	for ai := range mod.Artifacts {
		artifact := &mod.Artifacts[ai]
		if strings.TrimSpace(artifact.File) == "" {
			errs = append(errs, ValidationError{
				Module:  mod.ID(),
				Field:   "file",
				Message: "artifact file is required",
			})
			continue
		}
		if !filepath.IsAbs(artifact.File) {
			artifact.File = filepath.Join(base, artifact.File)
		}
	}

	return errs
}
