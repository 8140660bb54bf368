package project

import (
	"fmt"
	"path/filepath"

	"distpack/internal/config"
)

// Graph resolves which projects participate in a packaging run.
type Graph struct {
	byName   map[string]config.ProjectConfig
	excluded map[string]bool
}

// NewGraph indexes the configured projects and exclusions.
func NewGraph(cfg config.Config) *Graph {
	byName := make(map[string]config.ProjectConfig, len(cfg.Projects))
	for _, p := range cfg.Projects {
		byName[p.Name] = p
	}
	excluded := make(map[string]bool, len(cfg.ExcludeProjects))
	for _, name := range cfg.ExcludeProjects {
		excluded[name] = true
	}
	return &Graph{byName: byName, excluded: excluded}
}

// Reachable returns every project reachable from root via the uses relation,
// in depth-first preorder, deduplicated. Excluded projects are traversed but
// dropped from the result, so their own dependencies stay reachable.
func (g *Graph) Reachable(root string) ([]config.ProjectConfig, error) {
	start, ok := g.byName[root]
	if !ok {
		return nil, fmt.Errorf("unknown root project %q", root)
	}

	seen := make(map[string]bool, len(g.byName))
	var order []config.ProjectConfig

	var visit func(p config.ProjectConfig) error
	visit = func(p config.ProjectConfig) error {
		if seen[p.Name] {
			return nil
		}
		seen[p.Name] = true
		if !g.excluded[p.Name] {
			order = append(order, p)
		}
		for _, used := range p.Uses {
			next, ok := g.byName[used]
			if !ok {
				return fmt.Errorf("project %q uses unknown project %q", p.Name, used)
			}
			if err := visit(next); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(start); err != nil {
		return nil, err
	}
	return order, nil
}

// ProjectJars resolves every project jar path against its project directory,
// preserving project order.
func ProjectJars(root string, projects []config.ProjectConfig) []string {
	var jars []string
	for _, p := range projects {
		base := p.BaseDir(root)
		for _, jar := range p.Jars {
			if filepath.IsAbs(jar) {
				jars = append(jars, filepath.Clean(jar))
				continue
			}
			jars = append(jars, filepath.Join(base, jar))
		}
	}
	return jars
}
