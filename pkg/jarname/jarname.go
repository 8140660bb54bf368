// Package jarname decides how resolved dependency jars are named inside the
// distribution's lib directory.
package jarname

import (
	"fmt"
	"strings"
)

// Convention selects the file-name scheme applied to resolved dependency jars.
type Convention string

const (
	// ConventionDefault renames jars to name-revision[-classifier].jar.
	ConventionDefault Convention = "default"
	// ConventionOriginal keeps the resolved artifact's own file name.
	ConventionOriginal Convention = "original"
	// ConventionFull renames jars to organization.name-revision[-classifier].jar.
	ConventionFull Convention = "full"
	// ConventionNoVersion renames jars to organization.name[-classifier].jar.
	ConventionNoVersion Convention = "no-version"
)

// ParseConvention maps a configuration string onto a Convention.
func ParseConvention(value string) (Convention, error) {
	switch Convention(strings.TrimSpace(value)) {
	case ConventionDefault, "":
		return ConventionDefault, nil
	case ConventionOriginal:
		return ConventionOriginal, nil
	case ConventionFull:
		return ConventionFull, nil
	case ConventionNoVersion:
		return ConventionNoVersion, nil
	}
	return "", fmt.Errorf("unknown jar name convention %q", value)
}

// Identity names one resolved module artifact.
type Identity struct {
	Organization string
	Name         string
	Revision     string
	Classifier   string
	// OriginalFile is the base name of the artifact as the resolver produced it.
	OriginalFile string
}

// Key is the comparable portion of an Identity. Two artifacts with equal keys
// occupy the same slot in a resolved set regardless of their source files.
type Key struct {
	Organization string
	Name         string
	Revision     string
	Classifier   string
}

// Key returns the identity's comparable key.
func (id Identity) Key() Key {
	return Key{
		Organization: id.Organization,
		Name:         id.Name,
		Revision:     id.Revision,
		Classifier:   id.Classifier,
	}
}

// FileName returns the packaged jar name for the identity under the given
// convention.
func (id Identity) FileName(convention Convention) string {
	switch convention {
	case ConventionOriginal:
		if id.OriginalFile != "" {
			return id.OriginalFile
		}
		return id.defaultName()
	case ConventionFull:
		return suffixed(id.Organization+"."+id.Name+"-"+id.Revision, id.Classifier)
	case ConventionNoVersion:
		return suffixed(id.Organization+"."+id.Name, id.Classifier)
	default:
		return id.defaultName()
	}
}

func (id Identity) defaultName() string {
	return suffixed(id.Name+"-"+id.Revision, id.Classifier)
}

func suffixed(stem, classifier string) string {
	if classifier != "" {
		return stem + "-" + classifier + ".jar"
	}
	return stem + ".jar"
}

// Less orders identities by organization, name, revision, then classifier.
// An absent classifier sorts before any present one.
func (id Identity) Less(other Identity) bool {
	if id.Organization != other.Organization {
		return id.Organization < other.Organization
	}
	if id.Name != other.Name {
		return id.Name < other.Name
	}
	if id.Revision != other.Revision {
		return id.Revision < other.Revision
	}
	return id.Classifier < other.Classifier
}

// String renders the identity in organization:name:revision[:classifier] form.
func (id Identity) String() string {
	s := id.Organization + ":" + id.Name + ":" + id.Revision
	if id.Classifier != "" {
		s += ":" + id.Classifier
	}
	return s
}
