package launch

import (
	"strings"
)

// SanitizeProgramName removes all whitespace from a program name so it can be
// used as a launcher file name.
func SanitizeProgramName(name string) string {
	return strings.Join(strings.Fields(name), "")
}

// UnixClasspath joins lib jar names into an explicit classpath rooted at the
// ${PROG_HOME}/lib placeholder.
func UnixClasspath(libJars []string) string {
	if len(libJars) == 0 {
		return ""
	}
	parts := make([]string, len(libJars))
	for i, jar := range libJars {
		parts[i] = "${PROG_HOME}/lib/" + jar
	}
	return strings.Join(parts, ":")
}

// WindowsClasspath rewrites a Unix classpath string for batch scripts: the
// path separator, the home placeholder, and the slashes all switch to their
// Windows forms.
func WindowsClasspath(classpath string) string {
	s := strings.ReplaceAll(classpath, ":", ";")
	s = strings.ReplaceAll(s, "${PROG_HOME}", "%PROG_HOME%")
	return strings.ReplaceAll(s, "/", `\`)
}

func quoteJoin(opts []string) string {
	if len(opts) == 0 {
		return ""
	}
	quoted := make([]string, len(opts))
	for i, opt := range opts {
		quoted[i] = `"` + opt + `"`
	}
	return strings.Join(quoted, " ")
}
