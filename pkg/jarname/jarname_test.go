package jarname

import (
	"sort"
	"testing"
)

func TestParseConvention(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    Convention
		wantErr bool
	}{
		{"default", "default", ConventionDefault, false},
		{"original", "original", ConventionOriginal, false},
		{"full", "full", ConventionFull, false},
		{"no-version", "no-version", ConventionNoVersion, false},
		{"empty means default", "", ConventionDefault, false},
		{"surrounding whitespace", "  full  ", ConventionFull, false},
		{"unknown value", "latest", "", true},
		{"case sensitive", "Default", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConvention(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseConvention(%q) expected error, got %q", tt.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseConvention(%q) returned error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ParseConvention(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	plain := Identity{
		Organization: "org.xerial.snappy",
		Name:         "snappy-java",
		Revision:     "1.1.10.5",
		OriginalFile: "snappy-java-1.1.10.5.jar",
	}
	classified := Identity{
		Organization: "io.netty",
		Name:         "netty-transport-native-epoll",
		Revision:     "4.1.100.Final",
		Classifier:   "linux-x86_64",
		OriginalFile: "netty-transport-native-epoll-4.1.100.Final-linux-x86_64.jar",
	}

	tests := []struct {
		name       string
		id         Identity
		convention Convention
		want       string
	}{
		{"default", plain, ConventionDefault, "snappy-java-1.1.10.5.jar"},
		{"default with classifier", classified, ConventionDefault, "netty-transport-native-epoll-4.1.100.Final-linux-x86_64.jar"},
		{"original", plain, ConventionOriginal, "snappy-java-1.1.10.5.jar"},
		{"full", plain, ConventionFull, "org.xerial.snappy.snappy-java-1.1.10.5.jar"},
		{"full with classifier", classified, ConventionFull, "io.netty.netty-transport-native-epoll-4.1.100.Final-linux-x86_64.jar"},
		{"no-version", plain, ConventionNoVersion, "org.xerial.snappy.snappy-java.jar"},
		{"no-version with classifier", classified, ConventionNoVersion, "io.netty.netty-transport-native-epoll-linux-x86_64.jar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.id.FileName(tt.convention)
			if got != tt.want {
				t.Errorf("FileName(%q) = %q, want %q", tt.convention, got, tt.want)
			}
		})
	}
}

func TestFileNameOriginalFallsBackWhenUnset(t *testing.T) {
	id := Identity{Organization: "com.example", Name: "lib", Revision: "2.0"}
	got := id.FileName(ConventionOriginal)
	if got != "lib-2.0.jar" {
		t.Errorf("FileName(original) = %q, want %q", got, "lib-2.0.jar")
	}
}

func TestLessOrdering(t *testing.T) {
	ids := []Identity{
		{Organization: "org.b", Name: "lib", Revision: "1.0"},
		{Organization: "org.a", Name: "lib", Revision: "2.0"},
		{Organization: "org.a", Name: "lib", Revision: "1.0", Classifier: "sources"},
		{Organization: "org.a", Name: "lib", Revision: "1.0"},
		{Organization: "org.a", Name: "alpha", Revision: "9.9"},
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })

	want := []string{
		"org.a:alpha:9.9",
		"org.a:lib:1.0",
		"org.a:lib:1.0:sources",
		"org.a:lib:2.0",
		"org.b:lib:1.0",
	}
	for i, id := range ids {
		if id.String() != want[i] {
			t.Errorf("position %d = %q, want %q", i, id.String(), want[i])
		}
	}
}

func TestKeyIgnoresOriginalFile(t *testing.T) {
	a := Identity{Organization: "org.a", Name: "lib", Revision: "1.0", OriginalFile: "lib-1.0.jar"}
	b := Identity{Organization: "org.a", Name: "lib", Revision: "1.0", OriginalFile: "lib-1.0-rebuilt.jar"}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %v vs %v", a.Key(), b.Key())
	}

	c := Identity{Organization: "org.a", Name: "lib", Revision: "1.0", Classifier: "sources"}
	if a.Key() == c.Key() {
		t.Error("classifier should distinguish keys")
	}
}
