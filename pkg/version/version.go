// Package version holds build-time version info injected via ldflags.
//
// Set at compile time:
//
//	go build -ldflags "-X github.com/LunovVladyslav/ws-tutorial/pkg/version.tag=v1.0.0
//	  -X github.com/LunovVladyslav/ws-tutorial/pkg/version.commit=abc1234
//	  -X github.com/LunovVladyslav/ws-tutorial/pkg/version.date=2026-01-01"
package version

// Populated by -ldflags "-X ...". Defaults are used for local dev builds.
var (
	tag    = ""        // git tag (e.g. "v0.2.0"), empty if not on a tag
	commit = "unknown" // short git commit SHA
	date   = "unknown" // build date (ISO 8601)
)

// String returns a human-readable version string.
//
//	Tagged:   "v0.2.0"
//	Untagged: "abc1234"
//	Dev:      "dev"
func String() string {
	if tag != "" {
		return tag
	}
	if commit != "unknown" {
		return commit
	}
	return "dev"
}

// Full returns "tag (commit) built date" or a sensible fallback.
func Full() string {
	if tag != "" {
		return tag + " (" + commit + ") built " + date
	}
	if commit != "unknown" {
		return commit + " built " + date
	}
	return "dev"
}

// Info is the build metadata in a form adminctl can print as YAML.
type Info struct {
	Version string `yaml:"version"`
	Tag     string `yaml:"tag,omitempty"`
	Commit  string `yaml:"commit"`
	Date    string `yaml:"date"`
}

// Get returns the build metadata.
func Get() Info {
	return Info{Version: String(), Tag: tag, Commit: commit, Date: date}
}

// UserAgent returns the User-Agent the REST client sends.
func UserAgent(app string) string {
	return app + "/" + String()
}

// Tag returns the git tag, or empty string.
func Tag() string { return tag }

// Commit returns the short commit SHA.
func Commit() string { return commit }

// Date returns the build date.
func Date() string { return date }
