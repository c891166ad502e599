// Package buildinfo holds build-time metadata injected via -ldflags.
package buildinfo

// Version is the semantic version or tag for this build.
// Inject via: -X github.com/garyellow/kitaku-linebot-go/internal/buildinfo.Version=...
var Version = ""

// Commit is the git commit SHA for this build.
// Inject via: -X github.com/garyellow/kitaku-linebot-go/internal/buildinfo.Commit=...
var Commit = ""

// BuildDate is the RFC3339 build timestamp.
// Inject via: -X github.com/garyellow/kitaku-linebot-go/internal/buildinfo.BuildDate=...
var BuildDate = ""

// Release identifies the build for error tracking. It prefers Version,
// falls back to a short Commit, and is empty for local builds.
func Release() string {
	if Version != "" {
		return Version
	}
	if len(Commit) > 12 {
		return Commit[:12]
	}
	return Commit
}
