package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	if i.Version != "dev" {
		return fmt.Sprintf("qmin %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
	}
	return fmt.Sprintf("qmin dev (commit %s, built %s)", i.CommitHash, i.BuildTime)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// NewerThan reports whether other is a semantic version strictly newer
// than the running tool. Artifact headers record the generator that
// wrote them; check mode warns before declaring a newer generator's
// output stale. Dev builds and unparseable versions are never newer.
func NewerThan(other string) bool {
	ours, err := semver.NewVersion(Version)
	if err != nil {
		return false
	}
	theirs, err := semver.NewVersion(other)
	if err != nil {
		return false
	}
	return theirs.GreaterThan(ours)
}

// Satisfies checks whether the running tool satisfies a semver
// constraint such as ">= 0.3.0". Manifests pin the generator version
// they were written against; a dev build satisfies every constraint so
// local builds keep working against pinned manifests.
func Satisfies(expr string) error {
	if expr == "" || Version == "dev" {
		return nil
	}

	ver, err := semver.NewVersion(Version)
	if err != nil {
		return fmt.Errorf("invalid tool version %s: %w", Version, err)
	}

	constraint, err := semver.NewConstraint(expr)
	if err != nil {
		return fmt.Errorf("invalid version constraint %s: %w", expr, err)
	}

	if !constraint.Check(ver) {
		return fmt.Errorf("manifest requires qmin %s, but running %s", expr, Version)
	}

	return nil
}
