package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/kbukum/restkit/version.Version=v1.2.0"
var (
	Version   = "dev"
	GitCommit = ""
)

// DefaultProduct names the library in the default User-Agent.
const DefaultProduct = "restkit"

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
	GoVersion string `json:"go_version"`
}

var readBuildInfo = sync.OnceValue(func() *debug.BuildInfo {
	bi, _ := debug.ReadBuildInfo()
	return bi
})

// Get returns the build information. ldflags values win over the VCS stamp
// the Go toolchain embeds.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit, GoVersion: runtime.Version()}
	bi := readBuildInfo()
	if bi == nil {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// Short renders version[-commit][-dirty].
func (i Info) Short() string {
	s := i.Version
	if i.GitCommit != "" {
		s += "-" + i.GitCommit
	}
	if i.Dirty {
		s += "-dirty"
	}
	return s
}

// UserAgent builds "<product>/<short version> (<goos>; <goversion>)". An
// empty product falls back to DefaultProduct.
func UserAgent(product string) string {
	if product == "" {
		product = DefaultProduct
	}
	info := Get()
	return fmt.Sprintf("%s/%s (%s; %s)", product, info.Short(), runtime.GOOS, info.GoVersion)
}
