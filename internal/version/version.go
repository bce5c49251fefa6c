package version

// Version is the toolkit release, overridden at build time with
// -ldflags "-X github.com/nicetoolkit/nicetoolkit/internal/version.Version=2025.01.1".
// Version 是工具集版本号，构建时通过 -ldflags 覆盖。
var Version = "dev"
