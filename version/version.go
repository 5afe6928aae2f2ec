// version/version.go

// Package version identifies the library to Jamf Pro and in log output.
package version

import (
	"fmt"
	"runtime"
)

// AppName is reported in the User-Agent header and the logger's initial fields.
var AppName = "go-jamfpi"

// Version is overridden at build time with -ldflags "-X .../version.Version=...".
var Version = "0.1.0"

func GetAppName() string {
	return AppName
}

func GetVersion() string {
	return Version
}

// GetUserAgentHeader returns the User-Agent sent with every request, for example
// "go-jamfpi/0.1.0 (go1.24.0; linux/amd64)".
func GetUserAgentHeader() string {
	return fmt.Sprintf("%s/%s (%s; %s/%s)", AppName, Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
