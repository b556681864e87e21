// pkg/platform/detect.go
package platform

import (
	"runtime"
)

// Detect returns the platform matching the running host
func Detect() Platform {
	return FromGo(runtime.GOOS, runtime.GOARCH)
}

// FromGo maps a GOOS/GOARCH pair to a platform name
func FromGo(goos, goarch string) Platform {
	switch goos {
	case "windows":
		if goarch == "amd64" {
			return Win64
		}
	case "linux":
		switch goarch {
		case "amd64":
			return Linux
		case "arm64":
			return LinuxArm64
		}
	case "darwin":
		return Mac
	}
	return Platform(goos + "_" + goarch)
}
