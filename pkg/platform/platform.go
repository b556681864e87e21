// pkg/platform/platform.go
package platform

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Platform names a build target the way the host engine spells it
type Platform string

const (
	Win64      Platform = "Win64"
	Linux      Platform = "Linux"
	LinuxArm64 Platform = "LinuxArm64"
	Mac        Platform = "Mac"
)

// Known contains every platform name the tool recognizes, supported or not
var Known = []Platform{
	Win64,
	Linux,
	LinuxArm64,
	Mac,
}

// String returns the string representation of the platform
func (p Platform) String() string {
	return string(p)
}

// IsKnown checks if the platform is one of Known
func (p Platform) IsKnown() bool {
	for _, k := range Known {
		if p == k {
			return true
		}
	}
	return false
}

// Parse maps user input onto a known platform name, ignoring case.
// Unknown names are returned verbatim so they can be reported.
func Parse(s string) Platform {
	s = strings.TrimSpace(s)
	for _, k := range Known {
		if strings.EqualFold(s, string(k)) {
			return k
		}
	}
	return Platform(s)
}

// Linkage is how a component is consumed by the linker
type Linkage int

const (
	Static Linkage = iota
	Dynamic
)

func (l Linkage) String() string {
	switch l {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("linkage(%d)", int(l))
	}
}

// MarshalText encodes the linkage as its lowercase name
func (l Linkage) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes "static" or "dynamic"
func (l *Linkage) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "static":
		*l = Static
	case "dynamic":
		*l = Dynamic
	default:
		return fmt.Errorf("unknown linkage %q", string(b))
	}
	return nil
}

// ErrUnsupportedPlatform indicates no capabilities are registered for a platform
var ErrUnsupportedPlatform = errors.New("platform not supported")

// UnsupportedError carries the platform that failed lookup
type UnsupportedError struct {
	Platform Platform
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("platform %s is not supported by the AWSSDK module", e.Platform)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupportedPlatform
}

// Capabilities describes how SDK components are linked on one platform
type Capabilities struct {
	LinkExtension    string   // File the linker consumes (import library for dynamic linkage)
	RuntimeExtension string   // Loadable module staged next to the binary; empty for static
	Linkage          Linkage  // Static or Dynamic
	Definitions      []string // Extra preprocessor symbols for this platform
}

// Adding a platform is adding an entry here.
var capabilities = map[Platform]Capabilities{
	Win64: {
		LinkExtension:    ".lib",
		RuntimeExtension: ".dll",
		Linkage:          Dynamic,
		Definitions:      []string{"USE_WINDOWS_DLL_SEMANTICS"},
	},
}

// Lookup returns the capabilities for p or an *UnsupportedError
func Lookup(p Platform) (Capabilities, error) {
	c, ok := capabilities[p]
	if !ok {
		return Capabilities{}, &UnsupportedError{Platform: p}
	}

	defs := make([]string, len(c.Definitions))
	copy(defs, c.Definitions)
	c.Definitions = defs
	return c, nil
}

// IsSupported reports whether Lookup succeeds for p
func IsSupported(p Platform) bool {
	_, ok := capabilities[p]
	return ok
}

// Supported returns the platforms with registered capabilities, sorted by name
func Supported() []Platform {
	out := make([]Platform, 0, len(capabilities))
	for p := range capabilities {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
