package capability

import (
	"errors"
	"fmt"
	"strings"
)

// SpecVersion identifies a revision of the Morello capability encoding.
type SpecVersion uint8

// Encoding versions, in historical order.
const (
	Alpha1                SpecVersion = iota // morello-alpha1
	Beta0                                    // morello-beta0
	Beta0Update                              // morello-beta0-arran-596
	Beta0FixedConcentrate                    // morello-beta0-fixed-cheri-concentrate
	Beta1                                    // morello-beta1
	Beta1Arran822                            // morello-beta1-arran-822

	numSpecVersions
)

// DefaultSpecVersion is the version used when none is given.
const DefaultSpecVersion = Beta1Arran822

var specVersionNames = [numSpecVersions]string{
	Alpha1:                "morello-alpha1",
	Beta0:                 "morello-beta0",
	Beta0Update:           "morello-beta0-arran-596",
	Beta0FixedConcentrate: "morello-beta0-fixed-cheri-concentrate",
	Beta1:                 "morello-beta1",
	Beta1Arran822:         "morello-beta1-arran-822",
}

// ErrUnsupportedVersion is matched by every UnsupportedVersionError.
var ErrUnsupportedVersion = errors.New("unsupported specification version")

// UnsupportedVersionError reports a version outside the known set.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("%s: %s (valid versions: %s)",
		ErrUnsupportedVersion, e.Version, strings.Join(SpecVersionNames(), ", "))
}

// Is matches ErrUnsupportedVersion.
func (e *UnsupportedVersionError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}

// SpecVersions returns every known version in historical order.
func SpecVersions() []SpecVersion {
	versions := make([]SpecVersion, 0, numSpecVersions)
	for v := Alpha1; v < numSpecVersions; v++ {
		versions = append(versions, v)
	}
	return versions
}

// SpecVersionNames returns the identifiers of every known version in
// historical order.
func SpecVersionNames() []string {
	return append([]string(nil), specVersionNames[:]...)
}

// Valid reports whether v is a known version.
func (v SpecVersion) Valid() bool {
	return v < numSpecVersions
}

// String returns the version identifier, e.g. "morello-beta1".
func (v SpecVersion) String() string {
	if !v.Valid() {
		return fmt.Sprintf("SpecVersion(%d)", uint8(v))
	}
	return specVersionNames[v]
}

// ParseSpecVersion looks up a version by identifier.
func ParseSpecVersion(name string) (SpecVersion, error) {
	for v, n := range specVersionNames {
		if n == name {
			return SpecVersion(v), nil
		}
	}
	return 0, &UnsupportedVersionError{Version: name}
}

// versionSpec binds a version to its field layout and bounds codec.
type versionSpec struct {
	layout []Field
	bounds boundsCodec
}

func (v SpecVersion) spec() (*versionSpec, error) {
	switch v {
	case Alpha1:
		return &versionSpec{layout: alpha1Layout, bounds: alpha1Bounds}, nil
	case Beta0:
		// Only the permission bit order changed; bounds decode as alpha1.
		return &versionSpec{layout: beta0Layout, bounds: alpha1Bounds}, nil
	case Beta0Update:
		return &versionSpec{layout: beta0UpdateLayout, bounds: beta0UpdateBounds}, nil
	case Beta0FixedConcentrate:
		return &versionSpec{layout: beta0UpdateLayout, bounds: beta0FixedBounds}, nil
	case Beta1:
		return &versionSpec{layout: beta0UpdateLayout, bounds: beta1Bounds}, nil
	case Beta1Arran822:
		return &versionSpec{layout: beta0UpdateLayout, bounds: arran822Bounds}, nil
	default:
		return nil, &UnsupportedVersionError{Version: v.String()}
	}
}

// Layout returns a copy of the field layout of v.
func (v SpecVersion) Layout() ([]Field, error) {
	spec, err := v.spec()
	if err != nil {
		return nil, err
	}
	return cloneLayout(spec.layout), nil
}
