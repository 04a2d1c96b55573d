package bolt

import "fmt"

// Version identifies a Bolt protocol version as a major.minor pair.
type Version struct {
	Major int
	Minor int
}

// Well-known Bolt protocol versions. The handshake itself belongs to the
// upstream driver; these exist so callers can express a preference and so the
// adapter can reject servers that negotiate something unacceptable.
var (
	V3_0 = Version{3, 0}
	V4_0 = Version{4, 0}
	V4_1 = Version{4, 1}
	V4_2 = Version{4, 2}
	V4_3 = Version{4, 3}
	V4_4 = Version{4, 4}
	V5_0 = Version{5, 0}
	V5_1 = Version{5, 1}
	V5_2 = Version{5, 2}
	V5_3 = Version{5, 3}
	V5_4 = Version{5, 4}
	V5_5 = Version{5, 5}
	V5_6 = Version{5, 6}
	V5_7 = Version{5, 7}
	V5_8 = Version{5, 8}
)

// supportedVersions are the protocol versions the upstream driver is able to
// negotiate. Preference lists are checked against this set at construction so
// a manager that could never connect fails fast instead of on first use.
var supportedVersions = map[Version]bool{
	V4_3: true,
	V4_4: true,
	V5_0: true,
	V5_1: true,
	V5_2: true,
	V5_3: true,
	V5_4: true,
	V5_5: true,
	V5_6: true,
	V5_7: true,
	V5_8: true,
}

// IsZero reports whether v is the empty slot value.
func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0
}

// Supported reports whether the upstream driver can negotiate v.
func (v Version) Supported() bool {
	return supportedVersions[v]
}

// String renders the version in the major.minor form used by Bolt.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// VersionPreference holds up to four acceptable protocol versions in
// preference order, mirroring the four proposal slots of the Bolt handshake.
// Zero entries are ignored. The empty preference means no preference: any
// version the upstream driver can negotiate is acceptable.
type VersionPreference [4]Version

// IsEmpty reports whether the preference contains no versions at all.
func (p VersionPreference) IsEmpty() bool {
	for _, v := range p {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// Accepts reports whether the negotiated version satisfies the preference. An
// empty preference accepts every driver-supported version.
func (p VersionPreference) Accepts(v Version) bool {
	if p.IsEmpty() {
		return v.Supported()
	}
	for _, pref := range p {
		if !pref.IsZero() && pref == v {
			return true
		}
	}
	return false
}

// Validate checks that the preference names at least one version the upstream
// driver can actually negotiate. The empty preference is always valid.
func (p VersionPreference) Validate() error {
	if p.IsEmpty() {
		return nil
	}
	for _, v := range p {
		if !v.IsZero() && v.Supported() {
			return nil
		}
	}
	return fmt.Errorf("%w: no preferred version is supported by the client (%s)", ErrVersionNegotiation, p)
}

// String renders the preference as a list, skipping empty slots.
func (p VersionPreference) String() string {
	s := ""
	for _, v := range p {
		if v.IsZero() {
			continue
		}
		if s != "" {
			s += ", "
		}
		s += v.String()
	}
	if s == "" {
		return "(any supported)"
	}
	return s
}
