package bolt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Well-known metadata keys exchanged during the Bolt handshake.
const (
	MetaUserAgent   = "user_agent"
	MetaScheme      = "scheme"
	MetaPrincipal   = "principal"
	MetaCredentials = "credentials"
	MetaRealm       = "realm"
)

// Authentication schemes understood by the adapter.
const (
	SchemeBasic    = "basic"
	SchemeBearer   = "bearer"
	SchemeKerberos = "kerberos"
	SchemeNone     = "none"
	SchemeCustom   = "custom"
)

// DefaultUserAgent identifies the adapter when the caller does not provide a
// user_agent of its own.
const DefaultUserAgent = "boltpool/1.0"

// Metadata is the string-keyed handshake/authentication mapping handed to the
// server when a connection is established: user agent, auth scheme, principal,
// credentials, and any scheme-specific extras.
type Metadata map[string]string

// Clone returns a copy so the adapter's stored metadata stays immutable.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return Metadata{}
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// UserAgent returns the configured user agent, or the library default.
func (m Metadata) UserAgent() string {
	if ua := m[MetaUserAgent]; ua != "" {
		return ua
	}
	return DefaultUserAgent
}

// Validate checks that the metadata names a usable authentication scheme and
// carries the fields that scheme requires.
func (m Metadata) Validate() error {
	scheme := m[MetaScheme]
	switch scheme {
	case SchemeBasic:
		if m[MetaPrincipal] == "" {
			return fmt.Errorf("%w: scheme %q requires a principal", ErrInvalidMetadata, scheme)
		}
	case SchemeBearer, SchemeKerberos:
		if m[MetaCredentials] == "" {
			return fmt.Errorf("%w: scheme %q requires credentials", ErrInvalidMetadata, scheme)
		}
	case SchemeNone:
	case SchemeCustom:
		if m[MetaPrincipal] == "" {
			return fmt.Errorf("%w: scheme %q requires a principal", ErrInvalidMetadata, scheme)
		}
	case "":
		return fmt.Errorf("%w: missing %q key", ErrInvalidMetadata, MetaScheme)
	default:
		return fmt.Errorf("%w: unknown auth scheme %q", ErrInvalidMetadata, scheme)
	}
	return nil
}

// AuthToken translates the metadata mapping into the upstream driver's
// authentication token.
func (m Metadata) AuthToken() (neo4j.AuthToken, error) {
	if err := m.Validate(); err != nil {
		return neo4j.AuthToken{}, err
	}

	switch m[MetaScheme] {
	case SchemeBasic:
		return neo4j.BasicAuth(m[MetaPrincipal], m[MetaCredentials], m[MetaRealm]), nil
	case SchemeBearer:
		return neo4j.BearerAuth(m[MetaCredentials]), nil
	case SchemeKerberos:
		return neo4j.KerberosAuth(m[MetaCredentials]), nil
	case SchemeNone:
		return neo4j.NoAuth(), nil
	default: // custom
		return neo4j.CustomAuth(m[MetaScheme], m[MetaPrincipal], m[MetaCredentials], m[MetaRealm], m.extraParameters()), nil
	}
}

// extraParameters collects keys that are not part of the standard set, for
// custom auth schemes that take additional fields.
func (m Metadata) extraParameters() map[string]any {
	extras := make(map[string]any)
	for k, v := range m {
		switch k {
		case MetaUserAgent, MetaScheme, MetaPrincipal, MetaCredentials, MetaRealm:
		default:
			extras[k] = v
		}
	}
	if len(extras) == 0 {
		return nil
	}
	return extras
}

// Redacted renders the metadata for logs with credentials masked.
func (m Metadata) Redacted() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		v := m[k]
		if k == MetaCredentials {
			v = "******"
		}
		fmt.Fprintf(&b, "%s=%s", k, v)
	}
	b.WriteString("}")
	return b.String()
}
