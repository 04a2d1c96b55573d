package bolt

import (
	"fmt"
	"net"
)

// ConnParams holds everything needed to open a connection to one Bolt
// endpoint: address, optional TLS domain, protocol version preference, and the
// handshake/authentication metadata. A ConnParams is immutable once built;
// exactly one instance is associated with a Manager for its entire lifetime.
type ConnParams struct {
	address  string
	domain   string
	versions VersionPreference
	metadata Metadata
}

// NewParams builds and validates connection parameters.
//
// address is a host:port pair. domain, when non-empty, switches the connection
// to TLS and is used as the server name to dial. An empty versions preference
// accepts any protocol version the upstream driver supports. The metadata map
// is copied, so the caller's map can be reused or mutated freely afterwards.
func NewParams(address, domain string, versions VersionPreference, metadata Metadata) (*ConnParams, error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid address %q: %v", ErrInvalidMetadata, address, err)
	}
	if host == "" || port == "" {
		return nil, fmt.Errorf("%w: address %q must be a host:port pair", ErrInvalidMetadata, address)
	}

	if err := versions.Validate(); err != nil {
		return nil, err
	}

	md := metadata.Clone()
	if err := md.Validate(); err != nil {
		return nil, err
	}

	return &ConnParams{
		address:  address,
		domain:   domain,
		versions: versions,
		metadata: md,
	}, nil
}

// Address returns the configured host:port.
func (p *ConnParams) Address() string {
	return p.address
}

// Domain returns the TLS server name, or empty for plaintext connections.
func (p *ConnParams) Domain() string {
	return p.domain
}

// Secure reports whether the connection uses TLS.
func (p *ConnParams) Secure() bool {
	return p.domain != ""
}

// Versions returns the protocol version preference.
func (p *ConnParams) Versions() VersionPreference {
	return p.versions
}

// Metadata returns a copy of the handshake metadata.
func (p *ConnParams) Metadata() Metadata {
	return p.metadata.Clone()
}

// URI renders the driver connection URI for these parameters. A non-empty
// domain selects the secure scheme and replaces the host portion of the
// address, matching how TLS server names are verified.
func (p *ConnParams) URI() string {
	if !p.Secure() {
		return fmt.Sprintf("bolt://%s", p.address)
	}
	_, port, err := net.SplitHostPort(p.address)
	if err != nil || port == "" {
		return fmt.Sprintf("bolt+s://%s", p.address)
	}
	return fmt.Sprintf("bolt+s://%s", net.JoinHostPort(p.domain, port))
}

// String renders the parameters for logs with credentials masked.
func (p *ConnParams) String() string {
	return fmt.Sprintf("%s versions=[%s] metadata=%s", p.URI(), p.versions, p.metadata.Redacted())
}
