package traefik

// =============================================================================
// Traefik Types
// =============================================================================

// Defaults shared by the hub router and the proxy command line.
const (
	DefaultEntryPoint   = "websecure"
	DefaultCertResolver = "letsencrypt"
	DefaultACMEStorage  = "/certs/acme.json"
)

// LabelParams contains parameters for generating router labels.
type LabelParams struct {
	// Router is the router and service name (e.g., "jupyterhub").
	Router string

	// Hostname is the public host name (e.g., "hub.example.org").
	Hostname string

	// Port is the container port to route to. 0 lets Traefik pick the
	// exposed port.
	Port int

	// EntryPoint defaults to DefaultEntryPoint.
	EntryPoint string

	// CertResolver defaults to DefaultCertResolver.
	CertResolver string
}

// ProxyParams contains parameters for the proxy container command line.
type ProxyParams struct {
	// ACMEEmail is the contact address registered with Let's Encrypt.
	ACMEEmail string

	// ACMEStorage is the certificate store path inside the proxy container.
	ACMEStorage string

	// CertResolver defaults to DefaultCertResolver.
	CertResolver string
}
