package traefik

import "fmt"

// =============================================================================
// Traefik Label Generation Functions
// =============================================================================

// GenerateLabels generates the Docker labels that publish a service through
// Traefik over HTTPS.
//
// The labels are returned as "key=value" strings in a fixed order so the
// rendered compose descriptor is byte-stable:
//   - Enables Traefik for the container
//   - Creates a router with a Host rule on the TLS entry point
//   - Enables TLS with the ACME certificate resolver
//   - Pins the load balancer port when one is given
//
// Example:
//
//	labels := GenerateLabels(LabelParams{Router: "jupyterhub", Hostname: "hub.example.org"})
//	// Returns:
//	// [
//	//   "traefik.enable=true",
//	//   "traefik.http.routers.jupyterhub.rule=Host(`hub.example.org`)",
//	//   "traefik.http.routers.jupyterhub.entrypoints=websecure",
//	//   "traefik.http.routers.jupyterhub.tls=true",
//	//   "traefik.http.routers.jupyterhub.tls.certresolver=letsencrypt",
//	// ]
func GenerateLabels(params LabelParams) []string {
	entryPoint := params.EntryPoint
	if entryPoint == "" {
		entryPoint = DefaultEntryPoint
	}
	resolver := params.CertResolver
	if resolver == "" {
		resolver = DefaultCertResolver
	}

	router := fmt.Sprintf("traefik.http.routers.%s", params.Router)
	labels := []string{
		"traefik.enable=true",
		fmt.Sprintf("%s.rule=Host(`%s`)", router, params.Hostname),
		fmt.Sprintf("%s.entrypoints=%s", router, entryPoint),
		fmt.Sprintf("%s.tls=true", router),
		fmt.Sprintf("%s.tls.certresolver=%s", router, resolver),
	}

	if params.Port > 0 {
		labels = append(labels, fmt.Sprintf("traefik.http.services.%s.loadbalancer.server.port=%d", params.Router, params.Port))
	}

	return labels
}

// ProxyCommand returns the proxy container arguments: Docker provider with
// opt-in exposure, the TLS entry point, and a TLS-ALPN ACME resolver.
func ProxyCommand(params ProxyParams) []string {
	resolver := params.CertResolver
	if resolver == "" {
		resolver = DefaultCertResolver
	}
	storage := params.ACMEStorage
	if storage == "" {
		storage = DefaultACMEStorage
	}

	acme := fmt.Sprintf("--certificatesresolvers.%s.acme", resolver)
	return []string{
		"--providers.docker=true",
		"--providers.docker.exposedbydefault=false",
		fmt.Sprintf("--entrypoints.%s.address=:443", DefaultEntryPoint),
		acme + ".tlschallenge=true",
		fmt.Sprintf("%s.email=%s", acme, params.ACMEEmail),
		fmt.Sprintf("%s.storage=%s", acme, storage),
	}
}
