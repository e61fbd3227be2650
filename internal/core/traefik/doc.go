// Package traefik provides pure functions for configuring the Traefik reverse
// proxy that fronts the hub.
//
// All functions are pure (no I/O, no side effects).
//
// # Functions
//
//   - GenerateLabels: Router labels that publish a service over HTTPS
//   - ProxyCommand: Proxy container arguments (Docker provider, ACME resolver)
//
// # Usage
//
// The compose renderer attaches the labels to the hub service and the
// command to the proxy service:
//
//	hub.Labels = traefik.GenerateLabels(traefik.LabelParams{
//	    Router:   "jupyterhub",
//	    Hostname: inputs.Domain,
//	})
//	proxy.Command = traefik.ProxyCommand(traefik.ProxyParams{ACMEEmail: inputs.ACMEEmail})
package traefik
