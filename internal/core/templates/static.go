package templates

import (
	"embed"
	"path"
)

//go:embed files
var files embed.FS

// StaticFile is a template-fixed file and its path relative to the
// deployment directory.
type StaticFile struct {
	Path    string
	Content []byte
}

// RoleFiles returns the build descriptors and dependency manifests for the
// hub and user roles. Their content never depends on the inputs.
func RoleFiles() []StaticFile {
	return []StaticFile{
		{Path: "hub/jupyterhub_config.py", Content: mustRead("files/jupyterhub_config.py")},
		{Path: "hub/Dockerfile", Content: mustRead("files/hub.Dockerfile")},
		{Path: "user/Dockerfile", Content: mustRead("files/user.Dockerfile")},
		{Path: "user/requirements.txt", Content: mustRead("files/requirements.txt")},
	}
}

// BundleFiles returns the starter notebook bundle. Paths are relative to the
// shared notebooks directory.
func BundleFiles() []StaticFile {
	return []StaticFile{
		{Path: "README.txt", Content: mustRead("files/bundle/README.txt")},
		{Path: "mosaic_quickstart.ipynb", Content: mustRead("files/bundle/mosaic_quickstart.ipynb")},
	}
}

// CertStorePlaceholder is the initial content of the ACME certificate store.
func CertStorePlaceholder() []byte {
	return []byte("{}")
}

// CertStorePath is the certificate store location relative to the
// deployment directory.
const CertStorePath = "traefik/acme.json"

func mustRead(name string) []byte {
	data, err := files.ReadFile(path.Clean(name))
	if err != nil {
		panic("templates: missing embedded file " + name)
	}
	return data
}
