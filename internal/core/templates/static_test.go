package templates

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleFiles(t *testing.T) {
	roleFiles := RoleFiles()
	require.Len(t, roleFiles, 4)

	paths := make([]string, 0, len(roleFiles))
	for _, f := range roleFiles {
		paths = append(paths, f.Path)
		assert.NotEmpty(t, f.Content, f.Path)
	}
	assert.Equal(t, []string{
		"hub/jupyterhub_config.py",
		"hub/Dockerfile",
		"user/Dockerfile",
		"user/requirements.txt",
	}, paths)

	assert.Contains(t, string(roleFiles[0].Content), "GenericOAuthenticator")
	assert.Contains(t, string(roleFiles[3].Content), "xarray")
}

func TestBundleFiles_NotebookIsJSON(t *testing.T) {
	bundle := BundleFiles()
	require.Len(t, bundle, 2)

	var nb map[string]any
	require.NoError(t, json.Unmarshal(bundle[1].Content, &nb))
	assert.EqualValues(t, 4, nb["nbformat"])
}

func TestCertStorePlaceholder(t *testing.T) {
	assert.Equal(t, "{}", string(CertStorePlaceholder()))
	assert.Equal(t, "traefik/acme.json", CertStorePath)
}
