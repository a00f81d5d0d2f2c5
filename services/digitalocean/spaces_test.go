package digitalocean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sri-maddineni/college-shortlister/config"
)

func TestGetFileURL(t *testing.T) {
	client, err := NewSpacesClient(SpacesConfig{
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "shortlists",
		Region:    "blr1",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://shortlists.blr1.digitaloceanspaces.com/shares/a/colleges.pdf", client.GetFileURL("shares/a/colleges.pdf"))

	client, err = NewSpacesClient(SpacesConfig{
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "shortlists",
		Region:    "blr1",
		CDNURL:    "https://cdn.example.com/",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/shares/a/colleges.pdf", client.GetFileURL("shares/a/colleges.pdf"))
}

func TestConfigFromEnv(t *testing.T) {
	env := &config.EnviornmentVariable{DO_SPACES_KEY: "key", DO_SPACES_REGION: "ams3"}
	_, ok := ConfigFromEnv(env)
	assert.False(t, ok)

	client, err := NewSpacesClientFromEnv(env)
	require.NoError(t, err)
	assert.Nil(t, client)

	env.DO_SPACES_SECRET = "secret"
	env.DO_SPACES_BUCKET = "bucket"
	cfg, ok := ConfigFromEnv(env)
	require.True(t, ok)
	assert.Equal(t, "ams3", cfg.Region)
	assert.Equal(t, "bucket", cfg.Bucket)
}
