package digitalocean

import (
	"log"

	"github.com/sri-maddineni/college-shortlister/config"
)

// ConfigFromEnv builds the Spaces configuration from the environment. The second
// result is false when sharing is not configured.
func ConfigFromEnv(getEnv *config.EnviornmentVariable) (SpacesConfig, bool) {
	if !getEnv.SpacesConfigured() {
		return SpacesConfig{}, false
	}
	return SpacesConfig{
		AccessKey: getEnv.DO_SPACES_KEY,
		SecretKey: getEnv.DO_SPACES_SECRET,
		Bucket:    getEnv.DO_SPACES_BUCKET,
		Region:    getEnv.DO_SPACES_REGION,
		Endpoint:  getEnv.DO_SPACES_ENDPOINT,
		CDNURL:    getEnv.DO_SPACES_CDN_URL,
	}, true
}

// NewSpacesClientFromEnv returns nil when Spaces is not configured
func NewSpacesClientFromEnv(getEnv *config.EnviornmentVariable) (*SpacesClient, error) {
	cfg, ok := ConfigFromEnv(getEnv)
	if !ok {
		log.Println("Spaces: DO_SPACES_KEY/DO_SPACES_SECRET/DO_SPACES_BUCKET not set, sharing disabled")
		return nil, nil
	}
	client, err := NewSpacesClient(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("Spaces: Using bucket %s in %s", cfg.Bucket, cfg.Region)
	return client, nil
}
