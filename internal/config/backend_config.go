package config

import "github.com/microcosm-cc/bluemonday"

type BackendConfig struct {
	ListenPort             string
	FrontendEndpoint       string
	HTMLSanitizationPolicy *bluemonday.Policy
}
