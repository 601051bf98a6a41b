// Package configs embeds the configuration template written by
// `catcrawler config init`.
package configs

import _ "embed"

// UserConfigTemplate is the commented template for ~/.config/catcrawler/config.yaml.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string
