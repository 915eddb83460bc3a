// Package api embeds the OpenAPI document of the HTTP adapter.
package api

import (
	_ "embed"
)

//go:embed openapi.yaml
var Document []byte
