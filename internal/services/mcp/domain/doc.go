// Package domain translates MCP tool calls into XploreHub API requests.
//
// Every handler goes through the typed REST client so MCP callers see the
// same validation, localization and capacity rules as the web frontend.
package domain
