// Package service wires the MCP protocol transport to the event tools.
//
// It knows how to run MCP over stdio or streamable HTTP and delegates tool
// meaning to the domain package.
package service
