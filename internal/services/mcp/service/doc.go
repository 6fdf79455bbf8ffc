// Package service wires the MCP protocol transport to the directory tools.
//
// It knows how to build the MCP server and run it over stdio; the meaning of
// each tool lives in the domain package.
package service
