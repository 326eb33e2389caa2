// Package mcp exposes a guidebot Assistant as a Model Context Protocol server,
// over stdio or SSE. Tools are stateless; the graph is also published as resources.
package mcp
