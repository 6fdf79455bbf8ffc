// Package domain translates MCP tool calls into directory API operations.
//
// Tool calls run through the same login and directory state machines as the
// web surface, so an agent sees the same validation, the same re-entrancy
// rejections and the same fallback messages as a browser user.
package domain
