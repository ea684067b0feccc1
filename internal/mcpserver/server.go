// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes fontgrove tools for editor/LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quillon/fontgrove/internal/fontservice"
	"github.com/quillon/fontgrove/internal/vcs"
)

// Server wraps the MCP server with fontgrove tools.
type Server struct {
	mcp       *server.MCPServer
	svc       *fontservice.Service
	resolvers []vcs.Resolver
}

// New creates a new MCP server with all fontgrove tools registered.
func New(svc *fontservice.Service, resolvers []vcs.Resolver) *Server {
	s := &Server{svc: svc, resolvers: resolvers}

	s.mcp = server.NewMCPServer(
		"fontgrove",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_font_families",
		mcp.WithDescription("List the notation font families installed for the engraving engine, "+
			"with per-type completeness."),
	), s.listFontFamilies)

	s.mcp.AddTool(mcp.NewTool("font_family_status",
		mcp.WithDescription("Report the full status of one installed font family: files per "+
			"type and size, missing sizes, brace availability."),
		mcp.WithString("family", mcp.Required(), mcp.Description("Family name (e.g. emmentaler)")),
	), s.fontFamilyStatus)

	s.mcp.AddTool(mcp.NewTool("installable_fonts",
		mcp.WithDescription("List the font files flagged as installable by the last source scan. "+
			"Font filenames must follow the naming contract; read it via the "+
			"fontgrove://font-naming resource."),
	), s.installableFonts)

	s.mcp.AddTool(mcp.NewTool("resolve_vcs_path",
		mcp.WithDescription("Determine which version-control repository owns a file path. "+
			"Returns the repository root and relative path, or whether the path is "+
			"under an unsupported VCS or none at all."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute file path")),
	), s.resolveVCSPath)

	// Resource: font filename contract.
	s.mcp.AddResource(
		mcp.NewResource("fontgrove://font-naming", "Font Naming Contract",
			mcp.WithResourceDescription("Filename contract every notation font file must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFontNamingResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listFontFamilies(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	families := s.svc.Families(ctx)
	if len(families) == 0 {
		return mcp.NewToolResultText("no font families installed"), nil
	}
	out, _ := json.MarshalIndent(families, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) fontFamilyStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	family, err := req.RequireString("family")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.FamilyDetail(ctx, family)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", family)), nil
	}
	out, _ := json.MarshalIndent(detail, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) installableFonts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	families, err := s.svc.Installable(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(families) == 0 {
		return mcp.NewToolResultText("nothing flagged for install"), nil
	}
	out, _ := json.MarshalIndent(families, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) resolveVCSPath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := vcs.Resolve(s.resolvers, path)
	switch res.Outcome {
	case vcs.Resolved:
		return mcp.NewToolResultText(strings.Join([]string{
			"vcs: " + res.VCS,
			"root: " + res.Root,
			"rel_path: " + res.RelPath,
		}, "\n")), nil
	case vcs.DetectedUnsupported:
		return mcp.NewToolResultText(fmt.Sprintf("detected %s repository, tracking not supported", res.VCS)), nil
	default:
		return mcp.NewToolResultText("not under version control"), nil
	}
}

func (s *Server) readFontNamingResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "fontgrove://font-naming",
			MIMEType: "text/markdown",
			Text:     FontNamingContract,
		},
	}, nil
}
