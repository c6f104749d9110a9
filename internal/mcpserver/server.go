// Package mcpserver exposes refactorings to MCP clients over stdio.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/yaklabco/refit/internal/logging"
	"github.com/yaklabco/refit/pkg/config"
	"github.com/yaklabco/refit/pkg/document"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/reporter"
	"github.com/yaklabco/refit/pkg/runner"
)

const serverName = "refit"

var errEndPosition = errors.New("end_line and end_column must be given together")

// Tool names.
const (
	ToolListRefactorings = "list_refactorings"
	ToolApplyRefactoring = "apply_refactoring"
)

// Options configures a Server.
type Options struct {
	// Runner applies and offers refactorings.
	Runner *runner.Runner

	// Catalog supplies provider priorities for listings.
	Catalog *refactor.Catalog

	// Config is the resolved configuration.
	Config *config.Config

	// WorkingDir resolves relative paths sent by clients.
	WorkingDir string

	// Version is reported to clients.
	Version string

	// Logger receives request logs. It must not write to stdout.
	Logger *log.Logger
}

// Server serves the refactoring tools.
type Server struct {
	opts Options
	mcp  *server.MCPServer
}

// offered is one entry of a list_refactorings answer.
type offered struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Icon     string `json:"icon"`
	Priority int    `json:"priority"`
}

// New creates a Server and registers its tools.
func New(opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.NewConfig()
	}
	if opts.Logger == nil {
		opts.Logger = logging.New("info")
	}

	s := &Server{opts: opts}
	s.mcp = server.NewMCPServer(serverName, opts.Version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
	)
	s.addListTool()
	s.addApplyTool()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves requests on stdin and stdout until stdin closes.
func (s *Server) ServeStdio() error {
	s.opts.Logger.Info("serving MCP over stdio", logging.FieldWorkingDir, s.opts.WorkingDir)
	if err := server.ServeStdio(s.mcp); err != nil {
		return fmt.Errorf("serve stdio: %w", err)
	}
	return nil
}

func positionArgs(tool string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File to refactor, absolute or relative to the server's working directory"),
		),
		mcp.WithNumber("line",
			mcp.Required(),
			mcp.Description("1-based caret line"),
		),
		mcp.WithNumber("column",
			mcp.Required(),
			mcp.Description("1-based caret column in bytes"),
		),
		mcp.WithNumber("end_line",
			mcp.Description("1-based line where the selection ends; "+tool+" uses a caret without it"),
		),
		mcp.WithNumber("end_column",
			mcp.Description("1-based column where the selection ends"),
		),
	}
}

func (s *Server) addListTool() {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("List the refactorings available at a position, in the order they would be tried"),
	}, positionArgs(ToolListRefactorings)...)

	s.mcp.AddTool(mcp.NewTool(ToolListRefactorings, opts...), s.ListRefactorings)
}

func (s *Server) addApplyTool() {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Apply a refactoring at a position and return the outcome with a unified diff"),
	}, positionArgs(ToolApplyRefactoring)...)
	opts = append(opts,
		mcp.WithString("provider",
			mcp.Description("Provider ID; the first provider that applies is used when omitted"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Compute the change without writing the file"),
			mcp.DefaultBool(false),
		),
	)

	s.mcp.AddTool(mcp.NewTool(ToolApplyRefactoring, opts...), s.ApplyRefactoring)
}

// ListRefactorings handles list_refactorings.
func (s *Server) ListRefactorings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := s.target(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logger := s.opts.Logger.With(logging.FieldTool, ToolListRefactorings, logging.FieldPath, target.Path)
	logger.Debug("offer", logging.FieldPosition, target.At)

	providers, err := s.opts.Runner.Offer(ctx, target, runner.Options{Config: s.opts.Config})
	if err != nil {
		logger.Warn("offer failed", logging.FieldError, err)
		return mcp.NewToolResultError(fmt.Sprintf("list refactorings: %v", err)), nil
	}

	entries := make([]offered, 0, len(providers))
	for _, p := range providers {
		priority, _ := s.opts.Catalog.Priority(p.ID())
		entries = append(entries, offered{ID: p.ID(), Title: p.Title(), Icon: p.IconID(), Priority: priority})
	}

	content, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode offers: %w", err)
	}
	return mcp.NewToolResultText(string(content)), nil
}

// ApplyRefactoring handles apply_refactoring.
func (s *Server) ApplyRefactoring(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := s.target(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target.Provider = request.GetString("provider", "")

	cfg := *s.opts.Config
	cfg.DryRun = request.GetBool("dry_run", false)

	logger := s.opts.Logger.With(logging.FieldTool, ToolApplyRefactoring, logging.FieldPath, target.Path)
	logger.Debug("apply",
		logging.FieldPosition, target.At,
		logging.FieldProvider, target.Provider,
		logging.FieldDryRun, cfg.DryRun,
	)

	result, err := s.opts.Runner.Run(ctx, []runner.Target{target}, runner.Options{Jobs: 1, Config: &cfg})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("apply refactoring: %v", err)), nil
	}

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{
		Writer:     &buf,
		Format:     reporter.FormatJSON,
		WorkingDir: s.opts.WorkingDir,
	})
	if _, err := rep.Report(ctx, result); err != nil {
		return nil, fmt.Errorf("encode outcome: %w", err)
	}

	if errs := result.Errors(); len(errs) > 0 {
		logger.Warn("apply failed", logging.FieldError, errs[0])
		res := mcp.NewToolResultText(buf.String())
		res.IsError = true
		return res, nil
	}

	logger.Info("applied",
		logging.FieldApplied, result.Stats.Applied,
		logging.FieldEdits, result.Stats.Edits,
	)
	return mcp.NewToolResultText(buf.String()), nil
}

// target reads the position arguments shared by both tools.
func (s *Server) target(request mcp.CallToolRequest) (runner.Target, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return runner.Target{}, err
	}
	line, err := request.RequireInt("line")
	if err != nil {
		return runner.Target{}, err
	}
	column, err := request.RequireInt("column")
	if err != nil {
		return runner.Target{}, err
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(s.opts.WorkingDir, path)
	}
	target := runner.Target{
		Path: filepath.Clean(path),
		At:   document.Position{Line: line, Column: column},
	}

	endLine := request.GetInt("end_line", 0)
	endColumn := request.GetInt("end_column", 0)
	switch {
	case endLine > 0 && endColumn > 0:
		target.End = &document.Position{Line: endLine, Column: endColumn}
	case endLine > 0 || endColumn > 0:
		return runner.Target{}, errEndPosition
	}
	return target, nil
}
