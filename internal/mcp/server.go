// Package mcp exposes the cipher and the brute-force attack as MCP tools.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"railfence/internal/attack"
	"railfence/internal/format"
	"railfence/internal/logging"
	"railfence/internal/railfence"
	"railfence/internal/store"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported in the MCP implementation info.
var Version = "dev"

// MinCiphertextLength is the shortest ciphertext the attack tool accepts.
const MinCiphertextLength = 3

// Server wraps the MCP SDK server around an attack engine and a history store.
type Server struct {
	MCPServer *sdkmcp.Server

	engine  *attack.Engine
	history store.Store
	backend string
	logger  *slog.Logger
}

// NewServer creates an MCP server with encrypt, decrypt, attack and history
// tools. history may be nil, in which case attacks are not recorded and the
// history tool reports an empty list. backend labels recorded runs.
func NewServer(engine *attack.Engine, history store.Store, backend string) *Server {
	s := &Server{
		engine:  engine,
		history: history,
		backend: backend,
		logger:  logging.New("mcp"),
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "railfence", Version: Version},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "encrypt",
		Description: "Encrypt text with the rail-fence cipher. Rail counts below 2 or not below the text length return the text unchanged.",
	}, s.handleEncrypt)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "decrypt",
		Description: "Decrypt rail-fence ciphertext with a known rail count.",
	}, s.handleDecrypt)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "attack",
		Description: "Recover plaintext without the key: try every rail count and rank candidates by English-likeness. Returns the best guess and the ranked attempts.",
	}, s.handleAttack)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "history",
		Description: "List recorded attacks, newest first. With run_id, return that run's ranked attempts and a Markdown report.",
	}, s.handleHistory)
}

// --- Tool input/output types ---

type cipherInput struct {
	Text  string `json:"text" jsonschema:"text to transform"`
	Rails int    `json:"rails" jsonschema:"number of rails (key)"`
}

type cipherOutput struct {
	Text       string `json:"text"`
	Rails      int    `json:"rails"`
	Degenerate bool   `json:"degenerate"`
}

type attackInput struct {
	Ciphertext string `json:"ciphertext" jsonschema:"rail-fence ciphertext, at least 3 characters"`
	MaxRails   int    `json:"max_rails,omitempty" jsonschema:"highest rail count to try (default length-1)"`
	Top        int    `json:"top,omitempty" jsonschema:"number of ranked attempts to return (default all)"`
}

type attackOutput struct {
	Best     *attack.Attempt   `json:"best"`
	Attempts []*attack.Attempt `json:"attempts"`
	Total    int               `json:"total"`
	RunID    int64             `json:"run_id,omitempty"`
}

type historyInput struct {
	Limit int   `json:"limit,omitempty" jsonschema:"maximum runs to return (default all)"`
	RunID int64 `json:"run_id,omitempty" jsonschema:"return only this run, with its ranked attempts"`
}

type historyOutput struct {
	Runs   []*store.Run `json:"runs"`
	Report string       `json:"report,omitempty"`
}

// --- Handlers ---

func (s *Server) handleEncrypt(_ context.Context, _ *sdkmcp.CallToolRequest, input cipherInput) (*sdkmcp.CallToolResult, cipherOutput, error) {
	return nil, cipherOutput{
		Text:       railfence.Encrypt(input.Text, input.Rails),
		Rails:      input.Rails,
		Degenerate: railfence.Degenerate(utf8.RuneCountInString(input.Text), input.Rails),
	}, nil
}

func (s *Server) handleDecrypt(_ context.Context, _ *sdkmcp.CallToolRequest, input cipherInput) (*sdkmcp.CallToolResult, cipherOutput, error) {
	return nil, cipherOutput{
		Text:       railfence.Decrypt(input.Text, input.Rails),
		Rails:      input.Rails,
		Degenerate: railfence.Degenerate(utf8.RuneCountInString(input.Text), input.Rails),
	}, nil
}

func (s *Server) handleAttack(ctx context.Context, _ *sdkmcp.CallToolRequest, input attackInput) (*sdkmcp.CallToolResult, attackOutput, error) {
	if n := utf8.RuneCountInString(input.Ciphertext); n < MinCiphertextLength {
		return nil, attackOutput{}, fmt.Errorf("ciphertext must be at least %d characters, got %d", MinCiphertextLength, n)
	}

	start := time.Now()
	res, err := s.engine.Attack(ctx, input.Ciphertext, input.MaxRails)
	if err != nil {
		return nil, attackOutput{}, fmt.Errorf("attack: %w", err)
	}
	out := attackOutput{
		Best:     res.Best,
		Attempts: res.Top(input.Top),
		Total:    len(res.Attempts),
	}

	if s.history != nil {
		run := store.NewRun(input.Ciphertext, input.MaxRails, s.backend, res, input.Top)
		run.DurationMS = time.Since(start).Milliseconds()
		id, err := s.history.SaveRun(run)
		if err != nil {
			s.logger.Warn("record attack failed", "error", err)
		} else {
			out.RunID = id
		}
	}
	return nil, out, nil
}

func (s *Server) handleHistory(_ context.Context, _ *sdkmcp.CallToolRequest, input historyInput) (*sdkmcp.CallToolResult, historyOutput, error) {
	if s.history == nil {
		if input.RunID != 0 {
			return nil, historyOutput{}, fmt.Errorf("history: run %d: %w", input.RunID, store.ErrNotFound)
		}
		return nil, historyOutput{Runs: []*store.Run{}}, nil
	}
	if input.RunID != 0 {
		run, err := s.history.GetRun(input.RunID)
		if err != nil {
			return nil, historyOutput{}, fmt.Errorf("history: %w", err)
		}
		report, err := format.FormatRun(run, format.Markdown)
		if err != nil {
			return nil, historyOutput{}, err
		}
		return nil, historyOutput{Runs: []*store.Run{run}, Report: report}, nil
	}
	runs, err := s.history.ListRuns(input.Limit)
	if err != nil {
		return nil, historyOutput{}, fmt.Errorf("history: %w", err)
	}
	if runs == nil {
		runs = []*store.Run{}
	}
	return nil, historyOutput{Runs: runs}, nil
}
