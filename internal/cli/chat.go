package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/soymode/jarvis/internal/agent"
	"github.com/soymode/jarvis/internal/domain"
	"github.com/soymode/jarvis/internal/llm"
	"github.com/soymode/jarvis/internal/store"
	"github.com/soymode/jarvis/internal/tools"
)

var (
	promptColor    = color.New(color.FgCyan, color.Bold)
	assistantColor = color.New(color.FgGreen)
	noticeColor    = color.New(color.FgYellow)
	errorColor     = color.New(color.FgRed)
)

func newChatCmd() *cobra.Command {
	var resumeID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, resumeID)
		},
	}

	cmd.Flags().StringVar(&resumeID, "resume", "", "conversation id to resume")
	return cmd
}

// session holds everything a running chat needs.
type session struct {
	agent          *agent.Agent
	store          agent.ConversationStore
	conversationID string
	out            io.Writer
	in             *bufio.Scanner
}

func runChat(cmd *cobra.Command, resumeID string) error {
	if err := validateConfig(); err != nil {
		return err
	}

	db, err := store.Open(cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	convStore := store.NewConversationStore(db)
	client := llm.NewAnthropicClient(cfg.APIKey)
	registry := tools.Default()
	exec := agent.NewExecutor(registry, cfg.Agent.Unattended, log)

	ag := agent.New(agent.Config{
		Model:         cfg.Model,
		MaxTokens:     cfg.MaxTokens,
		Temperature:   cfg.Temperature,
		ExtraPrompt:   cfg.Agent.ExtraPrompt,
		MaxToolRounds: cfg.Agent.MaxToolRounds,
	}, client, convStore, registry, exec, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &session{
		agent: ag,
		store: convStore,
		out:   cmd.OutOrStdout(),
		in:    bufio.NewScanner(os.Stdin),
	}
	s.in.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if resumeID != "" {
		if err := s.resume(resumeID); err != nil {
			return err
		}
	} else {
		id, err := convStore.CreateConversation("CLI session")
		if err != nil {
			return fmt.Errorf("creating conversation: %w", err)
		}
		s.conversationID = id
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return s.runPiped(ctx)
	}
	return s.runInteractive(ctx)
}

// runPiped reads all of stdin as a single message and prints the reply. No
// confirmation prompt is possible, so gated tools run only in unattended mode.
func (s *session) runPiped(ctx context.Context) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return fmt.Errorf("empty input")
	}

	reply, err := s.agent.Chat(ctx, s.conversationID, text, nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, reply)
	return nil
}

func (s *session) runInteractive(ctx context.Context) error {
	noticeColor.Fprintf(s.out, "Jarvis ready. Conversation %s. Type /quit to exit, /history, /resume, /new.\n", s.conversationID)

	for {
		promptColor.Fprint(s.out, "You: ")
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			done, err := s.handleCommand(line)
			if err != nil {
				errorColor.Fprintln(s.out, err)
			}
			if done {
				return nil
			}
			continue
		}

		reply, err := s.agent.Chat(ctx, s.conversationID, line, s.confirm)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errorColor.Fprintf(s.out, "error: %s\n", err)
			continue
		}
		assistantColor.Fprintf(s.out, "Jarvis: %s\n", reply)
	}
}

// handleCommand processes a slash command. It returns true when the session
// should end.
func (s *session) handleCommand(line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit", "/q":
		return true, nil

	case "/new":
		id, err := s.store.CreateConversation("CLI session")
		if err != nil {
			return false, err
		}
		s.conversationID = id
		noticeColor.Fprintf(s.out, "Started conversation %s.\n", id)
		return false, nil

	case "/history":
		return false, s.printHistory()

	case "/resume":
		if len(fields) > 1 {
			return false, s.resume(fields[1])
		}
		return false, s.pickConversation()

	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}
}

// resume switches to an existing conversation and replays its history.
func (s *session) resume(id string) error {
	conv, err := s.store.GetConversation(id)
	if err != nil {
		return err
	}
	if conv == nil {
		return fmt.Errorf("no conversation with id %s", id)
	}
	s.conversationID = conv.ID

	noticeColor.Fprintf(s.out, "Resumed conversation %s.\n", conv.ID)
	return s.printHistory()
}

// pickConversation lists recent conversations for /resume without an id.
func (s *session) pickConversation() error {
	convs, err := s.store.ListConversations(10)
	if err != nil {
		return err
	}
	if len(convs) == 0 {
		noticeColor.Fprintln(s.out, "No conversations yet.")
		return nil
	}

	for _, conv := range convs {
		title := conv.Title
		if title == "" {
			title = "(untitled)"
		}
		count, err := s.store.MessageCount(conv.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "  %s  %s  %3d msgs  %s\n",
			conv.ID, conv.UpdatedAt.Local().Format("2006-01-02 15:04"), count, title)
	}
	noticeColor.Fprintln(s.out, "Use /resume <id> to pick one.")
	return nil
}

func (s *session) printHistory() error {
	msgs, err := s.store.GetMessages(s.conversationID)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		noticeColor.Fprintln(s.out, "No messages yet.")
		return nil
	}

	for _, msg := range msgs {
		switch msg.Kind() {
		case domain.KindToolCalls:
			if msg.Content != "" {
				assistantColor.Fprintf(s.out, "Jarvis: %s\n", msg.Content)
			}
			for _, call := range msg.ToolCalls {
				noticeColor.Fprintf(s.out, "  [tool call] %s %s\n", call.Name, compactJSON(call.Input))
			}
		case domain.KindToolResults:
			for _, res := range msg.ToolResults {
				label := "[tool result]"
				if res.IsError {
					label = "[tool error]"
				}
				noticeColor.Fprintf(s.out, "  %s %s\n", label, firstLine(res.Output))
			}
		default:
			if msg.Role == domain.RoleAssistant {
				assistantColor.Fprintf(s.out, "Jarvis: %s\n", msg.Content)
			} else {
				promptColor.Fprint(s.out, "You: ")
				fmt.Fprintln(s.out, msg.Content)
			}
		}
	}
	return nil
}

// confirm shows the proposed tool invocation and asks until it gets a y/n
// answer. EOF denies.
func (s *session) confirm(call domain.ToolCall) bool {
	noticeColor.Fprintf(s.out, "Jarvis wants to run %s:\n", call.Name)
	fmt.Fprintf(s.out, "%s\n", indentJSON(call.Input))

	for {
		promptColor.Fprint(s.out, "Allow? [y/n] ")
		if !s.in.Scan() {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(s.in.Text())) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}

func indentJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "  ", "  "); err != nil {
		return "  " + string(raw)
	}
	return "  " + buf.String()
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
