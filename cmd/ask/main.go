package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/wolfman30/swasthyasathi/internal/app/bootstrap"
	"github.com/wolfman30/swasthyasathi/internal/assistant"
	appconfig "github.com/wolfman30/swasthyasathi/internal/config"
	"github.com/wolfman30/swasthyasathi/pkg/logging"
)

type responder interface {
	Respond(ctx context.Context, query string) string
}

// turn is one exchange kept for the /history command.
type turn struct {
	Query string
	Reply string
}

type session struct {
	id         string
	assistant  responder
	transcript []turn
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	// Replies go to stdout, so logs stay on stderr.
	logger := logging.NewWithWriter(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx := context.Background()
	svc, closeDeps, err := bootstrap.BuildAssistant(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("failed to build assistant", "error", err)
		os.Exit(1)
	}
	defer closeDeps()

	s := newSession(svc)
	logger.Debug("chat session started", "session_id", s.id)

	if len(os.Args) > 1 {
		fmt.Println(s.ask(ctx, strings.Join(os.Args[1:], " ")))
		return
	}
	if err := s.loop(ctx, os.Stdin, os.Stdout); err != nil {
		logger.Error("chat loop failed", "error", err)
		os.Exit(1)
	}
}

func newSession(a responder) *session {
	return &session{id: uuid.NewString(), assistant: a}
}

func (s *session) ask(ctx context.Context, query string) string {
	reply := s.assistant.Respond(ctx, query)
	s.transcript = append(s.transcript, turn{Query: query, Reply: reply})
	return reply
}

// loop reads one query per line until EOF or /quit.
func (s *session) loop(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, assistant.Welcome())
	fmt.Fprintln(out, "Commands: /history, /help, /quit")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/help":
			fmt.Fprintln(out, assistant.Welcome())
			continue
		case "/history":
			s.printHistory(out)
			continue
		}
		fmt.Fprintln(out, s.ask(ctx, line))
	}
}

func (s *session) printHistory(out io.Writer) {
	if len(s.transcript) == 0 {
		fmt.Fprintln(out, "(no messages yet)")
		return
	}
	for _, t := range s.transcript {
		fmt.Fprintf(out, "🧑 %s\n🤖 %s\n", t.Query, t.Reply)
	}
}
