// Package terminal implementa la sesión interactiva de chat por consola.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"terminal-chat/internal/domain"
)

const (
	farewell          = "bot: Goodbye! Thanks for chatting!"
	prompt            = "user: "
	defaultHistoryLen = 10
	maxLineBytes      = 1 << 20
)

type State int

const (
	StateRunning State = iota
	StateTerminated
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "terminated"
}

// Responder entrena el bot y contesta un turno.
type Responder interface {
	Train(ctx context.Context) error
	Respond(ctx context.Context, input string) (string, error)
}

// Transcript guarda turnos y devuelve los recientes, el más nuevo primero.
type Transcript interface {
	Record(ctx context.Context, exchange domain.Exchange) error
	History(ctx context.Context, limit int) ([]domain.Exchange, error)
}

// Session es el bucle de lectura/respuesta. No cierra la entrada: es del caller.
type Session struct {
	responder    Responder
	transcript   Transcript
	in           io.Reader
	out          io.Writer
	screen       *Screen
	logger       *zap.Logger
	historyLimit int
	state        State
}

type Option func(*Session)

func WithHistoryLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewSession(responder Responder, transcript Transcript, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		responder:    responder,
		transcript:   transcript,
		in:           in,
		out:          out,
		screen:       NewScreen(out),
		logger:       zap.NewNop(),
		historyLimit: defaultHistoryLen,
		state:        StateRunning,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State { return s.state }

// Run inicializa el bot y procesa líneas hasta quit, EOF o cancelación del contexto.
// Un fallo de inicialización se informa por pantalla y no es un error del proceso.
func (s *Session) Run(ctx context.Context) error {
	s.state = StateRunning
	s.screen.Banner()
	s.println("Initializing bot...")
	if err := s.responder.Train(ctx); err != nil {
		s.logger.Error("bot initialization failed", zap.Error(err))
		s.printf("Error initializing bot: %v\n", err)
		s.state = StateTerminated
		return nil
	}
	s.println("Ready to chat!")

	done := make(chan struct{})
	defer close(done)
	lines := s.readLines(done)

	for s.state == StateRunning {
		s.printf("%s", prompt)
		select {
		case <-ctx.Done():
			s.terminate()
		case line, ok := <-lines:
			if !ok {
				s.terminate()
				continue
			}
			s.handle(ctx, line)
		}
	}
	return nil
}

// readLines entrega líneas de la entrada hasta EOF, error de lectura o cierre de done.
func (s *Session) readLines(done <-chan struct{}) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
		for scanner.Scan() {
			select {
			case out <- scanner.Text():
			case <-done:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			s.logger.Warn("read input failed", zap.Error(err))
		}
	}()
	return out
}

func (s *Session) handle(ctx context.Context, line string) {
	text := strings.TrimSpace(line)
	if text == "" {
		return
	}

	switch strings.ToLower(text) {
	case "quit", "exit", "bye":
		s.println(farewell)
		s.state = StateTerminated
	case "history":
		s.showHistory(ctx)
	case "clear":
		s.screen.Clear()
		s.screen.Banner()
	default:
		s.reply(ctx, text)
	}
}

func (s *Session) reply(ctx context.Context, text string) {
	reply, err := s.responder.Respond(ctx, text)
	if err != nil && ctx.Err() != nil {
		// Interrupción durante la respuesta: despedida directa, sin error del turno.
		s.logger.Debug("respond interrupted", zap.Error(err))
		s.terminate()
		return
	}
	if err != nil {
		s.logger.Warn("respond failed", zap.Error(err))
		s.printf("bot: An error occurred: %v\n", err)
		s.println("Please try again.")
		return
	}
	s.printf("bot: %s\n", reply)

	if s.transcript == nil {
		return
	}
	err = s.transcript.Record(ctx, domain.Exchange{UserMessage: text, BotResponse: reply})
	if err != nil {
		s.logger.Warn("record exchange failed", zap.Error(err))
		s.printf("(this exchange was not saved to history: %v)\n", err)
	}
}

func (s *Session) showHistory(ctx context.Context) {
	var exchanges []domain.Exchange
	if s.transcript != nil {
		var err error
		exchanges, err = s.transcript.History(ctx, s.historyLimit)
		if err != nil {
			s.logger.Warn("load history failed", zap.Error(err))
			s.printf("bot: An error occurred: %v\n", err)
			return
		}
	}
	if len(exchanges) == 0 {
		s.println("No chat history available.")
		return
	}

	s.println("\n--- Recent Chat History ---")
	// History llega del más nuevo al más viejo; se muestra al revés.
	for i, n := 0, len(exchanges); i < n; i++ {
		e := exchanges[n-1-i]
		s.printf("%d. User: %s\n", i+1, e.UserMessage)
		s.printf("   Bot: %s\n\n", e.BotResponse)
	}
}

// terminate corta la sesión por EOF o interrupción.
func (s *Session) terminate() {
	s.println("")
	s.println(farewell)
	s.state = StateTerminated
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
