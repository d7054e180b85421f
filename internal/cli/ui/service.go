package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"
)

// ErrNoInput is returned by prompts when stdin is closed.
var ErrNoInput = errors.New("no input available")

// Service handles user interface operations like spinners, notices and prompts
type Service interface {
	// ShowSpinner displays a spinner with a message and returns a stop function
	ShowSpinner(message string) func(completedMessage string)
	// Success, Info and Fail print one notice line
	Success(format string, args ...any)
	Info(format string, args ...any)
	Fail(format string, args ...any)
	// Prompt asks for a line of input; an empty answer returns def
	Prompt(label, def string) (string, error)
	// Confirm asks a yes/no question
	Confirm(question string) (bool, error)
	// Table renders rows under headers in aligned columns
	Table(headers []string, rows [][]string)
}

// service implements Service interface
type service struct {
	in  *bufio.Reader
	out io.Writer
	mu  sync.Mutex
}

// ProvideUIService creates a new UI service on the process stdin/stdout
// @Provider
func ProvideUIService() Service {
	return NewService(os.Stdin, os.Stdout)
}

func NewService(in io.Reader, out io.Writer) Service {
	return &service{in: bufio.NewReader(in), out: out}
}

// ShowSpinner displays a spinner with a message and returns a stop function
func (s *service) ShowSpinner(message string) func(completedMessage string) {
	spinner := NewSpinner(s.out)
	spinner.Start(message)
	return func(completedMessage string) {
		spinner.Stop(completedMessage)
	}
}

func (s *service) Success(format string, args ...any) {
	s.line("●", format, args...)
}

func (s *service) Info(format string, args ...any) {
	s.line("•", format, args...)
}

func (s *service) Fail(format string, args ...any) {
	s.line("❌", format, args...)
}

func (s *service) line(mark, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// Prompt asks for a line of input; an empty answer returns def
func (s *service) Prompt(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(s.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(s.out, "%s: ", label)
	}
	input, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	answer := strings.TrimSpace(input)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question; anything but y/yes is a no
func (s *service) Confirm(question string) (bool, error) {
	answer, err := s.Prompt(question+" (y/N)", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Table renders rows under headers in aligned columns
func (s *service) Table(headers []string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

// Spinner handles animated loading indicators
type Spinner struct {
	out     io.Writer
	chars   []string
	delay   time.Duration
	done    chan bool
	mu      sync.Mutex
	stopped bool // Track if spinner has been stopped
}

func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{
		out:   out,
		chars: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		delay: 100 * time.Millisecond,
		done:  make(chan bool, 1), // Make the channel buffered to prevent deadlock
	}
}

func (s *Spinner) Start(message string) {
	go func() {
		i := 0
		for {
			select {
			case <-s.done:
				return
			default:
				s.mu.Lock()
				if !s.stopped {
					fmt.Fprintf(s.out, "\r%s %s", s.chars[i%len(s.chars)], message)
				}
				s.mu.Unlock()
				i++
				time.Sleep(s.delay)
			}
		}
	}()
}

func (s *Spinner) Stop(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Prevent multiple calls to Stop
	if s.stopped {
		return
	}
	s.stopped = true

	select {
	case s.done <- true:
	default:
	}

	fmt.Fprintf(s.out, "\r✔ %s\n", message)
}
