package speech

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long a cancelled command may hold its output pipes.
const waitDelay = 500 * time.Millisecond

// CommandRecognizer shells out to an external speech-to-text tool. The
// tool is expected to listen for one utterance and print candidate
// transcripts on stdout, best first, one per line. "{lang}" in any
// argument is replaced by the requested locale.
type CommandRecognizer struct {
	Command []string
	Logger  *slog.Logger
}

func NewCommandRecognizer(command []string, logger *slog.Logger) *CommandRecognizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CommandRecognizer{Command: command, Logger: logger}
}

func (r *CommandRecognizer) Recognize(ctx context.Context, opts Options) (Result, error) {
	if len(r.Command) == 0 || r.Command[0] == "" {
		return Result{}, ErrUnavailable
	}
	if opts.Lang == "" {
		opts.Lang = DefaultOptions().Lang
	}
	if opts.MaxAlternatives < 1 {
		opts.MaxAlternatives = 1
	}

	args := make([]string, len(r.Command)-1)
	for i, a := range r.Command[1:] {
		args[i] = strings.ReplaceAll(a, "{lang}", opts.Lang)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Command[0], args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	r.Logger.Debug("speech command starting", "command", r.Command[0], "lang", opts.Lang)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return Result{}, fmt.Errorf("speech command: %w", ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return Result{}, fmt.Errorf("speech command: %w", err)
		}
		return Result{}, fmt.Errorf("speech command: %w: %s", err, msg)
	}

	return parseTranscripts(stdout.String(), opts.MaxAlternatives)
}

func parseTranscripts(out string, max int) (Result, error) {
	var alts []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		alts = append(alts, line)
		if len(alts) == max {
			break
		}
	}
	if len(alts) == 0 {
		return Result{}, ErrNoSpeech
	}
	return Result{Transcript: alts[0], Alternatives: alts}, nil
}
