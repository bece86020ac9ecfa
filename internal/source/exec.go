package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/logmux/logmux/pkg/logline"
)

// tailCommand runs a subprocess and streams its stdout as line events.
// The lifecycle is the same for every adapter: spawn failure yields one
// error event then end-of-stream; read failures are reported without
// aborting other sources; abnormal exit is reported after EOF. The
// subprocess is killed when ctx is cancelled, so no child can outlive
// the multiplexer.
func tailCommand(ctx context.Context, emit Emit, name string, args ...string) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = io.Discard

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		emit(Event{Kind: EventError, Err: fmt.Sprintf("failed to open pipe for %s: %v", name, err)})
		emit(Event{Kind: EventEnd})
		return
	}

	if err := cmd.Start(); err != nil {
		emit(Event{Kind: EventError, Err: fmt.Sprintf("failed to start %s: %v", name, err)})
		emit(Event{Kind: EventEnd})
		return
	}

	reader := bufio.NewReader(stdout)
	for {
		text, err := reader.ReadString('\n')
		if err == nil {
			if !emit(lineEvent(text)) {
				break
			}
			continue
		}
		// A trailing partial line still counts
		if text != "" {
			emit(lineEvent(text))
		}
		if !errors.Is(err, io.EOF) && ctx.Err() == nil {
			emit(Event{Kind: EventError, Err: fmt.Sprintf("read error: %v", err)})
		}
		break
	}

	if err := cmd.Wait(); err != nil && ctx.Err() == nil {
		emit(Event{Kind: EventError, Err: fmt.Sprintf("%s exited: %v", name, err)})
	}
	emit(Event{Kind: EventEnd})
}

func lineEvent(text string) Event {
	raw := strings.TrimRight(text, "\r\n")
	// The source id is stamped by the multiplexer
	return Event{Kind: EventLine, Record: logline.New(raw, 0)}
}

// validateName rejects values that could be parsed as command options
// when handed to a subprocess.
func validateName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name is empty", kind)
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("invalid %s name %q: must not start with '-'", kind, name)
	}
	if strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("invalid %s name %q: must not contain whitespace", kind, name)
	}
	return nil
}
