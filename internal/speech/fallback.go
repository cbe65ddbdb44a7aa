// ABOUTME: Platform text-to-speech fallback
// ABOUTME: Shells out to say/espeak when the primary path fails
package speech

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// PlatformTTS speaks text with the operating system's own speech
// command. It takes raw text, not PCM, and is used only when the
// primary synthesis path fails.
type PlatformTTS struct {
	command string
}

// NewPlatformTTS picks the speech command for the current OS
func NewPlatformTTS() *PlatformTTS {
	command := "espeak"
	if runtime.GOOS == "darwin" {
		command = "say"
	}
	return &PlatformTTS{command: command}
}

// Available reports whether the platform speech command exists
func (p *PlatformTTS) Available() bool {
	_, err := exec.LookPath(p.command)
	return err == nil
}

// Say speaks text synchronously
func (p *PlatformTTS) Say(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("nothing to say")
	}

	cmd := exec.CommandContext(ctx, p.command, text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", p.command, err)
	}

	return nil
}
