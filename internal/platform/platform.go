// Package platform wraps the host capabilities the app shells out for:
// opening URLs in the default browser and writing the clipboard. Both
// degrade to no-ops where the host cannot serve them, so callers show
// the URL or text instead of failing.
package platform

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener opens a URI (http, mailto, sms, tel) with the host's default
// handler.
type Opener interface {
	Open(uri string) error
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	Copy(text string) error
}

// ErrUnsupported marks a capability the current host does not provide.
// Callers treat it as a condition, not a failure.
var ErrUnsupported = fmt.Errorf("not supported on this platform")

// SystemOpener shells out to the OS launcher.
type SystemOpener struct{}

func (SystemOpener) Open(uri string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", uri)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", uri)
	case "linux":
		cmd = exec.Command("xdg-open", uri)
	default:
		return ErrUnsupported
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", uri, err)
	}
	// Detach; the launcher outlives us and its exit code is not useful.
	go cmd.Wait()
	return nil
}

// SystemClipboard shells out to the platform clipboard tool.
type SystemClipboard struct{}

func (SystemClipboard) Copy(text string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "linux":
		if _, err := exec.LookPath("xclip"); err == nil {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		} else if _, err := exec.LookPath("wl-copy"); err == nil {
			cmd = exec.Command("wl-copy")
		} else {
			return ErrUnsupported
		}
	case "windows":
		cmd = exec.Command("clip")
	default:
		return ErrUnsupported
	}
	in, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start clipboard tool: %w", err)
	}
	if _, err := in.Write([]byte(text)); err != nil {
		return err
	}
	if err := in.Close(); err != nil {
		return err
	}
	return cmd.Wait()
}

// Noop satisfies both interfaces and does nothing. Used in tests and
// when the user disables outbound navigation.
type Noop struct {
	Opened []string
	Copied []string
}

func (n *Noop) Open(uri string) error {
	n.Opened = append(n.Opened, uri)
	return nil
}

func (n *Noop) Copy(text string) error {
	n.Copied = append(n.Copied, text)
	return nil
}
