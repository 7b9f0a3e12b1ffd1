package platform

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// ValidateSiteURL accepts absolute http(s) URLs only, so catalog entries can
// never hand the OS opener a local path or custom scheme.
func ValidateSiteURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("site has no URL")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL host")
	}
	return trimmed, nil
}

// OpenURLInBrowser starts the OS opener detached from the terminal. The
// browser gets no referrer and no handle back to this process.
func OpenURLInBrowser(url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	return exec.Command(name, args...).Run()
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

var clipboardCommands = [][]string{
	{"pbcopy"},
	{"xclip", "-selection", "clipboard"},
	{"wl-copy"},
}

func CopyURLToClipboard(url string) error {
	return copyWith(url, exec.LookPath, runClipboard)
}

// copyWith tries each installed clipboard command until one succeeds.
func copyWith(url string, lookup func(string) (string, error), run func(c []string, input string) error) error {
	var errs []error
	for _, c := range clipboardCommands {
		if _, err := lookup(c[0]); err != nil {
			continue
		}
		if err := run(c, url); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c[0], err))
			continue
		}
		return nil
	}
	if len(errs) == 0 {
		return fmt.Errorf("no clipboard command available")
	}
	return fmt.Errorf("copy to clipboard: %w", errors.Join(errs...))
}

func runClipboard(c []string, input string) error {
	cmd := exec.Command(c[0], c[1:]...)
	cmd.Stdin = bytes.NewBufferString(input)
	return cmd.Run()
}
