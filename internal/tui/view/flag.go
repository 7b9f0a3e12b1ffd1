package view

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"
)

// FlagRows is how many terminal rows a flag preview occupies.
const FlagRows = 8

const (
	minFlagWidth = 16
	maxFlagBytes = 512 * 1024
	kittyEscape  = "\x1b_G"
	tmuxWrapper  = "\x1bPtmux;"
)

var ErrChafaMissing = errors.New("chafa is not installed")

// Graphics is the way the terminal can draw a flag image.
type Graphics int

const (
	GraphicsSymbols Graphics = iota
	GraphicsKitty
	GraphicsKittyTmux
)

// DetectGraphics picks kitty graphics for kitty and ghostty, wrapped for
// tmux when it is the outer terminal, and unicode symbols otherwise.
func DetectGraphics(getenv func(string) string) Graphics {
	kitty := getenv("KITTY_WINDOW_ID") != ""
	for _, key := range []string{"TERM_PROGRAM", "TERM"} {
		v := strings.ToLower(getenv(key))
		if strings.Contains(v, "kitty") || strings.Contains(v, "ghostty") {
			kitty = true
		}
	}
	switch {
	case !kitty:
		return GraphicsSymbols
	case getenv("TMUX") != "":
		return GraphicsKittyTmux
	default:
		return GraphicsKitty
	}
}

// FlagRenderer downloads a country's flag image and draws it with chafa.
type FlagRenderer struct {
	Client   *http.Client
	Graphics Graphics
	LookPath func(string) (string, error)
	Run      func(path string, args []string, image []byte) ([]byte, error)
}

func NewFlagRenderer() FlagRenderer {
	return FlagRenderer{
		Client:   &http.Client{Timeout: 8 * time.Second},
		Graphics: DetectGraphics(os.Getenv),
		LookPath: exec.LookPath,
		Run:      runChafa,
	}
}

// Render returns the preview for flagURL sized to width columns.
func (r FlagRenderer) Render(flagURL string, width int) (string, error) {
	if width < minFlagWidth {
		width = minFlagWidth
	}
	u, err := url.Parse(flagURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("flag url %q is not http(s)", flagURL)
	}

	chafa, err := r.LookPath("chafa")
	if err != nil {
		return "", ErrChafaMissing
	}

	image, err := r.download(u.String())
	if err != nil {
		return "", err
	}

	output, err := r.Run(chafa, chafaArgs(r.Graphics, width, FlagRows), image)
	if err != nil {
		return "", fmt.Errorf("render flag via chafa: %w: %s", err, strings.TrimSpace(string(output)))
	}
	raw := strings.TrimRight(string(output), "\r\n")
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("render flag via chafa: empty output")
	}
	return raw, nil
}

func (r FlagRenderer) download(flagURL string) ([]byte, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(flagURL)
	if err != nil {
		return nil, fmt.Errorf("download flag: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download flag: status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("download flag: unexpected content type %q", ct)
	}
	image, err := io.ReadAll(io.LimitReader(resp.Body, maxFlagBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read flag: %w", err)
	}
	if len(image) > maxFlagBytes {
		return nil, fmt.Errorf("download flag: image larger than %d bytes", maxFlagBytes)
	}
	return image, nil
}

func chafaArgs(g Graphics, width, rows int) []string {
	size := fmt.Sprintf("%dx%d", width, rows)
	args := []string{"--size", size, "--view-size", size, "--align", "top,center"}
	switch g {
	case GraphicsKitty:
		args = append(args, "--format", "kitty", "--passthrough", "none", "--relative", "on")
	case GraphicsKittyTmux:
		args = append(args, "--format", "kitty", "--passthrough", "screen", "--relative", "on")
	default:
		args = append(args, "--format", "symbols")
	}
	return append(args, "-")
}

func runChafa(path string, args []string, image []byte) ([]byte, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdin = bytes.NewReader(image)
	return cmd.CombinedOutput()
}

// clearFlagImage deletes kitty images left by the previous flag, using the
// same tmux wrapping as raw.
func clearFlagImage(raw string) string {
	const del = "\x1b_Ga=d,d=A\x1b\\"
	if !strings.Contains(raw, tmuxWrapper) {
		return del
	}
	return tmuxWrapper + "\x1b" + strings.ReplaceAll(del, "\x1b", "\x1b\x1b") + "\x1b\\"
}
