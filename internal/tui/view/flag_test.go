package view

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestDetectGraphics(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Graphics
	}{
		{name: "plain xterm", env: map[string]string{"TERM": "xterm-256color"}, want: GraphicsSymbols},
		{name: "ghostty", env: map[string]string{"TERM_PROGRAM": "ghostty", "TERM": "dumb"}, want: GraphicsKitty},
		{name: "kitty window", env: map[string]string{"KITTY_WINDOW_ID": "1"}, want: GraphicsKitty},
		{name: "kitty under tmux", env: map[string]string{"TERM": "xterm-kitty", "TMUX": "/tmp/tmux-1000/default,1234,0"}, want: GraphicsKittyTmux},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectGraphics(envOf(tt.env)); got != tt.want {
				t.Fatalf("DetectGraphics() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestChafaArgs(t *testing.T) {
	want := []string{"--size", "30x8", "--view-size", "30x8", "--align", "top,center", "--format", "symbols", "-"}
	if diff := cmp.Diff(want, chafaArgs(GraphicsSymbols, 30, FlagRows)); diff != "" {
		t.Fatalf("symbols args mismatch (-want +got):\n%s", diff)
	}
	got := strings.Join(chafaArgs(GraphicsKittyTmux, 30, FlagRows), " ")
	if !strings.Contains(got, "--format kitty --passthrough screen") {
		t.Fatalf("expected tmux passthrough, got %q", got)
	}
}

func TestClearFlagImage_TmuxWrapped(t *testing.T) {
	if got := clearFlagImage("\x1b_Ga=T\x1b\\"); got != "\x1b_Ga=d,d=A\x1b\\" {
		t.Fatalf("unexpected plain delete %q", got)
	}
	got := clearFlagImage("\x1bPtmux;\x1b\x1b_Ga=T\x1b\x1b\\\x1b\\")
	if !strings.HasPrefix(got, "\x1bPtmux;\x1b") || !strings.Contains(got, "\x1b\x1b_Ga=d,d=A") || !strings.HasSuffix(got, "\x1b\\") {
		t.Fatalf("expected tmux wrapped delete, got %q", got)
	}
}

func newFlagServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/w80/au.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("\x89PNG flag"))
		case "/w80/html.png":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestFlagRenderer_Render(t *testing.T) {
	ts := newFlagServer(t)
	var gotArgs []string
	var gotImage string
	r := FlagRenderer{
		Client:   ts.Client(),
		LookPath: func(string) (string, error) { return "/usr/bin/chafa", nil },
		Run: func(path string, args []string, image []byte) ([]byte, error) {
			gotArgs, gotImage = args, string(image)
			return []byte("▀▀▀▀\n▄▄▄▄\n\n"), nil
		},
	}

	got, err := r.Render(ts.URL+"/w80/au.png", 4)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "▀▀▀▀\n▄▄▄▄" {
		t.Fatalf("unexpected preview %q", got)
	}
	if gotImage != "\x89PNG flag" {
		t.Fatalf("expected downloaded image on stdin, got %q", gotImage)
	}
	if gotArgs[1] != "16x8" {
		t.Fatalf("expected narrow widths raised to 16 columns, got %q", gotArgs[1])
	}
}

func TestFlagRenderer_Errors(t *testing.T) {
	ts := newFlagServer(t)
	run := func(string, []string, []byte) ([]byte, error) { return []byte("   "), nil }
	found := func(string) (string, error) { return "/usr/bin/chafa", nil }

	missing := FlagRenderer{Client: ts.Client(), Run: run,
		LookPath: func(string) (string, error) { return "", errors.New("not found") }}
	if _, err := missing.Render(ts.URL+"/w80/au.png", 30); !errors.Is(err, ErrChafaMissing) {
		t.Fatalf("expected ErrChafaMissing, got %v", err)
	}

	r := FlagRenderer{Client: ts.Client(), Run: run, LookPath: found}
	for name, flagURL := range map[string]string{
		"not http":     "file:///etc/passwd",
		"status":       ts.URL + "/w80/xx.png",
		"content type": ts.URL + "/w80/html.png",
		"empty output": ts.URL + "/w80/au.png",
	} {
		if _, err := r.Render(flagURL, 30); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
