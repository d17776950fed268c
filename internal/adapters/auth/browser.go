package auth

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"time"

	"github.com/bnema/magicpin/internal/ports"
)

// BrowserFlow runs the whole interactive handshake: build the authorization
// URL, hand it to the user's browser, wait for the relayed token.
type BrowserFlow struct {
	AuthURL     string
	ClientID    string
	Scopes      []string
	ListenAddr  string
	Timeout     time.Duration
	Output      io.Writer
	OpenBrowser func(url string) error
}

var _ ports.Authorizer = (*BrowserFlow)(nil)

func (f *BrowserFlow) Authorize(ctx context.Context) (string, error) {
	state, err := NewState()
	if err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}

	server, err := StartCallbackServer(f.ListenAddr, state)
	if err != nil {
		return "", fmt.Errorf("start callback server: %w", err)
	}

	authURL, err := BuildAuthorizationURL(AuthorizationRequest{
		AuthURL:     f.AuthURL,
		ClientID:    f.ClientID,
		RedirectURI: server.RedirectURI(),
		Scopes:      f.Scopes,
		State:       state,
	})
	if err != nil {
		_ = server.Close()
		return "", fmt.Errorf("build authorization url: %w", err)
	}

	if f.Output != nil {
		_, _ = fmt.Fprintf(f.Output, "Open this URL to choose an account:\n%s\n", authURL)
	}
	open := f.OpenBrowser
	if open == nil {
		open = openBrowser
	}
	// Browser launch failures are not fatal; the URL is already printed.
	_ = open(authURL)

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = server.Close()
		case <-done:
		}
	}()
	defer close(done)

	token, err := server.WaitForToken(timeout)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("wait for oauth callback: %w", err)
	}

	return token, nil
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
