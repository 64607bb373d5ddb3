package voting

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"tapea/internal/pending"
)

// SignInResult reports how a sign-in attempt ended. Redirected means control
// left this process (browser hand-off) and completion is deferred.
type SignInResult struct {
	Redirected bool
	URL        string
}

// Identity is the sign-in provider as seen by the protocol.
type Identity interface {
	// CurrentIdentity returns the signed-in user id, or "" when anonymous.
	CurrentIdentity(ctx context.Context) (string, error)
	SignIn(ctx context.Context, provider, redirectTarget string) (SignInResult, error)
}

// FixedIdentity is an identity resolved elsewhere, for example by a verified
// OAuth callback. SignIn is a no-op.
type FixedIdentity string

func (f FixedIdentity) CurrentIdentity(ctx context.Context) (string, error) {
	return string(f), nil
}

func (f FixedIdentity) SignIn(ctx context.Context, provider, redirectTarget string) (SignInResult, error) {
	return SignInResult{}, nil
}

// DevMode is the override that bypasses the location gate.
type DevMode interface {
	Enabled() bool
}

// Session carries the cross-cutting client state the protocol depends on.
type Session struct {
	Identity Identity
	Pending  pending.Cache
	DevMode  DevMode

	// SignInProvider and RedirectTarget are passed through to Identity.SignIn.
	SignInProvider string
	RedirectTarget string
}

func (s Session) devOverride() bool {
	return s.DevMode != nil && s.DevMode.Enabled()
}

// StaticDevMode is a fixed override, mostly for tests and flags.
type StaticDevMode bool

func (d StaticDevMode) Enabled() bool { return bool(d) }

// DevModeFileName is the flag file stored next to the pending slot.
const DevModeFileName = "dev_mode"

// FileDevMode persists the override as a tiny file holding "true"/"false".
type FileDevMode struct {
	path string
	mu   sync.Mutex
}

func NewFileDevMode(dir string) *FileDevMode {
	return &FileDevMode{path: filepath.Join(dir, DevModeFileName)}
}

// Enabled treats a missing or unreadable flag as off.
func (d *FileDevMode) Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	on, _ := d.read()
	return on
}

func (d *FileDevMode) Set(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.write(on)
}

// Toggle flips the flag and returns the new value.
func (d *FileDevMode) Toggle() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	on, err := d.read()
	if err != nil {
		return false, err
	}
	if err := d.write(!on); err != nil {
		return on, err
	}
	return !on, nil
}

func (d *FileDevMode) read() (bool, error) {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read dev mode: %w", err)
	}
	on, err := strconv.ParseBool(strings.TrimSpace(string(data)))
	if err != nil {
		return false, nil
	}
	return on, nil
}

func (d *FileDevMode) write(on bool) error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(d.path, []byte(strconv.FormatBool(on)), 0o600); err != nil {
		return fmt.Errorf("write dev mode: %w", err)
	}
	return nil
}
