// Package theme resolves and persists the light/dark preference of each
// client.
package theme

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/notesview/notesview/internal/logging"
)

// Theme is a visual mode.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse returns the Theme named by s, or false for anything else.
func Parse(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

// Valid reports whether t is light or dark.
func (t Theme) Valid() bool {
	return t == Light || t == Dark
}

// Toggle returns the opposite mode.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Source says where a resolved theme came from.
type Source string

const (
	SourceStored  Source = "stored"
	SourceSystem  Source = "system"
	SourceDefault Source = "default"
)

// Resolution is a resolved theme and its origin.
type Resolution struct {
	Theme  Theme  `json:"theme"`
	Source Source `json:"source"`
}

// Resolve picks the theme: an explicit stored preference, then the system
// color-scheme preference, then light. Invalid values count as absent.
func Resolve(stored, system Theme) Resolution {
	if stored.Valid() {
		return Resolution{Theme: stored, Source: SourceStored}
	}
	if system.Valid() {
		return Resolution{Theme: system, Source: SourceSystem}
	}
	return Resolution{Theme: Light, Source: SourceDefault}
}

// HintHeader is the client hint carrying prefers-color-scheme.
const HintHeader = "Sec-CH-Prefers-Color-Scheme"

// SystemPreference reads the color-scheme client hint from r. It returns
// the empty Theme when the browser did not send one.
func SystemPreference(r *http.Request) Theme {
	t, ok := Parse(strings.Trim(r.Header.Get(HintHeader), `"`))
	if !ok {
		return ""
	}
	return t
}

// Store persists one preference per client.
type Store interface {
	Load(ctx context.Context, clientID string) (Theme, bool, error)
	Save(ctx context.Context, clientID string, t Theme) error
}

// Service resolves and updates preferences over a Store.
type Service struct {
	store  Store
	logger *zap.SugaredLogger
}

// NewService returns a Service backed by store.
func NewService(store Store, logger *zap.SugaredLogger) *Service {
	return &Service{store: store, logger: logging.OrNop(logger)}
}

// Get resolves the theme for clientID. A failing store is logged and
// treated as holding no preference.
func (s *Service) Get(ctx context.Context, clientID string, system Theme) Resolution {
	var stored Theme
	if clientID != "" {
		t, ok, err := s.store.Load(ctx, clientID)
		if err != nil {
			s.logger.Warnw("loading theme preference", "client", clientID, "error", err)
		} else if ok {
			stored = t
		}
	}
	return Resolve(stored, system)
}

// Set persists t for clientID. Once it returns nil, Get yields t.
func (s *Service) Set(ctx context.Context, clientID string, t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("invalid theme %q", t)
	}
	if clientID == "" {
		return fmt.Errorf("client id is required")
	}
	if err := s.store.Save(ctx, clientID, t); err != nil {
		return fmt.Errorf("saving theme preference: %w", err)
	}
	s.logger.Debugw("theme preference saved", "client", clientID, "theme", t)
	return nil
}
