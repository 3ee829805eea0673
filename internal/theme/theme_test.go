package theme

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/notesview/notesview/internal/db"
)

func TestParse(t *testing.T) {
	for in, want := range map[string]Theme{"light": Light, "dark": Dark, " Dark ": Dark} {
		got, ok := Parse(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := Parse("sepia")
	assert.False(t, ok)
}

func TestToggle(t *testing.T) {
	assert.Equal(t, Dark, Light.Toggle())
	assert.Equal(t, Light, Dark.Toggle())
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name           string
		stored, system Theme
		want           Resolution
	}{
		{"stored wins over system", Light, Dark, Resolution{Light, SourceStored}},
		{"stored dark", Dark, "", Resolution{Dark, SourceStored}},
		{"system when nothing stored", "", Dark, Resolution{Dark, SourceSystem}},
		{"system light", "", Light, Resolution{Light, SourceSystem}},
		{"default light", "", "", Resolution{Light, SourceDefault}},
		{"invalid stored ignored", "sepia", Dark, Resolution{Dark, SourceSystem}},
		{"invalid everything", "x", "y", Resolution{Light, SourceDefault}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.stored, tt.system)
			assert.Equal(t, tt.want, got)
			// Resolution is a pure function: asking again gives the same answer.
			assert.Equal(t, got, Resolve(tt.stored, tt.system))
		})
	}
}

func TestSystemPreference(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, Theme(""), SystemPreference(r))

	r.Header.Set(HintHeader, `"dark"`)
	assert.Equal(t, Dark, SystemPreference(r))

	r.Header.Set(HintHeader, "light")
	assert.Equal(t, Light, SystemPreference(r))

	r.Header.Set(HintHeader, "no-preference")
	assert.Equal(t, Theme(""), SystemPreference(r))
}

func TestServiceGetSet(t *testing.T) {
	svc := NewService(NewMemoryStore(), zaptest.NewLogger(t).Sugar())
	ctx := t.Context()

	assert.Equal(t, Resolution{Dark, SourceSystem}, svc.Get(ctx, "client-1", Dark))

	require.NoError(t, svc.Set(ctx, "client-1", Light))
	assert.Equal(t, Resolution{Light, SourceStored}, svc.Get(ctx, "client-1", Dark))
	assert.Equal(t, svc.Get(ctx, "client-1", Dark), svc.Get(ctx, "client-1", Dark))

	// Other clients are unaffected.
	assert.Equal(t, Resolution{Light, SourceDefault}, svc.Get(ctx, "client-2", ""))
}

func TestServiceSetRejectsBadInput(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil)
	assert.Error(t, svc.Set(t.Context(), "c", "sepia"))
	assert.Error(t, svc.Set(t.Context(), "", Dark))
}

func TestServiceGetWithoutClient(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil)
	assert.Equal(t, Resolution{Dark, SourceSystem}, svc.Get(t.Context(), "", Dark))
}

type failingStore struct{}

func (failingStore) Load(context.Context, string) (Theme, bool, error) {
	return "", false, errors.New("disk on fire")
}

func (failingStore) Save(context.Context, string, Theme) error {
	return errors.New("disk on fire")
}

func TestServiceStoreFailureFallsThrough(t *testing.T) {
	svc := NewService(failingStore{}, zaptest.NewLogger(t).Sugar())
	assert.Equal(t, Resolution{Dark, SourceSystem}, svc.Get(t.Context(), "c", Dark))
	assert.Error(t, svc.Set(t.Context(), "c", Dark))
}

func TestSQLStoreSurvivesReload(t *testing.T) {
	database, err := db.OpenMemory()
	require.NoError(t, err)
	defer database.Close()
	ctx := t.Context()

	first := NewService(NewSQLStore(database), nil)
	require.NoError(t, first.Set(ctx, "browser", Dark))

	// A fresh service over the same database stands in for a full reload:
	// in-memory state is gone, persisted state is not.
	second := NewService(NewSQLStore(database), nil)
	assert.Equal(t, Resolution{Dark, SourceStored}, second.Get(ctx, "browser", Light))

	require.NoError(t, second.Set(ctx, "browser", Light))
	got, ok, err := NewSQLStore(database).Load(ctx, "browser")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Light, got)
}

func TestSQLStoreIgnoresGarbage(t *testing.T) {
	database, err := db.OpenMemory()
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO preferences (client_id, key, value) VALUES ('c', 'theme', 'sepia')`)
	require.NoError(t, err)

	_, ok, err := NewSQLStore(database).Load(t.Context(), "c")
	require.NoError(t, err)
	assert.False(t, ok)
}
