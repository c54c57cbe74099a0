package show

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshwilensky/Google-Books-Search/cmd/application"
	"github.com/joshwilensky/Google-Books-Search/pkg/books"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
	"github.com/joshwilensky/Google-Books-Search/pkg/search"
)

func TestShowCommand(t *testing.T) {
	volume := books.Volume{
		ID: "B1hSG45JCX4C",
		VolumeInfo: books.VolumeInfo{
			Title:       "Dune",
			Authors:     []string{"Frank Herbert"},
			Publisher:   "Penguin",
			Description: "<p>Set on the desert planet <b>Arrakis</b>.</p>",
			PageCount:   896,
			ImageLinks:  &books.ImageLinks{Small: "http://img/small"},
		},
	}
	stub := &application.SearcherStub{
		GetByIDFunc: func(_ context.Context, id string) (*books.CatalogItem, error) {
			if id != volume.ID {
				return nil, errors.NewNotFoundError("volume", id)
			}
			item := volume.Item()
			return &item, nil
		},
	}

	run := func(t *testing.T, format string, args ...string) (string, error) {
		t.Helper()
		cmd := NewCommand(&application.Mock{
			SearcherFunc:     func() (search.Searcher, error) { return stub, nil },
			OutputFormatFunc: func() string { return format },
		})
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		err := cmd.ExecuteContext(context.Background())
		return out.String(), err
	}

	t.Run("table", func(t *testing.T) {
		out, err := run(t, "table", volume.ID)
		require.NoError(t, err)
		assert.Contains(t, out, "Frank Herbert")
		assert.Contains(t, out, "Penguin")
		assert.Contains(t, out, "896")
		assert.NotContains(t, out, "<b>")
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := run(t, "yaml", volume.ID)
		require.NoError(t, err)

		var details books.Details
		require.NoError(t, yaml.Unmarshal([]byte(out), &details))
		assert.Equal(t, "Dune", details.Title)
		assert.Equal(t, "http://img/small", details.Cover)
		assert.Equal(t, "Set on the desert planet Arrakis.", details.Description)
	})

	t.Run("unknown volume", func(t *testing.T) {
		_, err := run(t, "table", "missing")
		assert.True(t, errors.IsNotFound(err))
	})
}
