package serve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshwilensky/Google-Books-Search/cmd/application"
	"github.com/joshwilensky/Google-Books-Search/internal/server/repository/memory"
	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
	"github.com/joshwilensky/Google-Books-Search/pkg/logging"
)

func TestResolveSettings(t *testing.T) {
	configured := application.ServerSettings{
		Host:          "0.0.0.0",
		Port:          4000,
		MongoURI:      "mongodb://db:27017",
		MongoDatabase: "books",
		RateLimit:     30,
		Token:         "from-config",
	}

	t.Run("configured values win over flag defaults", func(t *testing.T) {
		cmd := NewCommand(&application.Mock{})
		require.NoError(t, cmd.ParseFlags(nil))

		got := resolveSettings(cmd, configured)
		assert.Equal(t, configured, got)
	})

	t.Run("explicit flags win over configuration", func(t *testing.T) {
		cmd := NewCommand(&application.Mock{})
		require.NoError(t, cmd.ParseFlags([]string{
			"--port", "5000", "--token", "", "--cors-origins", "http://a,http://b", "--rate-limit", "0",
		}))

		got := resolveSettings(cmd, configured)
		assert.Equal(t, 5000, got.Port)
		assert.Equal(t, "", got.Token)
		assert.Equal(t, 0, got.RateLimit)
		assert.Equal(t, []string{"http://a", "http://b"}, got.CORSOrigins)
		assert.Equal(t, "0.0.0.0", got.Host)
	})

	t.Run("empty configuration uses flag defaults", func(t *testing.T) {
		cmd := NewCommand(&application.Mock{})
		require.NoError(t, cmd.ParseFlags(nil))

		got := resolveSettings(cmd, application.ServerSettings{})
		assert.Equal(t, constants.DefaultServerHost, got.Host)
		assert.Equal(t, constants.DefaultServerPort, got.Port)
		assert.Equal(t, constants.DefaultMongoDatabase, got.MongoDatabase)
		assert.Empty(t, got.MongoURI)
	})
}

func TestOpenRepositoryWithoutMongo(t *testing.T) {
	tl := logging.NewTestLogger(t)

	repo, err := openRepository(context.Background(), "", "", tl.Logger)
	require.NoError(t, err)
	assert.IsType(t, &memory.Repository{}, repo)
	tl.AssertContains(t, "kept in memory")
}
