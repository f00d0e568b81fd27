package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/api"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/cache/noop"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/listing"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/pagination"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/services"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/store/memory"
	"github.com/Clinton-Cochrane/mobile-grocery/pkg/recipeclient"
)

func newServer(t *testing.T) string {
	t.Helper()
	st := memory.New()
	co := listing.New(pagination.NewEngine(st.Recipes()), st, noop.New(), zerolog.Nop(), listing.Options{})
	srv := httptest.NewServer(api.NewRouter(api.RouterDeps{
		Recipes: services.NewRecipeService(st, co, zerolog.Nop(), time.Second),
		Health:  co,
		Log:     zerolog.Nop(),
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Execute(args, &out)
	return out.String(), err
}

func TestExecute_Help(t *testing.T) {
	_, err := run(t, "--help")
	assert.NoError(t, err)
	_, err = run(t, "--bogus")
	assert.Error(t, err)
}

func TestExecute_Workflow(t *testing.T) {
	base := newServer(t)

	out, err := run(t, "-a", base, "create", "--title", "Apple Pie", "-i", "Apple", "-i", "Flour", "-d", "easy")
	require.NoError(t, err)
	var pie recipeclient.Recipe
	require.NoError(t, json.Unmarshal([]byte(out), &pie))
	assert.Equal(t, "Easy", pie.Difficulty)

	file := filepath.Join(t.TempDir(), "bread.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"title":"Banana Bread","ingredients":["banana","flour"]}`), 0o600))
	out, err = run(t, "-a", base, "create", "-f", file)
	require.NoError(t, err)
	var bread recipeclient.Recipe
	require.NoError(t, json.Unmarshal([]byte(out), &bread))

	out, err = run(t, "-a", base, "list", "--difficulty", "Easy")
	require.NoError(t, err)
	var page recipeclient.Page
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, "Apple Pie", page.Recipes[0].Title)

	out, err = run(t, "-a", base, "shopping-list", pie.ID, bread.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apple (1)\nFlour (2)\nbanana (1)\n", out)

	out, err = run(t, "-a", base, "delete", pie.ID)
	require.NoError(t, err)
	assert.Equal(t, "deleted "+pie.ID+"\n", out)

	_, err = run(t, "-a", base, "get", pie.ID)
	assert.ErrorIs(t, err, recipeclient.ErrNotFound)

	out, err = run(t, "-a", base, "health")
	require.NoError(t, err)
	assert.Contains(t, out, `"store": "healthy"`)
}

func TestExecute_Update(t *testing.T) {
	base := newServer(t)

	out, err := run(t, "-a", base, "create", "--title", "Soup", "-i", "Carrot", "--description", "warm")
	require.NoError(t, err)
	var soup recipeclient.Recipe
	require.NoError(t, json.Unmarshal([]byte(out), &soup))

	out, err = run(t, "-a", base, "update", soup.ID, "--title", "Carrot Soup", "-d", "medium", "-i", "carrot", "-i", "onion")
	require.NoError(t, err)
	var updated recipeclient.Recipe
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, soup.ID, updated.ID)
	assert.Equal(t, "Carrot Soup", updated.Title)
	assert.Equal(t, "Medium", updated.Difficulty)
	assert.Equal(t, []string{"carrot", "onion"}, updated.Ingredients)
	assert.Equal(t, "warm", updated.Description)

	out, err = run(t, "-a", base, "list", "--letter", "c")
	require.NoError(t, err)
	var page recipeclient.Page
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, "Carrot Soup", page.Recipes[0].Title)

	_, err = run(t, "-a", base, "update", soup.ID)
	assert.ErrorContains(t, err, "nothing to update")
}

func TestExecute_CreateRequiresTitle(t *testing.T) {
	_, err := run(t, "-a", "http://127.0.0.1:1", "create")
	assert.ErrorContains(t, err, "--title")
}

func TestRunMain_Failure(t *testing.T) {
	code := -1
	runMain([]string{"recipectl", "get"}, &bytes.Buffer{}, func(c int) { code = c })
	assert.Equal(t, 1, code)
}
