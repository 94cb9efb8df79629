package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x6d61/dorkgen/internal/config"
	"github.com/0x6d61/dorkgen/internal/store"
	"github.com/0x6d61/dorkgen/internal/testutil"
)

// --------------------------------------------------------------------------
// Full session against fake Gemini, search and Shodan servers
// --------------------------------------------------------------------------

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	gemini := testutil.NewGeminiServer()
	t.Cleanup(gemini.Close)
	searchSrv := testutil.NewSearchServer()
	t.Cleanup(searchSrv.Close)
	shodanSrv := testutil.NewShodanServer()
	t.Cleanup(shodanSrv.Close)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(dir, "db", "google_dorks.db")
	cfg.Log.Dir = filepath.Join(dir, "logs")
	cfg.Log.Level = "debug"
	cfg.Generation.Delay = 0
	cfg.Generation.BatchSize = 3
	cfg.LLM.BaseURL = gemini.URL
	cfg.LLM.MaxRetries = 0
	cfg.Search.BaseURL = searchSrv.URL
	cfg.Search.Delay = 0
	cfg.Shodan.BaseURL = shodanSrv.URL
	cfg.Shodan.APIKey = testutil.ShodanAPIKey
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunSession_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	jsonPath := filepath.Join(t.TempDir(), "dorks.json")

	script := strings.Join([]string{
		"9", "1", "Gemini", testutil.GeminiAPIKey, // save generation key
		"1", "8", "9, 16", // Finding Subdomains ok, Finding Vulnerabilities fails
		"7",                  // automated search over the 3 generated dorks
		"8", "webcam",        // index search with the configured key
		"10", "2", jsonPath, // JSON export
		"12", // view stored
		"13",
	}, "\n") + "\n"

	var out bytes.Buffer
	require.NoError(t, runSession(context.Background(), cfg, strings.NewReader(script), &out))
	text := out.String()

	want := testutil.DorksFor("Finding Subdomains", 3)
	assert.Contains(t, text, "Generated Dorks for 'Finding Subdomains':")
	assert.Contains(t, text, "Error generating dorks for 'Finding Vulnerabilities'")
	assert.Contains(t, text, "simulated failure")
	for _, d := range want {
		assert.Contains(t, text, testutil.SearchTitles(d)[0])
	}
	assert.Contains(t, text, "Total results found: 2")
	assert.Contains(t, text, "IP: 192.0.2.10")
	assert.Contains(t, text, "Dorks in Database:")
	assert.NotContains(t, text, testutil.GeminiAPIKey, "saved key must not be echoed")

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var exported map[string][]string
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, map[string][]string{"Finding Subdomains": want}, exported)

	st, err := store.NewSQLiteStore(context.Background(), cfg.Storage.DBPath)
	require.NoError(t, err)
	defer st.Close()
	rows, err := st.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, r := range rows {
		assert.Equal(t, "Finding Subdomains", r.Category)
		assert.Equal(t, want[i], r.Dork)
	}

	logs, err := os.ReadFile(filepath.Join(cfg.Log.Dir, cfg.Log.File))
	require.NoError(t, err)
	assert.Contains(t, string(logs), "error generating dorks")
	assert.Contains(t, string(logs), "session=")
	assert.NotContains(t, string(logs), testutil.GeminiAPIKey)
}

func TestRunSession_MissingGenerationKey(t *testing.T) {
	cfg := testConfig(t)

	var out bytes.Buffer
	require.NoError(t, runSession(context.Background(), cfg, strings.NewReader("1\n8\n16\n13\n"), &out))
	assert.Contains(t, out.String(), "Cannot generate dorks")
}

func TestRunSession_StoreAppendsAcrossRuns(t *testing.T) {
	cfg := testConfig(t)
	script := "6\nadmin\ninurl:\n13\n"

	for range 2 {
		var out bytes.Buffer
		require.NoError(t, runSession(context.Background(), cfg, strings.NewReader(script), &out))
	}

	st, err := store.NewSQLiteStore(context.Background(), cfg.Storage.DBPath)
	require.NoError(t, err)
	defer st.Close()
	rows, err := st.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRunSession_UnwritableLogDir(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg.Log.Dir = filepath.Join(blocker, "logs")

	err := runSession(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}
