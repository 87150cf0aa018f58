package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/items/internal/model"
	"github.com/idilsaglam/items/internal/ui"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ITEMS_CONFIG", "ITEMS_ENDPOINT", "ITEMS_TIMEOUT", "ITEMS_THEME", "ITEMS_LOG_LEVEL", "ITEMS_LOG_FILE"} {
		t.Setenv(k, "")
	}
}

func itemServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestListPanel(t *testing.T) {
	clearEnv(t)
	srv, hits := itemServer(t, http.StatusOK, `[{"item_id":1,"item_name":"Apple","energy_Kcal":52},{"item_id":2,"item_name":"Big Mac","energy_Kcal":550}]`)

	code, out, errOut := run(t, "ls", "--theme", "mono", "--endpoint", srv.URL)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Item List")
	assert.Contains(t, out, "2 items · 602 Kcal")
	assert.Contains(t, out, "Apple: 52 Kcal")
	assert.Contains(t, out, "Big Mac: 550 Kcal ############")
	assert.Empty(t, errOut)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestListEmpty(t *testing.T) {
	clearEnv(t)
	srv, _ := itemServer(t, http.StatusOK, `[]`)

	code, out, _ := run(t, "ls", "--theme", "mono", "--endpoint", srv.URL)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Item List")
	assert.Contains(t, out, "0 items")
	assert.NotContains(t, out, "Error:")
}

func TestListJSON(t *testing.T) {
	clearEnv(t)
	srv, _ := itemServer(t, http.StatusOK, `[{"item_id":1,"item_name":"Apple","energy_Kcal":52,"food_type":"fruit"}]`)

	code, out, errOut := run(t, "ls", "-o", "json", "--endpoint", srv.URL)
	require.Equal(t, 0, code, errOut)

	var items []model.Item
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Equal(t, []model.Item{{ID: 1, Name: "Apple", EnergyKcal: 52, FoodType: "fruit"}}, items)
}

func TestListMarkdown(t *testing.T) {
	clearEnv(t)
	srv, _ := itemServer(t, http.StatusOK, `[{"item_id":1,"item_name":"Apple","energy_Kcal":52}]`)

	code, out, errOut := run(t, "ls", "--format", "markdown", "--theme", "mono", "--endpoint", srv.URL)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Item List")
	assert.Contains(t, out, "Apple")
	assert.Contains(t, out, "52")
}

func TestMarkdownTableEscapesCells(t *testing.T) {
	md := markdownTable([]model.Item{{ID: 4, Name: "Fish | Chips", EnergyKcal: 700.5, FoodType: "meal"}})
	assert.Contains(t, md, `| 1 | 4 | Fish \| Chips | 700.5 | meal |`)
	assert.Contains(t, markdownTable(nil), "_No items._")
}

func TestListFetchError(t *testing.T) {
	clearEnv(t)
	srv, hits := itemServer(t, http.StatusServiceUnavailable, `down`)

	code, out, errOut := run(t, "ls", "--endpoint", srv.URL)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Error: fetch failed: request failed with status code 503")
	assert.NotContains(t, errOut, "Item List")
	assert.Equal(t, int32(1), atomic.LoadInt32(hits), "no retry expected")
}

func TestListNetworkError(t *testing.T) {
	clearEnv(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	code, _, errOut := run(t, "ls", "--endpoint", url)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Error: fetch failed:")
}

func TestUsageErrors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown flag", args: []string{"ls", "--nope"}, want: "unknown flag"},
		{name: "unknown format", args: []string{"ls", "--format", "xml"}, want: `unknown format "xml"`},
		{name: "stray argument", args: []string{"ls", "extra"}, want: "unknown command"},
		{name: "unknown subcommand", args: []string{"frobnicate"}, want: "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := run(t, tt.args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, errOut, tt.want)
			assert.Contains(t, errOut, "Usage:")
		})
	}
}

func TestUsageErrorPrintsFailingCommandUsage(t *testing.T) {
	clearEnv(t)

	code, _, errOut := run(t, "ls", "--format", "xml")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "items ls [flags]")
	assert.Contains(t, errOut, "--format")
	assert.NotContains(t, errOut, "items [command]")

	code, _, errOut = run(t, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "items [command]")
}

func TestColorFlag(t *testing.T) {
	clearEnv(t)
	defer ui.SetColorForcing(false, false)
	srv, _ := itemServer(t, http.StatusOK, `[{"item_id":1,"item_name":"Apple","energy_Kcal":52}]`)

	code, out, errOut := run(t, "ls", "--color", "always", "--endpoint", srv.URL)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "\033[34m 1.\033[0m", "row index uses the accent color")

	code, out, _ = run(t, "ls", "--color", "never", "--endpoint", srv.URL)
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "\033[")

	code, _, errOut = run(t, "ls", "--color", "sometimes", "--endpoint", srv.URL)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `invalid --color "sometimes"`)
}

func TestInvalidConfigFails(t *testing.T) {
	clearEnv(t)

	code, _, errOut := run(t, "config", "--theme", "pastel")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid configuration: invalid theme")

	code, _, errOut = run(t, "config", "--endpoint", "not a url")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid endpoint")
}

func TestConfigPrecedence(t *testing.T) {
	clearEnv(t)
	p := filepath.Join(t.TempDir(), "items.yaml")
	require.NoError(t, os.WriteFile(p, []byte("endpoint: http://file:1/api\ntheme: neon\ntimeout: 4s\n"), 0o644))
	t.Setenv("ITEMS_THEME", "mono")

	code, out, errOut := run(t, "config", "--config", p, "--timeout", "2s")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "endpoint: http://file:1/api")
	assert.Contains(t, out, "theme: mono")
	assert.Contains(t, out, "timeout: 2s")
}

func TestConfigDefaults(t *testing.T) {
	clearEnv(t)

	code, out, _ := run(t, "config")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "endpoint: http://localhost:8081/itemController/api/item")
	assert.Contains(t, out, "timeout: 10s")
}

func TestLogFileReceivesFetchFailure(t *testing.T) {
	clearEnv(t)
	srv, _ := itemServer(t, http.StatusInternalServerError, ``)
	logPath := filepath.Join(t.TempDir(), "items.log")

	code, _, _ := run(t, "ls", "--endpoint", srv.URL, "--log-file", logPath)
	assert.Equal(t, 1, code)

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "fetch items failed")
}
