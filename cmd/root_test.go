package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/buyer-match/internal/geo"
	"github.com/sells-group/buyer-match/internal/servicefit"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"normalize", "score", "weights", "dedupe", "migrate", "serve"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "buyer-match", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestSubcommands_Modes(t *testing.T) {
	tests := []struct {
		name string
		mode string
	}{
		{"normalize", ""},
		{"migrate", "store"},
		{"dedupe", "store"},
		{"serve", "serve"},
	}
	for _, tt := range tests {
		cmd, _, err := rootCmd.Find([]string{tt.name})
		require.NoError(t, err)
		assert.Equal(t, tt.mode, cmd.Annotations[modeAnnotation], tt.name)
	}

	for _, sub := range [][]string{{"score", "deal"}, {"weights", "recalc"}, {"weights", "show"}, {"weights", "reset"}} {
		cmd, _, err := rootCmd.Find(sub)
		require.NoError(t, err)
		assert.Equal(t, "store", cmd.Annotations[modeAnnotation], sub)
	}
}

func TestCommandFlags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)

	flag = dedupeCmd.Flags().Lookup("execute")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)

	flag = scoreServiceCmd.Flags().Lookup("criteria")
	require.NotNil(t, flag)
}

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestNormalizeCommand(t *testing.T) {
	t.Setenv("BUYERMATCH_LOG_LEVEL", "error")
	out := execute(t, "", "normalize", "Dallas, TX", "ontario")

	var res normalizeResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"TX"}, res.States)
	assert.Equal(t, []string{"ON"}, res.Provinces)
}

func TestScoreGeoCommand(t *testing.T) {
	t.Setenv("BUYERMATCH_LOG_LEVEL", "error")
	out := execute(t, `{"buyer": {"hq": "Tulsa, OK"}, "deal_states": ["Texas"], "location_count": 1}`, "score", "geo")

	var res geo.GeoResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 75, res.Score, 0.001)
	assert.Equal(t, []string{"OK"}, res.AdjacentMatches)
}

func TestScoreServiceCommand_WithCriteriaFile(t *testing.T) {
	t.Setenv("BUYERMATCH_LOG_LEVEL", "error")
	t.Setenv("BUYERMATCH_ANTHROPIC_KEY", "")

	criteria := filepath.Join(t.TempDir(), "criteria.yaml")
	require.NoError(t, os.WriteFile(criteria, []byte("required: [hvac]\n"), 0o600))
	t.Cleanup(func() { scoreServiceCriteria = "" })

	out := execute(t, `{"deal_services": "HVAC install and repair"}`, "score", "service", "--criteria", criteria)

	var res servicefit.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 80, res.Score, 0.001)
	assert.False(t, res.UsedAI)
	assert.Equal(t, []string{"hvac"}, res.MatchedServices)
}

func TestReadJSONInput_MissingFile(t *testing.T) {
	var v map[string]any
	err := readJSONInput(filepath.Join(t.TempDir(), "nope.json"), nil, &v)
	assert.Error(t, err)
}
