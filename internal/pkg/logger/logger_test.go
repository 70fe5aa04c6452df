package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfigureLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "warn", Output: &buf})
	defer Configure(Config{})

	Info().Msg("routine detail")
	Warn().Msg("needs attention")

	out := buf.String()
	if strings.Contains(out, "routine detail") {
		t.Errorf("info event emitted at warn level: %s", out)
	}
	if !strings.Contains(out, "needs attention") {
		t.Errorf("warn event missing from output: %s", out)
	}
}

func TestConfigureUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "loud", Output: &buf})
	defer Configure(Config{})

	Debug().Msg("hidden at info")
	Info().Msg("visible at info")

	out := buf.String()
	if strings.Contains(out, "hidden at info") {
		t.Errorf("debug event emitted after level fallback: %s", out)
	}
	if !strings.Contains(out, "visible at info") {
		t.Errorf("info event missing after level fallback: %s", out)
	}
}

func TestConfigureEmitsJSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf})
	defer Configure(Config{})

	Info().Str("batchId", "3").Msg("import finished")

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected a JSON line, got %s", line)
	}
	for _, want := range []string{`"level":"info"`, `"batchId":"3"`, `"message":"import finished"`} {
		if !strings.Contains(line, want) {
			t.Errorf("output missing %s: %s", want, line)
		}
	}
}
