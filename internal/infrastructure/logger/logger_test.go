package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupLevel(t *testing.T) {
	defer Setup("info")

	Setup("debug")
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("level = %s, want debug", zerolog.GlobalLevel())
	}

	Setup(" WARN ")
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("level = %s, want warn", zerolog.GlobalLevel())
	}

	Setup("nonsense")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("level = %s, want info fallback", zerolog.GlobalLevel())
	}

	Setup("")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("level = %s, want info for empty", zerolog.GlobalLevel())
	}
}
