package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/eslsoft/vocquiz/internal/entity"
)

func Test_writeRankings(t *testing.T) {
	var buf bytes.Buffer
	err := writeRankings(&buf, []entity.RatingEntry{
		{ExternalID: 7, Name: "Ann", Points: 12},
		{ExternalID: 3, Name: "Bob", Points: -2},
	})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", lines)
	}
	if fields := strings.Fields(lines[0]); strings.Join(fields, " ") != "RANK NAME POINTS ID" {
		t.Fatalf("bad header: %q", lines[0])
	}
	if fields := strings.Fields(lines[2]); strings.Join(fields, " ") != "2 Bob -2 3" {
		t.Fatalf("bad second row: %q", lines[2])
	}
}

func Test_writeRankings_empty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeRankings(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No players yet.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func Test_rootCommands(t *testing.T) {
	want := []string{"serve", "play", "db-init", "rating", "bulk"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("command %q not registered: %v", name, err)
		}
	}
	if sub, _, err := rootCmd.Find([]string{"bulk", "stats"}); err != nil || sub.Name() != "stats" {
		t.Fatalf("bulk stats not registered: %v", err)
	}
}
