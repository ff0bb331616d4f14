package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/value"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

func TestVersion(t *testing.T) {
	rq := require.New(t)

	t.Setenv("APP_VERSION", "1.4.0")

	out, err := execute(t, "version")
	rq.NoError(err)
	rq.Equal("storepilot 1.4.0\n", out)
}

func TestRunFlagErrors(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "Missing goal",
			args:    []string{"run", "--budget", "30"},
			wantErr: "goal",
		},
		{
			name:    "Unknown format",
			args:    []string{"run", "--goal", "pet products", "--budget", "30", "--format", "pdf"},
			wantErr: "pdf",
		},
		{
			name:    "XLSX to stdout",
			args:    []string{"run", "--goal", "pet products", "--budget", "30", "--format", "xlsx"},
			wantErr: "--out",
		},
		{
			name:    "Positional args",
			args:    []string{"serve", "now"},
			wantErr: "unknown command",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			_, err := execute(t, tc.args...)
			rq.ErrorContains(err, tc.wantErr)
		})
	}
}

func TestRunFlagsRequest(t *testing.T) {
	rq := require.New(t)

	flags := runFlags{
		goal:       "  pet products ",
		categories: []string{"dog toys"},
		budget:     30,
		margin:     0.35,
		quantity:   200,
		dryRun:     true,
	}

	rq.Equal(entity.RunRequest{
		Goal:       "pet products",
		Categories: []string{"dog toys"},
		Budget:     30,
		MinMargin:  0.35,
		Quantity:   200,
		DryRun:     true,
	}, flags.request())
}

func TestWriteReportToFile(t *testing.T) {
	rq := require.New(t)

	report := entity.NewReport("run-7", entity.RunRequest{Goal: "pet products"}, value.Steps(),
		time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))

	path := filepath.Join(t.TempDir(), "report.json")

	var stdout bytes.Buffer

	rq.NoError(writeReport(&stdout, runFlags{format: "json", out: path}, report))
	rq.Contains(stdout.String(), path)

	body, err := os.ReadFile(path)
	rq.NoError(err)
	rq.Contains(string(body), `"run_id": "run-7"`)
}
