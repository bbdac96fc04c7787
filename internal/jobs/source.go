// Package jobs retrieves scheduled-job records from the agent CLI (or a JSON
// file) and turns them into dashboard timeline reports.
package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"opsnap/pkg/logx"
)

// Source lists the scheduled jobs to report on.
type Source interface {
	List(ctx context.Context) ([]Record, error)
}

// CLISource shells out to the agent CLI. It asks for JSON first and falls
// back to parsing the human-readable table when the installed CLI predates
// the --json flag.
type CLISource struct {
	log     logx.Logger
	command []string
	timeout time.Duration
}

const defaultCLITimeout = 10 * time.Second

func NewCLISource(command []string, timeout time.Duration, log logx.Logger) *CLISource {
	if timeout <= 0 {
		timeout = defaultCLITimeout
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &CLISource{log: log, command: command, timeout: timeout}
}

func (s *CLISource) List(ctx context.Context) ([]Record, error) {
	if len(s.command) == 0 {
		return nil, errors.New("jobs command not configured")
	}

	out, err := s.run(ctx, append(append([]string(nil), s.command...), "--json"))
	if err == nil {
		records, jerr := decodeRecords(out)
		if jerr == nil {
			return records, nil
		}
		err = jerr
	}
	s.log.Debug("jobs json listing failed; trying text output", logx.Err(err))

	out, terr := s.run(ctx, s.command)
	if terr != nil {
		return nil, fmt.Errorf("jobs cli: %w", terr)
	}
	return ParseTable(string(out)), nil
}

func (s *CLISource) run(ctx context.Context, argv []string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

func decodeRecords(b []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(bytes.TrimSpace(b), &records); err != nil {
		return nil, fmt.Errorf("decode job listing: %w", err)
	}
	return records, nil
}

// ParseTable parses the CLI's plain-text table. Columns are space-separated
// with a multi-word name column; the schedule column starts at the first
// keyword token ("cron", "every", "at") and the upcoming-run column is
// introduced by an "in" marker:
//
//	ID        NAME            SCHEDULE          NEXT
//	a1b2c3d4  morning brief   cron 0 7 * * *    in 9h
//
// Lines that don't fit are skipped.
func ParseTable(output string) []Record {
	var out []Record
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			// header
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 3 {
			continue
		}

		rec := Record{ID: parts[0], Status: "ok"}

		schedStart := -1
		for j := 1; j < len(parts); j++ {
			if parts[j] == "cron" || parts[j] == "every" || parts[j] == "at" {
				schedStart = j
				break
			}
		}
		if schedStart < 0 {
			continue
		}
		rec.Name = strings.Join(parts[1:schedStart], " ")
		if rec.Name == "" {
			rec.Name = parts[0]
		}

		inIdx := -1
		for j := schedStart + 1; j < len(parts); j++ {
			if parts[j] == "in" {
				inIdx = j
				break
			}
		}
		if inIdx >= 0 {
			rec.Schedule = strings.Join(parts[schedStart:inIdx], " ")
			if inIdx+1 < len(parts) {
				rec.Next = "in " + parts[inIdx+1]
			}
		} else {
			rec.Schedule = strings.Join(parts[schedStart:], " ")
		}
		out = append(out, rec)
	}
	return out
}

// FileSource reads records from a JSON file. Mostly useful when the snapshot
// runs on a machine without the agent CLI, or in tests.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

func (s *FileSource) List(ctx context.Context) ([]Record, error) {
	_ = ctx
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("jobs file: %w", err)
	}
	return decodeRecords(b)
}
