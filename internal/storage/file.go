package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"opsnap/pkg/logx"
)

// fileStore is a dependency-free ledger backend: an append-only JSON Lines
// file, compacted once it grows past a line budget.
type fileStore struct {
	log logx.Logger

	mu   sync.Mutex
	path string
	f    *os.File

	writes int
}

// maxLedgerLines bounds the file before compaction trims it back to the
// newest half. The ledger is an operational breadcrumb trail, not history.
const maxLedgerLines = 2000

type runRecord struct {
	At         string `json:"at"`
	Activities int    `json:"activities"`
	Jobs       int    `json:"jobs"`
	Documents  int    `json:"documents"`
	TookMS     int64  `json:"took_ms"`
	Error      string `json:"error,omitempty"`
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if filepath.Ext(path) == "" {
		path += ".runs.jsonl"
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o600)
	if err != nil {
		return nil, err
	}
	return &fileStore{log: log, path: path, f: f}, nil
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

func (s *fileStore) AppendRun(ctx context.Context, e RunEntry) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return errors.New("ledger closed")
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	rec := runRecord{
		At:         e.At.Format(time.RFC3339Nano),
		Activities: e.Activities,
		Jobs:       e.Jobs,
		Documents:  e.Documents,
		TookMS:     e.TookMS,
		Error:      e.Error,
	}
	if err := json.NewEncoder(s.f).Encode(rec); err != nil {
		return err
	}
	s.writes++
	if s.writes%100 == 0 {
		if err := s.compactLocked(); err != nil {
			s.log.Debug("ledger compact failed", logx.Err(err))
		}
	}
	return nil
}

func (s *fileStore) RecentRuns(ctx context.Context, limit int) ([]RunEntry, error) {
	_ = ctx
	if limit <= 0 {
		limit = 20
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.readAllLocked()
	if err != nil {
		return nil, err
	}
	if len(recs) > limit {
		recs = recs[len(recs)-limit:]
	}
	out := make([]RunEntry, 0, len(recs))
	for _, r := range recs {
		at, _ := time.Parse(time.RFC3339Nano, r.At)
		out = append(out, RunEntry{
			At:         at,
			Activities: r.Activities,
			Jobs:       r.Jobs,
			Documents:  r.Documents,
			TookMS:     r.TookMS,
			Error:      r.Error,
		})
	}
	return out, nil
}

func (s *fileStore) readAllLocked() ([]runRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []runRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r runRecord
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out, sc.Err()
}

func (s *fileStore) compactLocked() error {
	recs, err := s.readAllLocked()
	if err != nil {
		return err
	}
	if len(recs) <= maxLedgerLines {
		return nil
	}
	recs = recs[len(recs)-maxLedgerLines/2:]

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}

	// Reopen the append handle on the new inode.
	_ = s.f.Close()
	nf, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o600)
	if err != nil {
		s.f = nil
		return err
	}
	s.f = nf
	return nil
}
