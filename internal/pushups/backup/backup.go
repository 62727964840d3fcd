// Package backup exports the whole pushups history (sets and daily notes) as a JSON
// snapshot and hands it to an uploader, Google Drive in production.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/pushupstats/internal/pushups"
	"github.com/2beens/pushupstats/internal/pushups/logs"
	"github.com/2beens/pushupstats/internal/pushups/notes"

	log "github.com/sirupsen/logrus"
)

type Snapshot struct {
	CreatedAt time.Time           `json:"createdAt"`
	TotalReps int                 `json:"totalReps"`
	Logs      []pushups.LogRecord `json:"logs"`
	Notes     []notes.Note        `json:"notes"`
}

type logsLister interface {
	ListAll(ctx context.Context, params logs.ListParams) ([]pushups.LogRecord, error)
}

type notesLister interface {
	List(ctx context.Context) ([]notes.Note, error)
}

// Uploader stores one named backup file and returns its remote ID.
type Uploader interface {
	Upload(ctx context.Context, name string, content []byte) (string, error)
}

type Service struct {
	logs     logsLister
	notes    notesLister
	uploader Uploader
	// injectable clock, for tests
	NowFunc func() time.Time
}

func NewService(logsRepo logsLister, notesRepo notesLister, uploader Uploader) *Service {
	return &Service{
		logs:     logsRepo,
		notes:    notesRepo,
		uploader: uploader,
		NowFunc:  time.Now,
	}
}

// Snapshot reads every stored set and note.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	records, err := s.logs.ListAll(ctx, logs.ListParams{})
	if err != nil {
		return nil, fmt.Errorf("list pushups: %w", err)
	}
	dailyNotes, err := s.notes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	snapshot := &Snapshot{
		CreatedAt: s.NowFunc(),
		Logs:      records,
		Notes:     dailyNotes,
	}
	if snapshot.Logs == nil {
		snapshot.Logs = []pushups.LogRecord{}
	}
	if snapshot.Notes == nil {
		snapshot.Notes = []notes.Note{}
	}
	for _, r := range records {
		snapshot.TotalReps += r.Reps
	}
	return snapshot, nil
}

// DoBackup uploads a fresh snapshot and returns the file name and its remote ID.
func (s *Service) DoBackup(ctx context.Context) (string, string, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return "", "", err
	}

	snapshotJson, err := json.Marshal(snapshot)
	if err != nil {
		return "", "", fmt.Errorf("marshal snapshot: %w", err)
	}

	name := FileName(snapshot.CreatedAt)
	log.Debugf("%s: uploading %d sets, %d notes (%d bytes) ...", name, len(snapshot.Logs), len(snapshot.Notes), len(snapshotJson))

	fileID, err := s.uploader.Upload(ctx, name, snapshotJson)
	if err != nil {
		return name, "", fmt.Errorf("%s: upload: %w", name, err)
	}

	log.Infof("%s: backup saved: %s", name, fileID)
	return name, fileID, nil
}

// FileName is unique per second, e.g. pushups-2026-10-18_150405.json.
func FileName(t time.Time) string {
	return fmt.Sprintf("pushups-%s.json", t.UTC().Format("2006-01-02_150405"))
}
