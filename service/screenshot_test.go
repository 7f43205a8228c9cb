package service

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	mu          sync.Mutex
	screenshots []*model.ScreenshotRecord
	jobs        []*model.ProcessingJob
	err         error
}

func (s *recordingStore) RecordScreenshot(_ context.Context, r *model.ScreenshotRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screenshots = append(s.screenshots, r)
	return s.err
}

func (s *recordingStore) RecordJob(_ context.Context, j *model.ProcessingJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, j)
	return s.err
}

var screenshotName = regexp.MustCompile(`^screenshot_[0-9A-Za-z]{27}_20240315_093000\.png$`)

func newTestScreenshots(t *testing.T, retention time.Duration, store MetadataStore) *ScreenshotService {
	t.Helper()
	svc := NewScreenshotService(&config.ScreenshotConfig{Dir: t.TempDir(), Retention: retention}, store)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestScreenshotService_Save(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	svc := newTestScreenshots(t, 0, store)
	payload := pngDataURI(t, squareOnWhite())

	name, savedAt, err := svc.Save(context.Background(), payload)
	require.NoError(t, err)
	assert.Regexp(t, screenshotName, name)
	assert.Equal(t, 2024, savedAt.Year())

	data, err := os.ReadFile(filepath.Join(svc.Dir(), name))
	require.NoError(t, err)
	raw, _ := base64.StdEncoding.DecodeString(payload[len(pngDataURIPrefix):])
	assert.Equal(t, raw, data)

	require.Len(t, store.screenshots, 1)
	assert.Equal(t, name, store.screenshots[0].Filename)
	assert.Equal(t, int64(len(raw)), store.screenshots[0].FileSize)
}

func TestScreenshotService_SaveIgnoresStoreFailure(t *testing.T) {
	t.Parallel()

	svc := newTestScreenshots(t, 0, &recordingStore{err: errors.New("db down")})
	_, _, err := svc.Save(context.Background(), pngDataURI(t, fillImage(2, 2, red)))
	assert.NoError(t, err)
}

func TestScreenshotService_SaveRejectsInvalid(t *testing.T) {
	t.Parallel()

	svc := newTestScreenshots(t, 0, nil)
	for _, payload := range []string{
		jpegDataURI(t, fillImage(2, 2, red)),
		"data:image/png;base64,%%%",
		"hello",
	} {
		_, _, err := svc.Save(context.Background(), payload)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	}

	files, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScreenshotService_List(t *testing.T) {
	t.Parallel()

	svc := newTestScreenshots(t, 0, nil)
	dir := svc.Dir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), []byte("bb"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0755))

	files, err := svc.List()
	require.NoError(t, err)
	assert.Equal(t, []model.ScreenshotFile{
		{Filename: "a.png", URL: "/screenshots/a.png", Size: 1},
		{Filename: "b.png", URL: "/screenshots/b.png", Size: 2},
	}, files)
}

func TestScreenshotService_ListMissingDir(t *testing.T) {
	t.Parallel()

	svc := NewScreenshotService(&config.ScreenshotConfig{Dir: filepath.Join(t.TempDir(), "absent")}, nil)
	files, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScreenshotService_Cleanup(t *testing.T) {
	t.Parallel()

	svc := newTestScreenshots(t, time.Hour, nil)
	now := svc.now()
	dir := svc.Dir()

	old := filepath.Join(dir, "old.png")
	fresh := filepath.Join(dir, "fresh.png")
	other := filepath.Join(dir, "old.txt")
	for _, p := range []string{old, fresh, other} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
	require.NoError(t, os.Chtimes(old, now.Add(-2*time.Hour), now.Add(-2*time.Hour)))
	require.NoError(t, os.Chtimes(other, now.Add(-2*time.Hour), now.Add(-2*time.Hour)))
	require.NoError(t, os.Chtimes(fresh, now.Add(-10*time.Minute), now.Add(-10*time.Minute)))

	removed, err := svc.Cleanup()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}

func TestScreenshotService_CleanupDisabled(t *testing.T) {
	t.Parallel()

	svc := newTestScreenshots(t, 0, nil)
	path := filepath.Join(svc.Dir(), "old.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	require.NoError(t, os.Chtimes(path, time.Unix(0, 0), time.Unix(0, 0)))

	removed, err := svc.Cleanup()
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.FileExists(t, path)
}

func TestNewCleanupScheduler(t *testing.T) {
	t.Parallel()

	svc := newTestScreenshots(t, time.Hour, nil)

	c, err := NewCleanupScheduler("@every 1m", svc)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = NewCleanupScheduler("not a schedule", svc)
	assert.Error(t, err)
}

func TestCleanupScheduler_RunsCleanup(t *testing.T) {
	t.Parallel()

	svc := newTestScreenshots(t, time.Hour, nil)
	path := filepath.Join(svc.Dir(), "old.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	require.NoError(t, os.Chtimes(path, time.Unix(0, 0), time.Unix(0, 0)))

	c, err := NewCleanupScheduler("@every 1m", svc)
	require.NoError(t, err)
	c.Entries()[0].Job.Run()

	assert.NoFileExists(t, path)
}
