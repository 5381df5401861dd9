package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/selgo"
	"github.com/hupe1980/selgo/hitset"
)

func collect(t *testing.T, j *Journal) []Entry {
	t.Helper()

	var entries []Entry
	require.NoError(t, j.Replay(func(e Entry) error {
		entries = append(entries, e)
		return nil
	}))
	return entries
}

func TestJournal_AppendReplay(t *testing.T) {
	j, err := Open(t.TempDir())
	require.NoError(t, err)
	defer j.Close()

	seq, err := j.Append(hitset.Of(1, 2, 3), selgo.ModNone)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)

	seq, err = j.Append(hitset.Of(7), selgo.ModShift)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), seq)

	seq, err = j.Append(hitset.New(), selgo.ModAlt)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), seq)

	entries := collect(t, j)
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Seq: 1, Mod: selgo.ModNone, Hits: []int{1, 2, 3}}, entries[0])
	assert.Equal(t, Entry{Seq: 2, Mod: selgo.ModShift, Hits: []int{7}}, entries[1])
	assert.Equal(t, uint64(3), entries[2].Seq)
	assert.Empty(t, entries[2].Hits)

	// Replay does not disturb the append position.
	_, err = j.Append(hitset.Of(9), selgo.ModShiftCtrl)
	require.NoError(t, err)
	assert.Len(t, collect(t, j), 4)
}

func TestJournal_ReplayInto(t *testing.T) {
	j, err := Open(t.TempDir())
	require.NoError(t, err)
	defer j.Close()

	live := selgo.New()
	require.NoError(t, live.Resize(20))

	gestures := []struct {
		hits *hitset.Set
		mod  selgo.Modifier
	}{
		{hitset.Range(0, 5), selgo.ModNone},
		{hitset.Range(8, 12), selgo.ModShift},
		{hitset.Of(2, 3), selgo.ModAlt},
		{hitset.Of(15), selgo.ModShiftCtrl},
	}
	for _, g := range gestures {
		require.NoError(t, live.Apply(g.hits, g.mod))
		_, err := j.Append(g.hits, g.mod)
		require.NoError(t, err)
	}

	restored := selgo.New()
	require.NoError(t, j.ReplayInto(restored, 20))

	assert.Equal(t, live.GroupLabels(), restored.GroupLabels())
	assert.Equal(t, live.LastGroup(), restored.LastGroup())
}

func TestJournal_Reopen(t *testing.T) {
	dir := t.TempDir()

	j, err := Open(dir)
	require.NoError(t, err)
	_, err = j.Append(hitset.Of(1), selgo.ModNone)
	require.NoError(t, err)
	_, err = j.Append(hitset.Of(2), selgo.ModShift)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	j, err = Open(dir)
	require.NoError(t, err)
	defer j.Close()

	assert.Equal(t, uint64(2), j.Seq())

	seq, err := j.Append(hitset.Of(3), selgo.ModShift)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), seq)
	assert.Len(t, collect(t, j), 3)
}

func TestJournal_ReopenKeepsHeaderSettings(t *testing.T) {
	dir := t.TempDir()

	j, err := Open(dir, func(o *Options) { o.Compress = true })
	require.NoError(t, err)
	_, err = j.Append(hitset.Of(1), selgo.ModNone)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	// The file header wins over the options of the reopening process.
	j, err = Open(dir)
	require.NoError(t, err)
	defer j.Close()

	_, err = j.Append(hitset.Of(2), selgo.ModShift)
	require.NoError(t, err)
	assert.Len(t, collect(t, j), 2)
}

func TestJournal_Compressed(t *testing.T) {
	dir := t.TempDir()

	j, err := Open(dir, func(o *Options) { o.Compress = true })
	require.NoError(t, err)

	for i := range 100 {
		_, err := j.Append(hitset.Of(i, i+1000), selgo.ModShift)
		require.NoError(t, err)
	}

	entries := collect(t, j)
	require.Len(t, entries, 100)
	assert.Equal(t, []int{0, 1000}, entries[0].Hits)
	assert.Equal(t, []int{99, 1099}, entries[99].Hits)

	require.NoError(t, j.Close())

	j, err = Open(dir)
	require.NoError(t, err)
	defer j.Close()
	assert.Equal(t, uint64(100), j.Seq())
	assert.Len(t, collect(t, j), 100)
}

func TestJournal_Checkpoint(t *testing.T) {
	dir := t.TempDir()

	j, err := Open(dir)
	require.NoError(t, err)
	defer j.Close()

	for i := range 10 {
		_, err := j.Append(hitset.Of(i), selgo.ModShift)
		require.NoError(t, err)
	}

	require.NoError(t, j.Checkpoint())
	assert.Equal(t, uint64(0), j.Seq())
	assert.Empty(t, collect(t, j))

	seq, err := j.Append(hitset.Of(42), selgo.ModNone)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)

	entries := collect(t, j)
	require.Len(t, entries, 1)
	assert.Equal(t, []int{42}, entries[0].Hits)
}

func TestJournal_AutoCheckpoint(t *testing.T) {
	dir := t.TempDir()

	var fired int
	var j *Journal

	j, err := Open(dir, func(o *Options) {
		o.AutoCheckpointOps = 3
		o.AutoCheckpointMinInterval = 0
		o.CheckpointFunc = func() error {
			fired++
			return j.Checkpoint()
		}
	})
	require.NoError(t, err)
	defer j.Close()

	for i := range 7 {
		_, err := j.Append(hitset.Of(i), selgo.ModShift)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, fired)
	assert.Len(t, collect(t, j), 1)
}

func TestJournal_AutoCheckpointRateLimited(t *testing.T) {
	dir := t.TempDir()

	var fired int
	var j *Journal

	j, err := Open(dir, func(o *Options) {
		o.AutoCheckpointOps = 1
		o.AutoCheckpointMinInterval = time.Hour
		o.CheckpointFunc = func() error {
			fired++
			return j.Checkpoint()
		}
	})
	require.NoError(t, err)
	defer j.Close()

	for i := range 50 {
		_, err := j.Append(hitset.Of(i), selgo.ModShift)
		require.NoError(t, err)
	}

	// The limiter's burst covers the first trigger only.
	assert.Equal(t, 1, fired)
}

func TestJournal_TornTail(t *testing.T) {
	dir := t.TempDir()

	j, err := Open(dir)
	require.NoError(t, err)
	for i := range 3 {
		_, err := j.Append(hitset.Of(i), selgo.ModShift)
		require.NoError(t, err)
	}
	require.NoError(t, j.Close())

	// Cut into the payload of the last entry, as if the process died
	// mid-append.
	path := filepath.Join(dir, fileName)
	st, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, st.Size()-3))

	j, err = Open(dir)
	require.NoError(t, err)
	defer j.Close()

	assert.Equal(t, uint64(2), j.Seq())
	assert.Len(t, collect(t, j), 2)

	// The torn bytes were dropped, so the journal accepts new entries.
	seq, err := j.Append(hitset.Of(99), selgo.ModNone)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), seq)
	assert.Len(t, collect(t, j), 3)
}

func TestJournal_CorruptEntry(t *testing.T) {
	dir := t.TempDir()

	j, err := Open(dir)
	require.NoError(t, err)
	_, err = j.Append(hitset.Of(1, 2), selgo.ModNone)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	// Flip a payload byte; the record checksum no longer matches.
	path := filepath.Join(dir, fileName)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0x01
	require.NoError(t, os.WriteFile(path, data, 0600))

	_, err = Open(dir)
	assert.ErrorIs(t, err, ErrCorruptEntry)
}

func TestJournal_InvalidHeader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("not a journal"), 0600))

	_, err := Open(dir)
	assert.ErrorIs(t, err, ErrInvalidHeader)
}
