package history

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/yvann-ba/ft-transcendence-sub000/internal/game"
)

// maxRecordSize bounds a single frame so a corrupt length cannot trigger a
// huge allocation.
const maxRecordSize = 64 << 10

var ErrCorrupt = errors.New("history file is corrupt")

// FileStore appends results to a local file, one gob frame per record.
//
// Each frame is a big-endian uint32 length followed by a self-contained gob
// stream, so the file can be appended to across runs.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Report appends r to the file, creating it if needed.
func (s *FileStore) Report(ctx context.Context, r game.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	frame, err := encodeRecord(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	if _, err := f.Write(frame); err != nil {
		f.Close()
		return fmt.Errorf("write history record: %w", err)
	}
	return f.Close()
}

// Load reads every record in the file. A missing file is an empty history.
// A truncated or unreadable tail returns the records before it along with
// an error wrapping ErrCorrupt.
func (s *FileStore) Load() ([]game.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	return decodeRecords(bufio.NewReader(f))
}

func encodeRecord(r game.Result) ([]byte, error) {
	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(&r); err != nil {
		return nil, fmt.Errorf("encode history record: %w", err)
	}

	frame := make([]byte, 4, 4+body.Len())
	binary.BigEndian.PutUint32(frame, uint32(body.Len()))
	return append(frame, body.Bytes()...), nil
}

func decodeRecords(r io.Reader) ([]game.Result, error) {
	var results []game.Result
	var header [4]byte

	for {
		if _, err := io.ReadFull(r, header[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return results, nil
			}
			return results, fmt.Errorf("%w: record %d header: %v", ErrCorrupt, len(results), err)
		}

		size := binary.BigEndian.Uint32(header[:])
		if size == 0 || size > maxRecordSize {
			return results, fmt.Errorf("%w: record %d has size %d", ErrCorrupt, len(results), size)
		}

		body := make([]byte, size)
		if _, err := io.ReadFull(r, body); err != nil {
			return results, fmt.Errorf("%w: record %d body: %v", ErrCorrupt, len(results), err)
		}

		var res game.Result
		if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&res); err != nil {
			return results, fmt.Errorf("%w: record %d: %v", ErrCorrupt, len(results), err)
		}
		results = append(results, res)
	}
}
