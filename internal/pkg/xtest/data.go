package xtest

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/emberlink/chatstream/llm/httpclient"
)

// LoadTestData reads a fixture from the calling package's testdata directory.
func LoadTestData(t *testing.T, filename string) ([]byte, error) {
	t.Helper()

	return os.ReadFile(filepath.Join("testdata", filename))
}

// LoadStreamChunks reads a JSONL fixture from the calling package's testdata
// directory, one SSE frame per line. Blank lines are skipped.
func LoadStreamChunks(t *testing.T, filename string) ([]*httpclient.StreamEvent, error) {
	t.Helper()

	file, err := os.Open(filepath.Join("testdata", filename))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var events []*httpclient.StreamEvent

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		event, err := httpclient.DecodeStreamEventFromJSON(line)
		if err != nil {
			return nil, err
		}

		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
