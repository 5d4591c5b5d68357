package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"taskboard/internal/model"
)

const snapshotVersion = 1

type snapshotFile struct {
	Version int          `json:"version"`
	Tasks   []model.Task `json:"tasks"`
}

// decodeSnapshotJSON accepts {"version":1,"tasks":[...]} or a bare task array.
func decodeSnapshotJSON(b []byte) ([]model.Task, error) {
	if isNullOrEmpty(b) {
		return nil, nil
	}
	if strings.HasPrefix(strings.TrimSpace(string(b)), "[") {
		var tasks []model.Task
		if err := json.Unmarshal(b, &tasks); err != nil {
			return nil, err
		}
		return tasks, nil
	}
	var f snapshotFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	if f.Version > snapshotVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d", f.Version, snapshotVersion)
	}
	return f.Tasks, nil
}

func encodeSnapshotJSON(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.MarshalIndent(snapshotFile{Version: snapshotVersion, Tasks: tasks}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func isNullOrEmpty(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	s := strings.TrimSpace(string(b))
	return s == "" || s == "null"
}
