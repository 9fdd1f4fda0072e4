package model

import "time"

// RawLog is one unparsed unit of log content as published to the raw-log
// topic: the new bytes collected from a single file during one ingest sweep.
type RawLog struct {
	Path        string    `json:"path"`
	Content     string    `json:"content"`
	CollectedAt time.Time `json:"collected_at"`
}
