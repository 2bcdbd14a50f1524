package queue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Job asks a worker to ingest the file at FilePath as DocumentID.
type Job struct {
	// DocumentID is the textual form of the id; numeric ids are kept as their digits.
	DocumentID string
	FilePath   string

	// rawID is documentId exactly as it appeared in the payload.
	rawID json.RawMessage
}

type jobWire struct {
	DocumentID json.RawMessage `json:"documentId,omitempty"`
	FilePath   string          `json:"filePath,omitempty"`
}

// UnmarshalJSON accepts documentId as a JSON string or number.
func (j *Job) UnmarshalJSON(data []byte) error {
	var w jobWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id, err := idText(w.DocumentID)
	if err != nil {
		return err
	}

	*j = Job{
		DocumentID: id,
		FilePath:   w.FilePath,
	}
	if len(w.DocumentID) > 0 && !bytes.Equal(w.DocumentID, []byte("null")) {
		j.rawID = append(json.RawMessage(nil), w.DocumentID...)
	}
	return nil
}

// MarshalJSON writes documentId in its original form when the job was decoded
// from a payload, and as a string otherwise.
func (j Job) MarshalJSON() ([]byte, error) {
	return json.Marshal(jobWire{DocumentID: j.RawID(), FilePath: j.FilePath})
}

// RawID returns documentId as it should be echoed back to the producer.
func (j Job) RawID() json.RawMessage {
	if len(j.rawID) > 0 {
		return j.rawID
	}
	if j.DocumentID == "" {
		return nil
	}
	quoted, _ := json.Marshal(j.DocumentID)
	return quoted
}

// Validate reports ErrMalformedJob when either field is missing.
func (j *Job) Validate() error {
	var missing []string
	if strings.TrimSpace(j.DocumentID) == "" {
		missing = append(missing, "documentId")
	}
	if strings.TrimSpace(j.FilePath) == "" {
		missing = append(missing, "filePath")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMalformedJob, strings.Join(missing, " and "))
	}
	return nil
}

// idText renders a raw documentId as text.
func idText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if _, err := strconv.ParseFloat(string(raw), 64); err != nil {
			return "", fmt.Errorf("invalid documentId %s", raw)
		}
		return string(raw), nil
	default:
		return "", fmt.Errorf("documentId must be a string or number, got %s", raw)
	}
}
