package mapping

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/synaptica-ai/requestmapping/pkg/datamapper"
	"gorm.io/datatypes"
)

const (
	StatusAccepted  = "accepted"
	StatusMapped    = "mapped"
	StatusPublished = "published"
	StatusFailed    = "failed"
)

// Record tracks one mapping. Only the output is stored: the intake record
// carries the card number.
type Record struct {
	ID            string            `json:"id" gorm:"primaryKey;column:id"`
	SourceEventID string            `json:"source_event_id,omitempty" gorm:"column:source_event_id;index"`
	Source        string            `json:"source" gorm:"column:source"`
	Status        string            `json:"status" gorm:"column:status"`
	Output        datatypes.JSONMap `json:"output,omitempty" gorm:"column:output"`
	Error         string            `json:"error,omitempty" gorm:"column:error"`
	CreatedAt     time.Time         `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time         `json:"updated_at" gorm:"column:updated_at"`
}

func (Record) TableName() string {
	return "mapped_requests"
}

// Result is what callers see when they look a mapping up.
type Result struct {
	ID     string                   `json:"id"`
	Status string                   `json:"status"`
	Output *datamapper.OutputRecord `json:"output,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

func (r Record) Result() (*Result, error) {
	res := &Result{ID: r.ID, Status: r.Status, Error: r.Error}
	if len(r.Output) == 0 {
		return res, nil
	}
	raw, err := json.Marshal(r.Output)
	if err != nil {
		return nil, fmt.Errorf("encoding stored output: %w", err)
	}
	var out datamapper.OutputRecord
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding stored output: %w", err)
	}
	res.Output = &out
	return res, nil
}

// MappingRequest is the body accepted by POST /mappings. Record follows the
// same lenient decoding as POST /map; a missing record maps as empty.
type MappingRequest struct {
	Source string          `json:"source"`
	Record json.RawMessage `json:"record"`
}

func (r MappingRequest) Input() (datamapper.InputRecord, error) {
	if len(r.Record) == 0 || string(r.Record) == "null" {
		return datamapper.InputRecord{}, nil
	}
	return datamapper.DecodeInput(r.Record)
}
