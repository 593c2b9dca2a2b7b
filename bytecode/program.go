package bytecode

import (
	"encoding/json"

	"github.com/gofrs/uuid"
)

// Program is a compiled compilation unit as handed to the SECD machine.
type Program struct {
	ID     uuid.UUID `json:"id"`
	Source string    `json:"source,omitempty"`
	Code   Code      `json:"code"`
}

// NewProgram wraps a compiled code list in a Program with a fresh ID. The
// source is the name of the input the code was compiled from, if any.
func NewProgram(source string, code Code) (*Program, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	if code == nil {
		code = Code{}
	}
	return &Program{ID: id, Source: source, Code: code}, nil
}

// MarshalProgram converts a Program into JSON.
func MarshalProgram(p *Program) ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalProgram converts JSON into a Program.
func UnmarshalProgram(data []byte) (*Program, error) {
	var p Program
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
