package hashtron

import "github.com/goccy/go-json"

type hashtronJSON struct {
	Bits    byte        `json:"bits"`
	Program [][2]uint32 `json:"program"`
}

// MarshalJSON encodes the hashtron as {"bits":b,"program":[[s,max],...]}
func (h Hashtron) MarshalJSON() ([]byte, error) {
	var program = h.program
	if program == nil {
		program = [][2]uint32{}
	}
	return json.Marshal(hashtronJSON{Bits: h.bits, Program: program})
}

// UnmarshalJSON decodes a hashtron encoded by MarshalJSON
func (h *Hashtron) UnmarshalJSON(data []byte) error {
	var v hashtronJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n, err := New(v.Program, v.Bits)
	if err != nil {
		return err
	}
	if n.program == nil {
		n.program = [][2]uint32{}
	}
	*h = *n
	return nil
}
