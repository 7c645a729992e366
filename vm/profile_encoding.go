package vm

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// ProfileReport is a snapshot of the adaptive tier, written by
// gs -profile for offline inspection.
type ProfileReport struct {
	Taken     time.Time      `cbor:"1,keyasint"`
	Threshold int            `cbor:"2,keyasint"`
	Epoch     uint64         `cbor:"3,keyasint"`
	Stats     Stats          `cbor:"4,keyasint"`
	Blocks    []BlockProfile `cbor:"5,keyasint,omitempty"` // most promoted first
}

var profileEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: failed to create CBOR enc mode: %v", err))
	}
	profileEncMode = em
}

// Report snapshots the adaptive tier, keeping at most top block profiles.
func (m *Machine) Report(top int) *ProfileReport {
	return &ProfileReport{
		Taken:     time.Now().UTC(),
		Threshold: m.jit.Threshold,
		Epoch:     m.Blocks.Epoch(),
		Stats:     m.Stats(),
		Blocks:    m.TopBlocks(top),
	}
}

// MarshalProfile serializes a report to canonical CBOR.
func MarshalProfile(r *ProfileReport) ([]byte, error) {
	return profileEncMode.Marshal(r)
}

// UnmarshalProfile deserializes a report written by MarshalProfile.
func UnmarshalProfile(data []byte) (*ProfileReport, error) {
	var r ProfileReport
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("vm: unmarshal profile: %w", err)
	}
	return &r, nil
}
