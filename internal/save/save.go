// Package save defines the persisted snapshot format. Snapshots are JSON,
// optionally wrapped in zstd. Older formats are validated against a schema
// and upgraded through a migration chain before decoding.
package save

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Version is the snapshot format written by Encode.
const Version = 2

// ErrInvalidSnapshot reports a snapshot that parsed but has the wrong shape.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// ProducerState is the persisted part of one producer.
type ProducerState struct {
	ID         string  `json:"id"`
	Quantity   int     `json:"quantity"`
	TotalSpent float64 `json:"totalSpent"`
}

// Snapshot is the serializable subset of engine state. Nil fields were
// absent from the source document and keep their defaults on load.
type Snapshot struct {
	Version           int             `json:"version"`
	Resources         *float64        `json:"resources,omitempty"`
	Producers         []ProducerState `json:"producers"`
	LastUpdate        *int64          `json:"lastUpdate,omitempty"`
	AutoBuyEnabled    *bool           `json:"autoBuyEnabled,omitempty"`
	AutoBuySpeedLevel *int            `json:"autoBuySpeedLevel,omitempty"`
	UnlockedProducers []string        `json:"unlockedProducers"`
	PurchasedUpgrades []string        `json:"purchasedUpgrades"`
	ClickPowerLevel   *int            `json:"clickPowerLevel,omitempty"`
	ChallengesEnabled *bool           `json:"challengesEnabled,omitempty"`
}

// Encode returns the JSON form of s stamped with the current version.
func Encode(s Snapshot) ([]byte, error) {
	s.Version = Version
	if s.Producers == nil {
		s.Producers = []ProducerState{}
	}
	if s.UnlockedProducers == nil {
		s.UnlockedProducers = []string{}
	}
	if s.PurchasedUpgrades == nil {
		s.PurchasedUpgrades = []string{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot of any known version, compressed or not.
func Decode(data []byte) (Snapshot, error) {
	if IsCompressed(data) {
		raw, err := Decompress(data)
		if err != nil {
			return Snapshot{}, err
		}
		data = raw
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: top level must be an object", ErrInvalidSnapshot)
	}
	if err := validate(obj); err != nil {
		return Snapshot{}, err
	}
	if err := migrate(obj); err != nil {
		return Snapshot{}, err
	}

	normalized, err := json.Marshal(obj)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to re-encode snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(normalized, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return s, nil
}

func validate(doc map[string]any) error {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("snapshot.schema.json", schemaJSON)
	})
	if schemaErr != nil {
		return fmt.Errorf("failed to compile snapshot schema: %w", schemaErr)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return nil
}
