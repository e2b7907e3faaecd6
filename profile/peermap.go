package profile

import (
	"bytes"
	"encoding/json"
	"maps"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// PeerMap maps peer ids to peer entries and remembers insertion order.
// Re-inserting an existing id replaces its entry but keeps its position.
type PeerMap struct {
	keys    []string
	entries map[string]Peer
}

func newPeerMap() *PeerMap {
	return &PeerMap{entries: make(map[string]Peer)}
}

func (m *PeerMap) set(id string, p Peer) {
	if _, ok := m.entries[id]; !ok {
		m.keys = append(m.keys, id)
	}
	m.entries[id] = p
}

// Get returns the entry for id.
func (m *PeerMap) Get(id string) (Peer, bool) {
	if m == nil {
		return Peer{}, false
	}
	p, ok := m.entries[id]
	return p, ok
}

// Keys returns the peer ids in insertion order. The slice is a copy and is
// never nil.
func (m *PeerMap) Keys() []string {
	if m == nil {
		return []string{}
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

func (m *PeerMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Equal reports whether both maps hold the same entries in the same order.
func (m *PeerMap) Equal(o *PeerMap) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i, id := range m.Keys() {
		if o.keys[i] != id {
			return false
		}
		a, b := m.entries[id], o.entries[id]
		if a.URL != b.URL || a.TLSCACerts != b.TLSCACerts || !maps.Equal(a.GRPCOptions, b.GRPCOptions) {
			return false
		}
	}
	return true
}

func (m *PeerMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal peer id %q", id)
		}
		value, err := json.Marshal(m.entries[id])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal peer %q", id)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *PeerMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, id := range m.keys {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id}
		value := &yaml.Node{}
		if err := value.Encode(m.entries[id]); err != nil {
			return nil, errors.Wrapf(err, "failed to marshal peer %q", id)
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

func (m *PeerMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "failed to read peers")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("peers must be an object, got %v", tok)
	}

	m.keys = nil
	m.entries = make(map[string]Peer)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "failed to read peer id")
		}
		id, _ := tok.(string)
		var p Peer
		if err := dec.Decode(&p); err != nil {
			return errors.Wrapf(err, "failed to decode peer %q", id)
		}
		m.set(id, p)
	}
	_, err = dec.Token()
	return errors.Wrap(err, "failed to read end of peers")
}
