package climate

import (
	"bytes"
	"encoding/json"
)

// Directory is a name to city map that remembers insertion order. Several
// names may point at the same record.
type Directory struct {
	keys   []string
	byName map[string]*CityRecord
}

func NewDirectory() *Directory {
	return &Directory{byName: make(map[string]*CityRecord)}
}

// Put adds or replaces name. A replaced name keeps its original position.
func (d *Directory) Put(name string, rec *CityRecord) {
	if _, ok := d.byName[name]; !ok {
		d.keys = append(d.keys, name)
	}
	d.byName[name] = rec
}

func (d *Directory) Get(name string) (*CityRecord, bool) {
	rec, ok := d.byName[name]
	return rec, ok
}

func (d *Directory) Len() int {
	return len(d.keys)
}

func (d *Directory) Keys() []string {
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Records lists each distinct record once, in key order. Aliases are skipped.
func (d *Directory) Records() []*CityRecord {
	seen := make(map[*CityRecord]bool, len(d.keys))
	records := make([]*CityRecord, 0, len(d.keys))
	for _, k := range d.keys {
		rec := d.byName[k]
		if seen[rec] {
			continue
		}
		seen[rec] = true
		records = append(records, rec)
	}
	return records
}

func (d *Directory) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(d.byName[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
