package generator

import (
	"github.com/go-faster/jx"
	"github.com/google/uuid"
)

// ManifestEntry records one compiled message: identity, the chosen
// representation and the shape counters a build system can diff
// between plugin runs.
type ManifestEntry struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Storage     string `json:"storage"`
	Fields      int    `json:"fields"`
	Oneofs      int    `json:"oneofs"`
	Intervals   int    `json:"intervals"`
	Initialized bool   `json:"initialized"`
}

// Manifest is the optional sidecar emitted next to the Swift sources,
// one entry per compiled message in emission order.
type Manifest struct {
	Entries []ManifestEntry `json:"entries"`
}

// manifestID derives the stable identity of a message: a v5 UUID of
// the proto full name, so re-running the plugin never reshuffles ids.
func manifestID(fullName string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fullName)).String()
}

func (m *Manifest) addMessage(g *messageGen) {
	m.Entries = append(m.Entries, ManifestEntry{
		ID:          manifestID(g.m.FullName),
		FullName:    g.m.FullName,
		Storage:     g.m.Storage.String(),
		Fields:      len(g.m.Fields),
		Oneofs:      len(g.m.Oneofs),
		Intervals:   len(g.m.ExtensionIntervals),
		Initialized: g.needsIsInitialized(),
	})
	for _, ng := range g.nested {
		m.addMessage(ng)
	}
}

func (m *Manifest) addFile(fg *fileGen) {
	for _, mg := range fg.messages {
		m.addMessage(mg)
	}
}

// MarshalJX encodes the manifest straight into e, allocation-free.
func (m *Manifest) MarshalJX(e *jx.Encoder) {
	e.ObjStart()
	if len(m.Entries) > 0 {
		e.FieldStart("entries")
		e.ArrStart()
		for i := range m.Entries {
			m.Entries[i].marshalJX(e)
		}
		e.ArrEnd()
	}
	e.ObjEnd()
}

func (entry *ManifestEntry) marshalJX(e *jx.Encoder) {
	e.ObjStart()
	if entry.ID != "" {
		e.FieldStart("id")
		e.Str(entry.ID)
	}
	if entry.FullName != "" {
		e.FieldStart("full_name")
		e.Str(entry.FullName)
	}
	if entry.Storage != "" {
		e.FieldStart("storage")
		e.Str(entry.Storage)
	}
	if entry.Fields > 0 {
		e.FieldStart("fields")
		e.Int(entry.Fields)
	}
	if entry.Oneofs > 0 {
		e.FieldStart("oneofs")
		e.Int(entry.Oneofs)
	}
	if entry.Intervals > 0 {
		e.FieldStart("intervals")
		e.Int(entry.Intervals)
	}
	if entry.Initialized {
		e.FieldStart("initialized")
		e.Bool(true)
	}
	e.ObjEnd()
}

// UnmarshalJX decodes the manifest straight from d. Unknown keys are
// skipped so older readers survive newer writers.
func (m *Manifest) UnmarshalJX(d *jx.Decoder) error {
	if d.Next() == jx.Null {
		return d.Null()
	}
	return d.Obj(func(d *jx.Decoder, key string) error {
		if key != "entries" {
			return d.Skip()
		}
		m.Entries = m.Entries[:0]
		return d.Arr(func(d *jx.Decoder) error {
			if d.Next() == jx.Null {
				_ = d.Null()
				m.Entries = append(m.Entries, ManifestEntry{})
				return nil
			}
			var entry ManifestEntry
			if err := entry.unmarshalJX(d); err != nil {
				return err
			}
			m.Entries = append(m.Entries, entry)
			return nil
		})
	})
}

func (entry *ManifestEntry) unmarshalJX(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			val, err := d.Str()
			if err != nil {
				return err
			}
			entry.ID = val
		case "full_name":
			val, err := d.Str()
			if err != nil {
				return err
			}
			entry.FullName = val
		case "storage":
			val, err := d.Str()
			if err != nil {
				return err
			}
			entry.Storage = val
		case "fields":
			val, err := d.Int()
			if err != nil {
				return err
			}
			entry.Fields = val
		case "oneofs":
			val, err := d.Int()
			if err != nil {
				return err
			}
			entry.Oneofs = val
		case "intervals":
			val, err := d.Int()
			if err != nil {
				return err
			}
			entry.Intervals = val
		case "initialized":
			val, err := d.Bool()
			if err != nil {
				return err
			}
			entry.Initialized = val
		default:
			return d.Skip()
		}
		return nil
	})
}
