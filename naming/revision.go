package naming

import (
	"fmt"
	"time"
	"unicode/utf8"

	"xdao.co/names/record"
)

// DefaultValidity is how far in the future newly signed records expire.
const DefaultValidity = 365 * 24 * time.Hour

// Revision is one published state of a name: the value it resolves to plus
// the metadata that orders and expires it.
type Revision struct {
	name     Name
	value    string
	validity time.Time
	sequence uint64
	ttl      time.Duration
}

// NewRevision builds a revision with explicit fields.
func NewRevision(name Name, value string, validity time.Time, sequence uint64) *Revision {
	return &Revision{
		name:     name,
		value:    value,
		validity: validity.UTC(),
		sequence: sequence,
		ttl:      time.Until(validity),
	}
}

// V0 is the initial revision of a name, sequence 0.
func V0(name Name, value string) *Revision {
	return NewRevision(name, value, time.Now().Add(DefaultValidity), 0)
}

// Increment derives the next revision: same name, new value, sequence
// advanced by one, fresh validity window.
func (r *Revision) Increment(value string) *Revision {
	return NewRevision(r.name, value, time.Now().Add(DefaultValidity), r.sequence+1)
}

func (r *Revision) Name() Name          { return r.name }
func (r *Revision) Value() string       { return r.value }
func (r *Revision) Validity() time.Time { return r.validity }
func (r *Revision) Sequence() uint64    { return r.sequence }
func (r *Revision) TTL() time.Duration  { return r.ttl }

func (r *Revision) String() string {
	return fmt.Sprintf("%s seq=%d value=%s validity=%s", r.name, r.sequence, r.value,
		r.validity.Format(record.ValidityFormat))
}

func (r *Revision) record() *record.Record {
	return &record.Record{
		Value:        []byte(r.value),
		ValidityType: record.ValidityEOL,
		Validity:     record.FormatValidity(r.validity),
		Sequence:     r.sequence,
		TTL:          uint64(r.ttl),
	}
}

func revisionFromEnvelope(name Name, env *record.Envelope) (*Revision, error) {
	if !utf8.Valid(env.Record.Value) {
		return nil, NewError(CodeInvalidRecord, "record value is not valid UTF-8")
	}
	validity, err := record.ParseValidity(env.Record.Validity)
	if err != nil {
		return nil, WrapError(CodeInvalidRecord, "record validity unparseable", err)
	}
	return &Revision{
		name:     name,
		value:    string(env.Record.Value),
		validity: validity,
		sequence: env.Record.Sequence,
		ttl:      time.Duration(env.Record.TTL),
	}, nil
}
