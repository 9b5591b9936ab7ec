package sdp

import (
	"strconv"
	"strings"

	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
)

// AttributeLevel is a bitmask: an attribute type may be valid at session
// level, media level, or both (§4.B).
type AttributeLevel int

const (
	LevelSession AttributeLevel = 1 << iota
	LevelMedia
	LevelBoth = LevelSession | LevelMedia
)

// AttributeDef is the registry entry for one a= attribute type: its
// canonical name, level mask, multiplicity flag, and parse/write pair
// (§9 registry pattern).
type AttributeDef struct {
	Name  string
	Level AttributeLevel
	Multi bool
	Parse func(value string) (any, error)
	Write func(v any) string
}

var attributeRegistry = map[string]AttributeDef{}

// RegisterAttribute adds or replaces an attribute type in the registry.
func RegisterAttribute(def AttributeDef) {
	attributeRegistry[def.Name] = def
}

// LookupAttribute returns the registered definition for a name.
func LookupAttribute(name string) (AttributeDef, bool) {
	def, ok := attributeRegistry[name]
	return def, ok
}

// Tool is the parsed form of a=tool: "name SP version".
type Tool struct {
	Name    string
	Version string
}

// RTPMap is the parsed form of a=rtpmap: "payload SP encoding/clock-rate[/channels]".
type RTPMap struct {
	Payload    int
	Encoding   string
	ClockRate  int
	Channels   int // 0 means absent
}

// FMTP is the parsed form of a=fmtp: "payload SP key=value(;key=value)*".
type FMTP struct {
	Payload int
	Params  map[string]string
	// Order preserves the original key order for a stable writer.
	Order []string
}

func init() {
	RegisterAttribute(AttributeDef{
		Name: "tool", Level: LevelSession, Multi: false,
		Parse: func(value string) (any, error) {
			fields := strings.Fields(value)
			if len(fields) != 2 {
				return nil, invalidField("tool", value)
			}
			return Tool{Name: fields[0], Version: fields[1]}, nil
		},
		Write: func(v any) string {
			t := v.(Tool)
			return t.Name + " " + t.Version
		},
	})

	RegisterAttribute(AttributeDef{
		Name: "ptime", Level: LevelMedia, Multi: false,
		Parse: parseIntAttr("ptime"),
		Write: writeIntAttr,
	})

	RegisterAttribute(AttributeDef{
		Name: "maxptime", Level: LevelMedia, Multi: false,
		Parse: parseIntAttr("maxptime"),
		Write: writeIntAttr,
	})

	RegisterAttribute(AttributeDef{
		Name: "rtpmap", Level: LevelMedia, Multi: true,
		Parse: func(value string) (any, error) {
			fields := strings.SplitN(value, " ", 2)
			if len(fields) != 2 {
				return nil, invalidField("rtpmap", value)
			}
			payload, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, invalidField("rtpmap", value)
			}
			encParts := strings.Split(fields[1], "/")
			if len(encParts) < 2 || len(encParts) > 3 {
				return nil, invalidField("rtpmap", value)
			}
			clock, err := strconv.Atoi(encParts[1])
			if err != nil {
				return nil, invalidField("rtpmap", value)
			}
			rm := RTPMap{Payload: payload, Encoding: encParts[0], ClockRate: clock}
			if len(encParts) == 3 {
				ch, err := strconv.Atoi(encParts[2])
				if err != nil {
					return nil, invalidField("rtpmap", value)
				}
				rm.Channels = ch
			}
			return rm, nil
		},
		Write: func(v any) string {
			rm := v.(RTPMap)
			s := strconv.Itoa(rm.Payload) + " " + rm.Encoding + "/" + strconv.Itoa(rm.ClockRate)
			if rm.Channels > 0 {
				s += "/" + strconv.Itoa(rm.Channels)
			}
			return s
		},
	})

	RegisterAttribute(AttributeDef{
		Name: "fmtp", Level: LevelMedia, Multi: true,
		Parse: func(value string) (any, error) {
			fields := strings.SplitN(value, " ", 2)
			if len(fields) != 2 {
				return nil, invalidField("fmtp", value)
			}
			payload, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, invalidField("fmtp", value)
			}
			fm := FMTP{Payload: payload, Params: map[string]string{}}
			for _, pair := range strings.Split(fields[1], ";") {
				pair = strings.TrimSpace(pair)
				if pair == "" {
					continue
				}
				kv := strings.SplitN(pair, "=", 2)
				key := kv[0]
				val := ""
				if len(kv) == 2 {
					val = kv[1]
				}
				fm.Params[key] = val
				fm.Order = append(fm.Order, key)
			}
			return fm, nil
		},
		Write: func(v any) string {
			fm := v.(FMTP)
			var parts []string
			for _, k := range fm.Order {
				if fm.Params[k] == "" {
					parts = append(parts, k)
				} else {
					parts = append(parts, k+"="+fm.Params[k])
				}
			}
			return strconv.Itoa(fm.Payload) + " " + strings.Join(parts, ";")
		},
	})

	for _, dir := range []string{DirectionRecvOnly, DirectionSendRecv, DirectionSendOnly, DirectionInactive} {
		dir := dir
		RegisterAttribute(AttributeDef{
			Name: dir, Level: LevelMedia, Multi: false,
			Parse: func(value string) (any, error) { return dir, nil },
			Write: func(v any) string { return "" },
		})
	}
}

func parseIntAttr(name string) func(string) (any, error) {
	return func(value string) (any, error) {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, invalidField(name, value)
		}
		return n, nil
	}
}

func writeIntAttr(v any) string {
	return strconv.Itoa(v.(int))
}

func invalidField(field, value string) error {
	return coreerrors.Field(coreerrors.KindInvalidField, field, value)
}

// AttributeSet holds the typed attributes parsed for one level (session or
// media), keyed by canonical name with insertion order preserved. Unknown
// names encountered while parsing are dropped silently before reaching
// here, per §4.B.
type AttributeSet struct {
	names  []string
	values map[string][]any
}

func newAttributeSet() AttributeSet {
	return AttributeSet{values: make(map[string][]any)}
}

func (s *AttributeSet) add(name string, v any) {
	if s.values == nil {
		s.values = make(map[string][]any)
	}
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = append(s.values[name], v)
}

// Get returns the first value registered under name.
func (s AttributeSet) Get(name string) (any, bool) {
	vs, ok := s.values[name]
	if !ok || len(vs) == 0 {
		return nil, false
	}
	return vs[0], true
}

// GetAll returns every value registered under name, in insertion order.
func (s AttributeSet) GetAll(name string) []any {
	return s.values[name]
}

// Names returns attribute names in first-occurrence order.
func (s AttributeSet) Names() []string {
	return s.names
}
