package sdp

import (
	"strconv"
	"strings"

	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
	"github.com/arzzra/imsphone/pkg/sip/core/tokenizer"
)

type sdpLine struct {
	key   byte
	value string
}

// Parse decodes an SDP body per the strict RFC 4566 field order required by
// §4.B: v o s [i] [u] e* p* [c] b* t+(r*[z]) a* m*([i] c* b* a*). A field
// out of order, or a singleton field repeated, fails the parse because the
// walk below only ever consumes the next line when it matches the expected
// position.
func Parse(data []byte) (*SessionDescription, error) {
	lines, err := splitLines(data)
	if err != nil {
		return nil, err
	}

	idx := 0
	next := func() (sdpLine, bool) {
		if idx >= len(lines) {
			return sdpLine{}, false
		}
		return lines[idx], true
	}

	var sd SessionDescription
	sd.Attributes = newAttributeSet()

	line, ok := next()
	if !ok || line.key != 'v' {
		return nil, coreerrors.Field(coreerrors.KindBadStartLine, "v=", "missing")
	}
	version, err := parseVersion(line.value)
	if err != nil {
		return nil, err
	}
	sd.Version = version
	idx++

	line, ok = next()
	if !ok || line.key != 'o' {
		return nil, coreerrors.Field(coreerrors.KindBadStartLine, "o=", "missing")
	}
	origin, err := parseOrigin(line.value)
	if err != nil {
		return nil, err
	}
	sd.Origin = origin
	idx++

	line, ok = next()
	if !ok || line.key != 's' {
		return nil, coreerrors.Field(coreerrors.KindBadStartLine, "s=", "missing")
	}
	if err := rejectCRLF("s", line.value); err != nil {
		return nil, err
	}
	sd.SessionName = line.value
	idx++

	if line, ok = next(); ok && line.key == 'i' {
		if err := rejectCRLF("i", line.value); err != nil {
			return nil, err
		}
		sd.Information = line.value
		idx++
	}
	if line, ok = next(); ok && line.key == 'u' {
		sd.URI = line.value
		idx++
	}
	for line, ok = next(); ok && line.key == 'e'; line, ok = next() {
		sd.EmailAddresses = append(sd.EmailAddresses, line.value)
		idx++
	}
	for line, ok = next(); ok && line.key == 'p'; line, ok = next() {
		sd.PhoneNumbers = append(sd.PhoneNumbers, line.value)
		idx++
	}
	if line, ok = next(); ok && line.key == 'c' {
		conn, err := parseConnection(line.value)
		if err != nil {
			return nil, err
		}
		sd.Connection = &conn
		idx++
	}
	for line, ok = next(); ok && line.key == 'b'; line, ok = next() {
		bw, err := parseBandwidth(line.value)
		if err != nil {
			return nil, err
		}
		sd.Bandwidths = append(sd.Bandwidths, bw)
		idx++
	}

	for line, ok = next(); ok && line.key == 't'; line, ok = next() {
		start, stop, err := parseTiming(line.value)
		if err != nil {
			return nil, err
		}
		td := TimeDescription{Start: start, Stop: stop}
		idx++
		for line, ok = next(); ok && line.key == 'r'; line, ok = next() {
			rep, err := parseRepeat(line.value)
			if err != nil {
				return nil, err
			}
			td.Repeats = append(td.Repeats, rep)
			idx++
		}
		if line, ok = next(); ok && line.key == 'z' {
			zones, err := parseTimezones(line.value)
			if err != nil {
				return nil, err
			}
			td.Zones = zones
			idx++
		}
		sd.TimeDescriptions = append(sd.TimeDescriptions, td)
	}
	if len(sd.TimeDescriptions) == 0 {
		return nil, coreerrors.Field(coreerrors.KindInvalidField, "t=", "at least one time description required")
	}

	for line, ok = next(); ok && line.key == 'a'; line, ok = next() {
		if err := parseAttributeInto(&sd.Attributes, LevelSession, line.value); err != nil {
			return nil, err
		}
		idx++
	}

	for line, ok = next(); ok && line.key == 'm'; line, ok = next() {
		md, err := parseMediaLine(line.value)
		if err != nil {
			return nil, err
		}
		md.Attributes = newAttributeSet()
		idx++

		if line, ok = next(); ok && line.key == 'i' {
			md.Information = line.value
			idx++
		}
		for line, ok = next(); ok && line.key == 'c'; line, ok = next() {
			conn, err := parseConnection(line.value)
			if err != nil {
				return nil, err
			}
			md.Connections = append(md.Connections, conn)
			idx++
		}
		for line, ok = next(); ok && line.key == 'b'; line, ok = next() {
			bw, err := parseBandwidth(line.value)
			if err != nil {
				return nil, err
			}
			md.Bandwidths = append(md.Bandwidths, bw)
			idx++
		}
		for line, ok = next(); ok && line.key == 'a'; line, ok = next() {
			if err := parseAttributeInto(&md.Attributes, LevelMedia, line.value); err != nil {
				return nil, err
			}
			idx++
		}
		sd.MediaDescriptions = append(sd.MediaDescriptions, md)
	}

	if idx != len(lines) {
		return nil, coreerrors.Field(coreerrors.KindInvalidField, "sdp-order", lines[idx].value)
	}
	return &sd, nil
}

func splitLines(data []byte) ([]sdpLine, error) {
	c := tokenizer.NewCursor(data)
	var lines []sdpLine
	for !c.EOF() {
		raw, err := c.ReadLine()
		if err != nil {
			return nil, err
		}
		if len(raw) < 2 || raw[1] != '=' {
			return nil, coreerrors.Field(coreerrors.KindBadStartLine, "sdp-line", raw)
		}
		lines = append(lines, sdpLine{key: raw[0], value: raw[2:]})
	}
	return lines, nil
}

func rejectCRLF(field, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return coreerrors.Field(coreerrors.KindInvalidField, field, "contains CR/LF")
	}
	return nil
}

func parseVersion(value string) (int, error) {
	if value != "0" {
		return 0, coreerrors.Field(coreerrors.KindInvalidField, "v", value)
	}
	return 0, nil
}

func parseOrigin(value string) (Origin, error) {
	fields := strings.Fields(value)
	if len(fields) != 6 {
		return Origin{}, coreerrors.Field(coreerrors.KindBadStartLine, "o=", value)
	}
	for _, ch := range fields[1] {
		if ch < '0' || ch > '9' {
			return Origin{}, coreerrors.Field(coreerrors.KindInvalidField, "o.session-id", fields[1])
		}
	}
	if !validAddrTypes[fields[4]] {
		return Origin{}, coreerrors.Field(coreerrors.KindUnknownEnum, "o.addrtype", fields[4])
	}
	if fields[3] != NetTypeIN {
		return Origin{}, coreerrors.Field(coreerrors.KindUnknownEnum, "o.nettype", fields[3])
	}
	return Origin{
		Username:       fields[0],
		SessionID:      fields[1],
		SessionVersion: fields[2],
		NetType:        fields[3],
		AddrType:       fields[4],
		Address:        fields[5],
	}, nil
}

func parseConnection(value string) (ConnectionInfo, error) {
	fields := strings.Fields(value)
	if len(fields) != 3 {
		return ConnectionInfo{}, coreerrors.Field(coreerrors.KindBadStartLine, "c=", value)
	}
	if fields[0] != NetTypeIN {
		return ConnectionInfo{}, coreerrors.Field(coreerrors.KindUnknownEnum, "c.nettype", fields[0])
	}
	if !validAddrTypes[fields[1]] {
		return ConnectionInfo{}, coreerrors.Field(coreerrors.KindUnknownEnum, "c.addrtype", fields[1])
	}
	conn := ConnectionInfo{NetType: fields[0], AddrType: fields[1]}
	parts := strings.Split(fields[2], "/")
	conn.Address = parts[0]

	// §9: the numeric suffix is TTL-then-count for IP4, count-only for IP6
	// (IP6 multicast carries no TTL).
	if conn.AddrType == AddrTypeIP4 {
		if len(parts) >= 2 {
			ttl, err := strconv.Atoi(parts[1])
			if err != nil {
				return ConnectionInfo{}, coreerrors.Field(coreerrors.KindInvalidField, "c.ttl", parts[1])
			}
			conn.TTL = ttl
		}
		if len(parts) == 3 {
			count, err := strconv.Atoi(parts[2])
			if err != nil {
				return ConnectionInfo{}, coreerrors.Field(coreerrors.KindInvalidField, "c.count", parts[2])
			}
			conn.Count = count
		}
		if len(parts) > 3 {
			return ConnectionInfo{}, coreerrors.Field(coreerrors.KindInvalidField, "c=", value)
		}
	} else {
		if len(parts) >= 2 {
			count, err := strconv.Atoi(parts[1])
			if err != nil {
				return ConnectionInfo{}, coreerrors.Field(coreerrors.KindInvalidField, "c.count", parts[1])
			}
			conn.Count = count
		}
		if len(parts) > 2 {
			return ConnectionInfo{}, coreerrors.Field(coreerrors.KindInvalidField, "c=", value)
		}
	}
	return conn, nil
}

func parseBandwidth(value string) (Bandwidth, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return Bandwidth{}, coreerrors.Field(coreerrors.KindBadStartLine, "b=", value)
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return Bandwidth{}, coreerrors.Field(coreerrors.KindInvalidField, "b.bandwidth", parts[1])
	}
	return Bandwidth{Type: parts[0], Bandwidth: n}, nil
}

func parseTiming(value string) (int64, int64, error) {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return 0, 0, coreerrors.Field(coreerrors.KindBadStartLine, "t=", value)
	}
	start, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, 0, coreerrors.Field(coreerrors.KindInvalidField, "t.start", fields[0])
	}
	stop, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, 0, coreerrors.Field(coreerrors.KindInvalidField, "t.stop", fields[1])
	}
	return start, stop, nil
}

func parseRepeat(value string) (RepeatTime, error) {
	fields := strings.Fields(value)
	if len(fields) < 3 {
		return RepeatTime{}, coreerrors.Field(coreerrors.KindBadStartLine, "r=", value)
	}
	interval, err := parseTypedTime(fields[0])
	if err != nil {
		return RepeatTime{}, err
	}
	duration, err := parseTypedTime(fields[1])
	if err != nil {
		return RepeatTime{}, err
	}
	rep := RepeatTime{Interval: interval, Duration: duration}
	for _, f := range fields[2:] {
		off, err := parseTypedTime(f)
		if err != nil {
			return RepeatTime{}, err
		}
		rep.Offsets = append(rep.Offsets, off)
	}
	return rep, nil
}

func parseTimezones(value string) ([]TimeZoneAdjustment, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 || len(fields)%2 != 0 {
		return nil, coreerrors.Field(coreerrors.KindBadStartLine, "z=", value)
	}
	var zones []TimeZoneAdjustment
	for i := 0; i < len(fields); i += 2 {
		adj, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil {
			return nil, coreerrors.Field(coreerrors.KindInvalidField, "z.adjustment", fields[i])
		}
		off, err := parseTypedTime(fields[i+1])
		if err != nil {
			return nil, err
		}
		zones = append(zones, TimeZoneAdjustment{AdjustmentTime: adj, Offset: off})
	}
	return zones, nil
}

// parseTypedTime accepts a bare integer (seconds) or an integer with a
// trailing d/h/m/s unit suffix, optionally negative (§4.B "r"/"z" fields).
func parseTypedTime(s string) (int64, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	unit := int64(1)
	if len(s) > 0 {
		switch s[len(s)-1] {
		case 'd':
			unit = 86400
			s = s[:len(s)-1]
		case 'h':
			unit = 3600
			s = s[:len(s)-1]
		case 'm':
			unit = 60
			s = s[:len(s)-1]
		case 's':
			unit = 1
			s = s[:len(s)-1]
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, coreerrors.Field(coreerrors.KindInvalidField, "typed-time", s)
	}
	n *= unit
	if neg {
		n = -n
	}
	return n, nil
}

func parseMediaLine(value string) (MediaDescription, error) {
	fields := strings.Fields(value)
	if len(fields) < 4 {
		return MediaDescription{}, coreerrors.Field(coreerrors.KindBadStartLine, "m=", value)
	}
	if !validMediaTypes[fields[0]] {
		return MediaDescription{}, coreerrors.Field(coreerrors.KindUnknownEnum, "m.media", fields[0])
	}
	if !validProtos[fields[2]] {
		return MediaDescription{}, coreerrors.Field(coreerrors.KindUnknownEnum, "m.proto", fields[2])
	}
	md := MediaDescription{Media: fields[0], Proto: fields[2], Formats: fields[3:]}
	portParts := strings.SplitN(fields[1], "/", 2)
	port, err := strconv.Atoi(portParts[0])
	if err != nil {
		return MediaDescription{}, coreerrors.Field(coreerrors.KindInvalidField, "m.port", fields[1])
	}
	md.Port = port
	if len(portParts) == 2 {
		n, err := strconv.Atoi(portParts[1])
		if err != nil {
			return MediaDescription{}, coreerrors.Field(coreerrors.KindInvalidField, "m.port-count", portParts[1])
		}
		md.PortCount = n
	}
	return md, nil
}

// parseAttributeInto parses one a= line and, if the name is registered at
// this level, inserts the typed value; unregistered names are dropped
// silently (§4.B).
func parseAttributeInto(set *AttributeSet, level AttributeLevel, value string) error {
	name, rawValue, hasValue := value, "", false
	if idx := strings.IndexByte(value, ':'); idx >= 0 {
		name, rawValue, hasValue = value[:idx], value[idx+1:], true
	}

	def, ok := LookupAttribute(name)
	if !ok {
		return nil
	}
	if def.Level&level == 0 {
		return coreerrors.Field(coreerrors.KindAttributeAtWrongLevel, name, "")
	}
	if !def.Multi {
		if _, exists := set.Get(name); exists {
			return coreerrors.Field(coreerrors.KindAttributeMultipleForbidden, name, "")
		}
	}
	var parseInput string
	if hasValue {
		parseInput = rawValue
	}
	typed, err := def.Parse(parseInput)
	if err != nil {
		return err
	}
	set.add(name, typed)
	return nil
}
