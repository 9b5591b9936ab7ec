package sdp

import (
	"strconv"
	"strings"
)

// Write serializes a SessionDescription back to wire form in canonical
// RFC 4566 order, with attributes last within each block (§4.B).
func Write(sd *SessionDescription) []byte {
	var b strings.Builder

	b.WriteString("v=")
	b.WriteString(strconv.Itoa(sd.Version))
	b.WriteString("\r\n")

	b.WriteString("o=")
	b.WriteString(sd.Origin.Username)
	b.WriteByte(' ')
	b.WriteString(sd.Origin.SessionID)
	b.WriteByte(' ')
	b.WriteString(sd.Origin.SessionVersion)
	b.WriteByte(' ')
	b.WriteString(sd.Origin.NetType)
	b.WriteByte(' ')
	b.WriteString(sd.Origin.AddrType)
	b.WriteByte(' ')
	b.WriteString(sd.Origin.Address)
	b.WriteString("\r\n")

	b.WriteString("s=")
	b.WriteString(sd.SessionName)
	b.WriteString("\r\n")

	if sd.Information != "" {
		b.WriteString("i=" + sd.Information + "\r\n")
	}
	if sd.URI != "" {
		b.WriteString("u=" + sd.URI + "\r\n")
	}
	for _, e := range sd.EmailAddresses {
		b.WriteString("e=" + e + "\r\n")
	}
	for _, p := range sd.PhoneNumbers {
		b.WriteString("p=" + p + "\r\n")
	}
	if sd.Connection != nil {
		b.WriteString("c=" + writeConnection(*sd.Connection) + "\r\n")
	}
	for _, bw := range sd.Bandwidths {
		b.WriteString("b=" + writeBandwidth(bw) + "\r\n")
	}

	for _, td := range sd.TimeDescriptions {
		b.WriteString("t=" + strconv.FormatInt(td.Start, 10) + " " + strconv.FormatInt(td.Stop, 10) + "\r\n")
		for _, rep := range td.Repeats {
			b.WriteString("r=" + writeRepeat(rep) + "\r\n")
		}
		if len(td.Zones) > 0 {
			b.WriteString("z=" + writeZones(td.Zones) + "\r\n")
		}
	}

	writeAttributes(&b, sd.Attributes)

	for _, md := range sd.MediaDescriptions {
		b.WriteString("m=" + writeMediaLine(md) + "\r\n")
		if md.Information != "" {
			b.WriteString("i=" + md.Information + "\r\n")
		}
		for _, conn := range md.Connections {
			b.WriteString("c=" + writeConnection(conn) + "\r\n")
		}
		for _, bw := range md.Bandwidths {
			b.WriteString("b=" + writeBandwidth(bw) + "\r\n")
		}
		writeAttributes(&b, md.Attributes)
	}

	return []byte(b.String())
}

func writeConnection(c ConnectionInfo) string {
	s := c.NetType + " " + c.AddrType + " " + c.Address
	if c.TTL > 0 {
		s += "/" + strconv.Itoa(c.TTL)
	}
	if c.Count > 0 {
		s += "/" + strconv.Itoa(c.Count)
	}
	return s
}

func writeBandwidth(bw Bandwidth) string {
	return bw.Type + ":" + strconv.Itoa(bw.Bandwidth)
}

func writeRepeat(r RepeatTime) string {
	parts := []string{strconv.FormatInt(r.Interval, 10), strconv.FormatInt(r.Duration, 10)}
	for _, o := range r.Offsets {
		parts = append(parts, strconv.FormatInt(o, 10))
	}
	return strings.Join(parts, " ")
}

func writeZones(zones []TimeZoneAdjustment) string {
	var parts []string
	for _, z := range zones {
		parts = append(parts, strconv.FormatInt(z.AdjustmentTime, 10), strconv.FormatInt(z.Offset, 10))
	}
	return strings.Join(parts, " ")
}

func writeMediaLine(md MediaDescription) string {
	port := strconv.Itoa(md.Port)
	if md.PortCount > 0 {
		port += "/" + strconv.Itoa(md.PortCount)
	}
	return md.Media + " " + port + " " + md.Proto + " " + strings.Join(md.Formats, " ")
}

func writeAttributes(b *strings.Builder, set AttributeSet) {
	for _, name := range set.Names() {
		def, ok := LookupAttribute(name)
		if !ok {
			continue
		}
		for _, v := range set.GetAll(name) {
			value := def.Write(v)
			if value == "" {
				b.WriteString("a=" + name + "\r\n")
			} else {
				b.WriteString("a=" + name + ":" + value + "\r\n")
			}
		}
	}
}
