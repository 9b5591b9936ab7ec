// Package sdp implements the SDP codec of component B: a strict RFC 4566
// field-ordered parser/writer plus the attribute registry required by the
// specification (tool, ptime, maxptime, rtpmap, fmtp).
package sdp

// SessionDescription is the nested record described by
// "v o s [i] [u] e* p* [c] b* t+(r*[z]) a* m*( [i] c* b* a* )".
type SessionDescription struct {
	Version        int // v=, always 0
	Origin         Origin
	SessionName    string // s=
	Information    string // i=, optional
	URI            string // u=, optional
	EmailAddresses []string
	PhoneNumbers   []string
	Connection     *ConnectionInfo // c=, optional at session level if every media block carries its own
	Bandwidths     []Bandwidth
	TimeDescriptions []TimeDescription // t+, at least one required
	Attributes     AttributeSet
	MediaDescriptions []MediaDescription
}

// Origin is the o= line: "username SP session-id SP session-version SP
// nettype SP addrtype SP address".
type Origin struct {
	Username       string
	SessionID      string // all-digits, kept as string to preserve width
	SessionVersion string
	NetType        string // "IN"
	AddrType       string // "IP4" | "IP6"
	Address        string
}

// ConnectionInfo is the c= line: "nettype SP addrtype SP address[/ttl][/count]".
type ConnectionInfo struct {
	NetType  string
	AddrType string
	Address  string
	TTL      int // 0 means absent; valid only when AddrType == "IP4"
	Count    int // 0 means absent (a single address)
}

// Bandwidth is the b= line: "bwtype:bandwidth".
type Bandwidth struct {
	Type      string
	Bandwidth int
}

// TimeDescription is one "t=start stop" block plus its zero or more r=
// repeats and optional z= timezone adjustment list.
type TimeDescription struct {
	Start   int64
	Stop    int64
	Repeats []RepeatTime
	Zones   []TimeZoneAdjustment
}

// RepeatTime is an r= line: "interval SP duration SP offset(SP offset)*".
type RepeatTime struct {
	Interval int64
	Duration int64
	Offsets  []int64
}

// TimeZoneAdjustment is one (adjustment, offset) pair from a z= line.
type TimeZoneAdjustment struct {
	AdjustmentTime int64
	Offset         int64
}

// MediaDescription is one "m=" block: "media-type SP port[/n] SP proto SP
// fmt(SP fmt)*" plus its nested [i] c* b* a* fields.
type MediaDescription struct {
	Media       string // audio | video | text | application | message
	Port        int
	PortCount   int // 0 means "/n" absent
	Proto       string
	Formats     []string
	Information string
	Connections []ConnectionInfo
	Bandwidths  []Bandwidth
	Attributes  AttributeSet
}

const (
	NetTypeIN = "IN"

	AddrTypeIP4 = "IP4"
	AddrTypeIP6 = "IP6"

	MediaAudio       = "audio"
	MediaVideo       = "video"
	MediaText        = "text"
	MediaApplication = "application"
	MediaMessage     = "message"

	ProtoUDP      = "UDP"
	ProtoRTPAVP   = "RTP/AVP"
	ProtoRTPSAVP  = "RTP/SAVP"
	ProtoRTPSAVPF = "RTP/SAVPF"

	DirectionRecvOnly = "recvonly"
	DirectionSendRecv = "sendrecv"
	DirectionSendOnly = "sendonly"
	DirectionInactive = "inactive"
)

var validMediaTypes = map[string]bool{
	MediaAudio: true, MediaVideo: true, MediaText: true, MediaApplication: true, MediaMessage: true,
}

var validProtos = map[string]bool{
	ProtoUDP: true, ProtoRTPAVP: true, ProtoRTPSAVP: true, ProtoRTPSAVPF: true,
}

var validAddrTypes = map[string]bool{AddrTypeIP4: true, AddrTypeIP6: true}
