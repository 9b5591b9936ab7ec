package sdp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFmtpAndToolAttributes(t *testing.T) {
	sd := &SessionDescription{
		Version:          0,
		Origin:           Origin{Username: "-", SessionID: "1", SessionVersion: "1", NetType: NetTypeIN, AddrType: AddrTypeIP4, Address: "10.0.0.1"},
		SessionName:      "-",
		TimeDescriptions: []TimeDescription{{Start: 0, Stop: 0}},
		Attributes:       newAttributeSet(),
	}
	sd.Attributes.add("tool", Tool{Name: "imsphone", Version: "1.0"})

	md := MediaDescription{Media: MediaAudio, Port: 5004, Proto: ProtoRTPAVP, Formats: []string{"0"}}
	md.Attributes = newAttributeSet()
	md.Attributes.add("rtpmap", RTPMap{Payload: 0, Encoding: "PCMU", ClockRate: 8000})
	md.Attributes.add("fmtp", FMTP{Payload: 0, Params: map[string]string{"maxptime": "40"}, Order: []string{"maxptime"}})
	sd.MediaDescriptions = []MediaDescription{md}

	out := string(Write(sd))
	assert.Contains(t, out, "a=tool:imsphone 1.0\r\n")
	assert.Contains(t, out, "a=fmtp:0 maxptime=40\r\n")
	// The media block must come after the session-level a= lines (§4.B order).
	assert.Less(t, strings.Index(out, "a=tool"), strings.Index(out, "m=audio"), "session attribute must precede media block")
}

func TestWriteOutputReparses(t *testing.T) {
	sd, err := Parse([]byte(minimalOfferAnswer))
	require.NoError(t, err)
	raw := Write(sd)
	reparsed, err := Parse(raw)
	require.NoError(t, err)
	assert.Len(t, reparsed.MediaDescriptions, len(sd.MediaDescriptions))
}
