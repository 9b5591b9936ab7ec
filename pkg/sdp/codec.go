package sdp

import (
	"github.com/arzzra/imsphone/pkg/sip/core/body"
	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
)

const MediaType = "application/sdp"

func init() {
	body.Register(body.Codec{
		MediaType: MediaType,
		Parse: func(raw []byte) (any, error) {
			return Parse(raw)
		},
		Write: func(v any) ([]byte, error) {
			sd, ok := v.(*SessionDescription)
			if !ok {
				return nil, coreerrors.New(coreerrors.KindInvalidField, "expected *sdp.SessionDescription")
			}
			return Write(sd), nil
		},
	})
}
