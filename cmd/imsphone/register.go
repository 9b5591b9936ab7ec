package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arzzra/imsphone/internal/config"
	"github.com/arzzra/imsphone/internal/logging"
	"github.com/arzzra/imsphone/internal/metrics"
	"github.com/arzzra/imsphone/pkg/auth"
	"github.com/arzzra/imsphone/pkg/sip/core/builder"
	"github.com/arzzra/imsphone/pkg/sip/core/types"
	"github.com/arzzra/imsphone/pkg/sip/dialog"
	"github.com/arzzra/imsphone/pkg/sip/transport"
)

var registerTimeout time.Duration

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Send a REGISTER and answer an AKAv1-MD5 challenge",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegister(cmd, configFile, registerTimeout)
	},
}

func init() {
	registerCmd.Flags().DurationVar(&registerTimeout, "timeout", 5*time.Second, "how long to wait for a final response")
}

// runRegister implements S1 end to end: send an unauthenticated REGISTER,
// and on a 401 carrying an AKA challenge, run the auth engine and retry
// once with an Authorization header.
func runRegister(cmd *cobra.Command, configPath string, timeout time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	base := logging.New(parseLevel(cfg.LogLevel))
	log := logging.Component(base, "imsphone")
	coll := metrics.New(prometheus.NewRegistry())

	ki, err := cfg.Account.Ki()
	if err != nil {
		return err
	}
	opc, err := cfg.Account.OPc()
	if err != nil {
		return err
	}

	ch, err := transport.Open(cfg.Transport.Protocol, transport.Endpoint{
		LocalAddress:  cfg.Transport.LocalAddress,
		LocalPort:     cfg.Transport.LocalPort,
		RemoteAddress: cfg.Transport.RemoteAddress,
		RemotePort:    cfg.Transport.RemotePort,
	})
	if err != nil {
		return fmt.Errorf("imsphone: dial failed: %w", err)
	}
	defer ch.Close()

	session := dialog.NewSession(ch, cfg.Transport.LocalAddress, cfg.Transport.LocalPort, cfg.Transport.Protocol,
		dialog.WithLogger(log), dialog.WithMetrics(coll))
	session.Open()

	callID := uuid.NewString()
	d := session.CreateDialog(callID)

	registerURI, err := types.ParseURI("sip:" + cfg.Account.Realm)
	if err != nil {
		return err
	}
	fromTo, err := types.ParseAddress("sip:" + cfg.Account.IMPI + "@" + cfg.Account.Realm)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	const firstNC = 1

	req := builder.CreateRequest(types.MethodREGISTER, fromTo, fromTo, registerURI, callID, 0, 1800, 70)
	_, err = d.Request(req, func(resp *types.Message) bool {
		switch {
		case resp.StatusCode == types.StatusOK:
			log.Info("imsphone: REGISTER accepted")
			done <- nil
			return true

		case resp.StatusCode == types.StatusUnauthorized:
			wwwAuth, ok := resp.Headers.Get(types.HeaderWWWAuthenticate)
			if !ok {
				done <- fmt.Errorf("imsphone: 401 with no WWW-Authenticate")
				return true
			}
			challenge, err := auth.ParseWWWAuthenticate(wwwAuth)
			if err != nil {
				done <- err
				return true
			}
			authHeader, err := auth.BuildAuth(challenge, types.MethodREGISTER, cfg.Account.Realm, cfg.Account.IMPI,
				auth.Credential{Ki: ki, OPc: opc}, firstNC)
			if err != nil {
				log.Error(err, "imsphone: build_auth failed")
				done <- err
				return true
			}
			coll.ChallengeComputed()

			retry := builder.CreateRequest(types.MethodREGISTER, fromTo, fromTo, registerURI, callID, 0, 1800, 70)
			retry.Headers.Set(types.HeaderAuthorization, authHeader)
			_, err = d.Request(retry, func(resp2 *types.Message) bool {
				if resp2.StatusCode == types.StatusOK {
					log.Info("imsphone: REGISTER accepted after challenge")
					done <- nil
				} else {
					done <- fmt.Errorf("imsphone: REGISTER rejected with status %d", resp2.StatusCode)
				}
				return true
			})
			if err != nil {
				done <- err
			}
			return true

		default:
			done <- fmt.Errorf("imsphone: REGISTER failed with status %d", resp.StatusCode)
			return true
		}
	})
	if err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("imsphone: timed out waiting for a final response")
	}
}

// parseLevel maps the config's log_level string to a logrus.Level,
// defaulting to Info on an unrecognized value rather than failing the
// probe over a logging misconfiguration.
func parseLevel(s string) logrus.Level {
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
