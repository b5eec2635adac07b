package auth

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog/log"
)

// VerifyCode checks a one-time code. With a TOTP secret configured the
// code is validated as a time-based one-time password; otherwise it is
// compared against the configured static demo code.
func (s *Service) VerifyCode(ctx context.Context, code string) error {
	if err := sleep(ctx, s.opts.VerifyDelay); err != nil {
		return err
	}

	if s.opts.TOTPSecret != "" {
		if totp.Validate(code, s.opts.TOTPSecret) {
			return nil
		}

		log.Debug().Msg("TOTP code rejected")

		return ErrInvalidCode
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(s.opts.Code)) == 1 {
		return nil
	}

	log.Debug().Msg("Static code rejected")

	return ErrInvalidCode
}

// GenerateTOTP produces the current time-based code for the configured
// secret. Useful for provisioning checks and tests.
func (s *Service) GenerateTOTP() (string, error) {
	return totp.GenerateCode(s.opts.TOTPSecret, time.Now())
}
