// Package captcha implements the human-verification collaborator of the faucet. Drip requests carry a
// reCAPTCHA response token that is validated against Google's siteverify endpoint before any transfer is
// attempted.
package captcha

import (
	"errors"

	"github.com/go-resty/resty/v2"
)

// VerifyURL is the reCAPTCHA verification endpoint.
const VerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// ErrNoSecret is returned when a verifier is created without a site secret.
var ErrNoSecret = errors.New("recaptcha secret is not configured")

// Verifier validates a captcha response token.
type Verifier interface {
	Validate(token string) (bool, error)
}

// Recaptcha validates tokens against the reCAPTCHA siteverify API.
type Recaptcha struct {
	secret string
	url    string
	c      *resty.Client
}

// verifyResponse is the subset of the siteverify reply the faucet cares about.
type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// New returns a Recaptcha verifier for the given site secret.
func New(secret string) (*Recaptcha, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	return &Recaptcha{secret: secret, url: VerifyURL, c: resty.New()}, nil
}

// Validate posts the response token to the siteverify endpoint and returns whether the captcha was solved.
// A false return with nil error means the token was rejected; errors are transport failures only.
func (r *Recaptcha) Validate(token string) (bool, error) {
	var vr verifyResponse

	_, err := r.c.R().
		SetFormData(map[string]string{
			"secret":   r.secret,
			"response": token,
		}).
		SetResult(&vr).
		Post(r.url)
	if err != nil {
		return false, err
	}

	return vr.Success, nil
}
