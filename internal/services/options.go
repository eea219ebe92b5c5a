package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/agency-project-tracker/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type options struct {
	now             func() time.Time
	newID           func() string
	newRefCode      func(time.Time) (string, error)
	verifyPasswords bool
	passwordCost    int
	seed            bool
}

// Option customises a store at construction time.
type Option func(*options)

func defaultOptions() options {
	return options{
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
		newRefCode:   utils.GenerateReferenceCode,
		passwordCost: bcrypt.DefaultCost,
		seed:         true,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock replaces the time source used for timestamps and reference codes.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator replaces the identifier generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}

// WithPasswordVerification makes Authenticate compare the password hash.
func WithPasswordVerification(enabled bool) Option {
	return func(o *options) {
		o.verifyPasswords = enabled
	}
}

// WithPasswordCost sets the bcrypt cost for new password hashes.
func WithPasswordCost(cost int) Option {
	return func(o *options) {
		o.passwordCost = cost
	}
}

// WithoutSeed starts from an empty list when no snapshot exists.
func WithoutSeed() Option {
	return func(o *options) {
		o.seed = false
	}
}

// WithReferenceCodeGenerator replaces the project reference code generator.
func WithReferenceCodeGenerator(gen func(time.Time) (string, error)) Option {
	return func(o *options) {
		o.newRefCode = gen
	}
}
