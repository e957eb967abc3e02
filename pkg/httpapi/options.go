package httpapi

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/persist"
)

// DefaultKeyPrefix namespaces persisted session records.
const DefaultKeyPrefix = "formflow"

// Options configures the HTTP surface.
type Options struct {
	Forms         map[string]model.Form
	KV            persist.KV
	KeyPrefix     string
	Submit        engine.SubmitFunc
	EngineOptions []engine.Option
	Logger        *zap.Logger
	NewID         func() string
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{
		Forms:     map[string]model.Form{},
		KeyPrefix: DefaultKeyPrefix,
		Logger:    zap.NewNop(),
		NewID:     uuid.NewString,
	}
}

// NewOptions applies fns over the defaults and fills any zero values.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.Forms == nil {
		opts.Forms = map[string]model.Form{}
	}
	if strings.TrimSpace(opts.KeyPrefix) == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return opts
}

// WithForms registers the definitions sessions can be created for.
func WithForms(forms map[string]model.Form) OptionFn {
	return func(o *Options) {
		o.Forms = make(map[string]model.Form, len(forms))
		for id, form := range forms {
			o.Forms[id] = form
		}
	}
}

// WithKV persists every session's data in kv.
func WithKV(kv persist.KV) OptionFn {
	return func(o *Options) {
		o.KV = kv
	}
}

// WithKeyPrefix overrides the prefix of persisted session keys.
func WithKeyPrefix(prefix string) OptionFn {
	return func(o *Options) {
		o.KeyPrefix = prefix
	}
}

// WithSubmitFunc sets the callback run when a session is submitted.
func WithSubmitFunc(fn engine.SubmitFunc) OptionFn {
	return func(o *Options) {
		o.Submit = fn
	}
}

// WithEngineOptions adds options applied to every session engine.
func WithEngineOptions(opts ...engine.Option) OptionFn {
	return func(o *Options) {
		o.EngineOptions = append(o.EngineOptions, opts...)
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(fn func() string) OptionFn {
	return func(o *Options) {
		o.NewID = fn
	}
}
