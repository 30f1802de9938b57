package llm

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/integration/common"
	"github.com/futig/tutor-backend/internal/pkg/metrics"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const defaultTimeout = 60 * time.Second

type DispatcherOpt func(*Dispatcher)

// WithLookupEnv replaces the credential lookup (os.LookupEnv by default).
func WithLookupEnv(lookup func(string) (string, bool)) DispatcherOpt {
	return func(d *Dispatcher) {
		d.lookupEnv = lookup
	}
}

// Dispatcher routes composed prompts to registered provider adapters.
type Dispatcher struct {
	registry  map[entity.ProviderID]Registration
	order     []entity.ProviderID
	timeout   time.Duration
	lookupEnv func(string) (string, bool)
}

func NewDispatcher(registrations []Registration, timeout time.Duration, opts ...DispatcherOpt) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	d := &Dispatcher{
		registry:  make(map[entity.ProviderID]Registration, len(registrations)),
		timeout:   timeout,
		lookupEnv: os.LookupEnv,
	}
	for _, reg := range registrations {
		if _, dup := d.registry[reg.Provider]; !dup {
			d.order = append(d.order, reg.Provider)
		}
		d.registry[reg.Provider] = reg
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Providers lists the registered providers in registration order.
func (d *Dispatcher) Providers() []entity.ProviderInfo {
	out := make([]entity.ProviderInfo, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, entity.ProviderInfo{ID: id, Model: d.registry[id].Model})
	}
	return out
}

// Dispatch sends prompt to provider and returns its answer.
// Unknown providers and missing credentials fail with *entity.ConfigurationError
// before any network call; call failures are *entity.ProviderError.
func (d *Dispatcher) Dispatch(ctx context.Context, provider entity.ProviderID, prompt *entity.ComposedPrompt) (*entity.Completion, error) {
	reg, ok := d.registry[provider]
	if !ok {
		metrics.ProviderRequests.WithLabelValues("unknown", string(entity.ProviderErrorConfiguration)).Inc()
		return nil, &entity.ConfigurationError{
			Provider: string(provider),
			Reason:   entity.ReasonUnsupportedProvider,
		}
	}

	var apiKey string
	if reg.CredentialEnv != "" {
		apiKey, ok = d.lookupEnv(reg.CredentialEnv)
		if !ok || strings.TrimSpace(apiKey) == "" {
			metrics.ProviderRequests.WithLabelValues(string(provider), string(entity.ProviderErrorConfiguration)).Inc()
			ctxzap.Error(ctx, "provider credential is not set",
				zap.String("provider", string(provider)),
				zap.String("env", reg.CredentialEnv),
			)
			return nil, &entity.ConfigurationError{
				Provider: string(provider),
				Reason:   entity.ReasonMissingCredential,
			}
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	ctxzap.Info(ctx, "dispatching prompt",
		zap.String("provider", string(provider)),
		zap.String("model", reg.Model),
		zap.Int("message_count", len(prompt.Messages)),
	)

	start := time.Now()
	content, err := reg.New(apiKey, reg.Model).Complete(callCtx, prompt)
	metrics.ProviderLatency.WithLabelValues(string(provider)).Observe(time.Since(start).Seconds())

	if err != nil {
		provErr := d.providerError(callCtx, provider, err)
		metrics.ProviderRequests.WithLabelValues(string(provider), string(provErr.Kind)).Inc()
		ctxzap.Error(ctx, "provider call failed",
			zap.String("provider", string(provider)),
			zap.String("kind", string(provErr.Kind)),
			zap.Error(err),
		)
		return nil, provErr
	}

	metrics.ProviderRequests.WithLabelValues(string(provider), "success").Inc()
	ctxzap.Info(ctx, "provider call succeeded",
		zap.String("provider", string(provider)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("content_length", len(content)),
	)

	return &entity.Completion{
		Provider: provider,
		Model:    reg.Model,
		Content:  content,
	}, nil
}

func (d *Dispatcher) providerError(callCtx context.Context, provider entity.ProviderID, err error) *entity.ProviderError {
	switch {
	case errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return &entity.ProviderError{Provider: string(provider), Kind: entity.ProviderErrorTimeout, Err: err}
	case errors.Is(err, ErrEmptyResponse):
		return &entity.ProviderError{Provider: string(provider), Kind: entity.ProviderErrorMalformed, Err: err}
	default:
		return common.NewProviderError(string(provider), err)
	}
}
