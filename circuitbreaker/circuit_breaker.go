package circuitbreaker

import (
	"context"
	"fmt"

	"github.com/afex/hystrix-go/hystrix"
)

// ProviderFunc performs one guarded call and returns its payload.
type ProviderFunc func() (any, error)

// Provider couples a call with the circuit guarding it. Providers that
// share a circuit name share failure statistics.
type Provider struct {
	Circuit string
	Call    ProviderFunc
}

// Attempt records the outcome of a single provider call.
type Attempt struct {
	Circuit string
	Err     error
}

// Result is the outcome of a provider chain.
type Result struct {
	value    any
	err      error
	attempts []Attempt
}

// Value returns the payload of the first provider that succeeded.
func (r Result) Value() any {
	return r.value
}

func (r Result) Error() error {
	return r.err
}

// Attempts lists every provider call made, in order.
func (r Result) Attempts() []Attempt {
	return r.attempts
}

// Config carries the hystrix settings applied to every circuit the
// breaker configures. Timeout and SleepWindow are in milliseconds.
type Config struct {
	Timeout                int
	MaxConcurrentRequests  int
	RequestVolumeThreshold int
	SleepWindow            int
	ErrorPercentThreshold  int
}

type CircuitBreaker struct {
	config Config
}

func NewCircuitBreaker(config Config) *CircuitBreaker {
	return &CircuitBreaker{config: config}
}

// CircuitExists reports whether a circuit was configured under the name.
func CircuitExists(name string) bool {
	return hystrix.GetCircuitSettings()[name] != nil
}

// IsCircuitOpen reports whether the named circuit currently rejects calls.
func IsCircuitOpen(name string) bool {
	circuit, _, err := hystrix.GetCircuit(name)
	return err == nil && circuit.IsOpen()
}

// Call runs the providers in order until one succeeds, each through its
// circuit. Circuits are configured lazily from the breaker config the
// first time a name is seen. Cancelling ctx stops the chain between
// providers. This is a blocking function.
func (cb *CircuitBreaker) Call(ctx context.Context, providers ...Provider) Result {
	if len(providers) == 0 {
		return Result{err: fmt.Errorf("no providers to call")}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var result Result
	for _, provider := range providers {
		if err := ctx.Err(); err != nil {
			if result.err == nil {
				result.err = err
			}
			break
		}

		cb.configureOnce(provider.Circuit)

		var value any
		err := hystrix.DoC(ctx, provider.Circuit, func(ctx context.Context) error {
			v, callErr := provider.Call()
			if callErr == nil {
				value = v
			}
			return callErr
		}, nil)

		result.attempts = append(result.attempts, Attempt{Circuit: provider.Circuit, Err: err})

		if err == nil {
			result.value = value
			result.err = nil
			break
		}

		if result.err != nil {
			result.err = fmt.Errorf("%w, %s: %w", result.err, provider.Circuit, err)
		} else {
			result.err = fmt.Errorf("%s: %w", provider.Circuit, err)
		}
		// Keep going on ErrMaxConcurrency too; the next provider has its
		// own concurrency budget.
	}

	return result
}

func (cb *CircuitBreaker) configureOnce(name string) {
	if hystrix.GetCircuitSettings()[name] != nil {
		return
	}
	hystrix.ConfigureCommand(name, hystrix.CommandConfig{
		Timeout:                cb.config.Timeout,
		MaxConcurrentRequests:  cb.config.MaxConcurrentRequests,
		RequestVolumeThreshold: cb.config.RequestVolumeThreshold,
		SleepWindow:            cb.config.SleepWindow,
		ErrorPercentThreshold:  cb.config.ErrorPercentThreshold,
	})
}
