package agent

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
)

// throttledModel gates every model round-trip on a shared rate limiter. A
// react agent invocation makes up to MaxStep internal model calls, so the
// model itself is the only seam that sees them all.
type throttledModel struct {
	inner   model.ToolCallingChatModel
	limiter *rate.Limiter
}

func newThrottledModel(inner model.ToolCallingChatModel, limiter *rate.Limiter) *throttledModel {
	return &throttledModel{inner: inner, limiter: limiter}
}

func (m *throttledModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return m.inner.Generate(ctx, in, opts...)
}

func (m *throttledModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return m.inner.Stream(ctx, in, opts...)
}

// WithTools keeps the limiter attached to the tool-bound copy.
func (m *throttledModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	inner, err := m.inner.WithTools(tools)
	if err != nil {
		return nil, err
	}
	return &throttledModel{inner: inner, limiter: m.limiter}, nil
}
