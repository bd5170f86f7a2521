// Package forward pushes the latest readings to a remote collector.
package forward

import (
	"fmt"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
)

// NewForwarder builds the forwarder selected by the config. It returns nil when forwarding is off.
func NewForwarder(cfg *contract.Config) (contract.Forwarder, error) {
	switch cfg.ForwardMode {
	case schema.HTTPForward:
		return NewHTTPForwarder(cfg.ForwardURL, cfg.ForwardTimeout), nil
	case schema.AMQPForward:
		f, err := NewAMQPForwarder(cfg.ForwardURL, cfg.ForwardExchange, cfg.ForwardRoutingKey)
		if err != nil {
			return nil, err
		}
		return f, nil
	case schema.NoForward, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported forward mode: %s", cfg.ForwardMode)
	}
}
