package testutil

import (
	"io"
	"log"
	"time"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/gateway"
	logsvc "github.com/darasahq/darasa/services/logger"
)

// Config returns a client config pointed at the fake backend.
func (b *Backend) Config() *core.Config {
	return &core.Config{
		Env:            "TEST",
		TestMode:       true,
		AppName:        "Darasa",
		APIBaseURL:     b.URL,
		RequestTimeout: 5 * time.Second,
	}
}

// Client builds a gateway client against the fake backend with the given
// token sources.
func (b *Backend) Client(sources ...gateway.TokenSource) *gateway.Client {
	conf := b.Config()
	logger := logsvc.NewConsoleLogger(log.New(io.Discard, "", 0), conf)
	return gateway.NewClient(conf, logger, sources...)
}

// StaticToken is a fixed-value TokenSource.
func StaticToken(token string) gateway.TokenSource {
	return gateway.TokenSourceFunc(func() string { return token })
}
