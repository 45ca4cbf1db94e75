package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubServer struct {
	listenErr   error
	shutdownErr error

	listened, shutdown, closed bool
}

func (s *stubServer) ListenAndServe() error {
	s.listened = true
	return s.listenErr
}

func (s *stubServer) Shutdown(context.Context) error {
	s.shutdown = true
	return s.shutdownErr
}

func (s *stubServer) Close() error {
	s.closed = true
	return nil
}

func (s *stubServer) Addr() string { return ":0" }

func signalled() chan os.Signal {
	ch := make(chan os.Signal, 1)
	ch <- os.Interrupt
	return ch
}

func TestRun_BuildError(t *testing.T) {
	build := func() (server, func(), error) { return nil, nil, errors.New("no config") }

	assert.Equal(t, 1, Run(build, make(chan os.Signal), zerolog.Nop()))
}

func TestRun_SignalGracefulShutdown(t *testing.T) {
	s := &stubServer{listenErr: http.ErrServerClosed}
	cleaned := false
	build := func() (server, func(), error) { return s, func() { cleaned = true }, nil }

	code := Run(build, signalled(), zerolog.Nop())

	assert.Equal(t, 0, code)
	assert.True(t, s.shutdown)
	assert.False(t, s.closed)
	assert.True(t, cleaned)
}

func TestRun_ListenerFailure(t *testing.T) {
	s := &stubServer{listenErr: errors.New("address in use")}
	cleaned := false
	build := func() (server, func(), error) { return s, func() { cleaned = true }, nil }

	code := Run(build, make(chan os.Signal), zerolog.Nop())

	assert.Equal(t, 1, code)
	assert.True(t, s.listened)
	assert.False(t, s.shutdown)
	assert.True(t, cleaned)
}

func TestRun_ShutdownErrorForcesClose(t *testing.T) {
	s := &stubServer{listenErr: http.ErrServerClosed, shutdownErr: errors.New("deadline")}
	build := func() (server, func(), error) { return s, func() {}, nil }

	assert.Equal(t, 0, Run(build, signalled(), zerolog.Nop()))
	assert.True(t, s.closed)
}

func TestHTTPServer_Addr(t *testing.T) {
	assert.Equal(t, ":9090", httpServer{&http.Server{Addr: ":9090"}}.Addr())
}
