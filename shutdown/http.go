package shutdown

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// HTTP adapts *http.Server to Server. With a nil Lis, Serve uses
// ListenAndServe.
type HTTP struct {
	Srv     *http.Server
	Lis     net.Listener
	NameStr string
}

func (h *HTTP) Name() string {
	if h.NameStr == "" {
		return "http"
	}
	return h.NameStr
}

func (h *HTTP) Serve(ctx context.Context) error {
	if h.Srv == nil {
		return errors.New("shutdown: http server is nil")
	}

	h.Srv.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		if h.Lis != nil {
			errCh <- h.Srv.Serve(h.Lis)
			return
		}
		errCh <- h.Srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (h *HTTP) GracefulStopWithTimeout(ctx context.Context) error {
	if h.Srv == nil {
		return errors.New("shutdown: http server is nil")
	}
	return h.Srv.Shutdown(ctx)
}

func (h *HTTP) ForceStop() {
	if h.Srv != nil {
		_ = h.Srv.Close()
	}
}
