package lsphost

import (
	"github.com/lsphost/lsphost/internal/common"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// registry maps method names to handlers. It is read-only once the host is built.
type registry struct {
	handlers map[string]Handler
	err      error
}

func newRegistry() *registry {
	return &registry{
		handlers: make(map[string]Handler),
	}
}

// register records configuration errors instead of failing fast, so that
// Build can report all of them.
func (r *registry) register(method string, h Handler) {
	switch {
	case method == "":
		r.err = multierr.Append(r.err, common.ErrInvalidMethod)
	case h == nil:
		r.err = multierr.Append(r.err, errors.Wrapf(common.ErrHandlerNil, "register %s", method))
	default:
		if _, ok := r.handlers[method]; ok {
			r.err = multierr.Append(r.err, errors.Wrapf(common.ErrHandlerExist, "register %s", method))
			return
		}
		r.handlers[method] = h
	}
}

func (r *registry) lookup(method string) (h Handler, ok bool) {
	h, ok = r.handlers[method]
	return
}

func (r *registry) methods() []string {
	methods := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		methods = append(methods, k)
	}
	return methods
}
