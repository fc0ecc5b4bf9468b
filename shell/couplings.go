package shell

import (
	"context"
	"sync"

	"github.com/Comcast/tether/core"
)

// The REPL couplings: the same evaluate-and-respond protocol carried
// over different transports.  A coupling is a remote console, nothing
// more; the binding itself stays in-process.

// EvalRequest is one unit of work from a coupling.
type EvalRequest struct {
	Id   string `json:"id,omitempty"`
	Eval string `json:"eval"`
}

// EvalResponse is what comes back.
type EvalResponse struct {
	Id     string     `json:"id,omitempty"`
	Result string     `json:"result,omitempty"`
	Error  *EvalError `json:"error,omitempty"`
}

// EvalError carries an uncaught exception's key and message.
type EvalError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// couplingMu serializes coupling-driven evaluations.  The runtime is
// single-threaded; transports are not.
var couplingMu sync.Mutex

// serve evaluates one request.  Exceptions become the response's
// Error; they are not additionally printed to the console.
func (s *Session) serve(ctx context.Context, req *EvalRequest) *EvalResponse {
	couplingMu.Lock()
	defer couplingMu.Unlock()

	resp := &EvalResponse{Id: req.Id}
	res := s.SafeEvalString(ctx, req.Eval)
	if e, is := core.AsException(res); is {
		key, _ := e.Unwrapped()
		resp.Error = &EvalError{Key: key, Message: e.Message()}
		return resp
	}
	if res != nil {
		resp.Result = s.Disp.Render(res)
	}
	return resp
}
