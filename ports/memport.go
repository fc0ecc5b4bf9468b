package ports

import (
	"errors"
	"fmt"
	"io"

	"github.com/Comcast/tether/core"
	"github.com/Comcast/tether/engine"

	"github.com/dop251/goja"
)

// MemoryPort is a seekable byte port over a window of target memory.
// It implements io.ReadWriteSeeker for native callers; script code
// uses the functions below.
type MemoryPort struct {
	mem    engine.Memory
	start  uint64
	size   int64
	off    int64
	closed bool
}

// NewMemoryPort makes a port over [start, start+size).
func NewMemoryPort(mem engine.Memory, start uint64, size int64) *MemoryPort {
	return &MemoryPort{mem: mem, start: start, size: size}
}

// Read fills p from the current offset, stopping at the window end.
func (mp *MemoryPort) Read(p []byte) (int, error) {
	if mp.closed {
		return 0, io.ErrClosedPipe
	}
	if mp.off >= mp.size {
		return 0, io.EOF
	}
	if max := mp.size - mp.off; int64(len(p)) > max {
		p = p[:max]
	}
	if err := mp.mem.ReadMemory(mp.start+uint64(mp.off), p); err != nil {
		return 0, err
	}
	mp.off += int64(len(p))
	return len(p), nil
}

// Write stores p at the current offset.  Writes past the window end
// fail without writing anything.
func (mp *MemoryPort) Write(p []byte) (int, error) {
	if mp.closed {
		return 0, io.ErrClosedPipe
	}
	if mp.off+int64(len(p)) > mp.size {
		return 0, fmt.Errorf("write of %d bytes at offset %d exceeds window of %d", len(p), mp.off, mp.size)
	}
	if err := mp.mem.WriteMemory(mp.start+uint64(mp.off), p); err != nil {
		return 0, err
	}
	mp.off += int64(len(p))
	return len(p), nil
}

// Seek moves the offset.  The new offset must land inside [0, size].
func (mp *MemoryPort) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = mp.off + offset
	case io.SeekEnd:
		abs = mp.size + offset
	default:
		return 0, fmt.Errorf("bad whence %d", whence)
	}
	if abs < 0 || abs > mp.size {
		return 0, fmt.Errorf("seek to %d outside window of %d", abs, mp.size)
	}
	mp.off = abs
	return abs, nil
}

// Close marks the port unusable.  Closing twice is fine.
func (mp *MemoryPort) Close() error {
	mp.closed = true
	return nil
}

// memPortSmob exposes a MemoryPort to script code.
type memPortSmob struct {
	core.Base

	port *MemoryPort
}

func (p *Ports) memPortArg(v goja.Value, pos int, fname string) *memPortSmob {
	got := p.rt.UnwrapSmobOrThrow(v, p.memPortTag, pos, fname)
	return got.Export().(*memPortSmob)
}

// openMemPortArg additionally rejects closed ports.
func (p *Ports) openMemPortArg(v goja.Value, pos int, fname string) *memPortSmob {
	s := p.memPortArg(v, pos, fname)
	if s.port.closed {
		p.rt.Throw(p.rt.NewInvalidObjectError(fname, pos, v, "Closed <tether:memory-port>"))
	}
	return s
}

func (p *Ports) memPortFunctions() []core.FunctionSpec {
	return []core.FunctionSpec{
		{
			Name: "openMemoryPort",
			Doc: "Open a seekable byte port over target memory.\n\n" +
				"Arguments: start address, size in bytes.",
			Fn: func(call goja.FunctionCall) goja.Value {
				start := p.rt.IntArg(call, 0, "openMemoryPort")
				size := p.rt.IntArg(call, 1, "openMemoryPort")
				if start < 0 {
					p.rt.Throw(p.rt.NewOutOfRangeError("openMemoryPort", 1,
						call.Argument(0), "Invalid start address"))
				}
				if size < 0 {
					p.rt.Throw(p.rt.NewOutOfRangeError("openMemoryPort", 2,
						call.Argument(1), "Invalid size"))
				}
				s := &memPortSmob{port: NewMemoryPort(p.mem, uint64(start), size)}
				p.rt.InitSmob(&s.Base, p.memPortTag)
				return p.rt.WrapSmobOrThrow(p.rt.ToValue(s))
			},
		},
		{
			Name: "isMemoryPort",
			Doc:  "Return true if the value is a memory-port smob.",
			Fn: func(call goja.FunctionCall) goja.Value {
				return p.rt.ToValue(p.rt.IsKind(call.Argument(0), p.memPortTag))
			},
		},
		{
			Name: "memoryPortSeek",
			Doc: "Move the port's offset.\n\nArguments: port, offset, whence " +
				"(0 = start, 1 = current, 2 = end).  Seeks outside the window raise " +
				"an out-of-range exception.",
			Fn: func(call goja.FunctionCall) goja.Value {
				s := p.openMemPortArg(call.Argument(0), 1, "memoryPortSeek")
				offset := p.rt.IntArg(call, 1, "memoryPortSeek")
				whence := int(p.rt.IntArg(call, 2, "memoryPortSeek"))
				abs, err := s.port.Seek(offset, whence)
				if err != nil {
					p.rt.Throw(p.rt.NewOutOfRangeError("memoryPortSeek", 2,
						call.Argument(1), "Invalid seek offset"))
				}
				return p.rt.ToValue(abs)
			},
		},
		{
			Name: "memoryPortRead",
			Doc: "Read up to n bytes from the port at its current offset.\n\n" +
				"Returns an ArrayBuffer, empty at the end of the window.  An unreadable " +
				"address raises a memory-error exception.",
			Fn: func(call goja.FunctionCall) goja.Value {
				s := p.openMemPortArg(call.Argument(0), 1, "memoryPortRead")
				n := p.rt.IntArg(call, 1, "memoryPortRead")
				if n < 0 {
					p.rt.Throw(p.rt.NewOutOfRangeError("memoryPortRead", 2,
						call.Argument(1), "Invalid read length"))
				}
				buf := make([]byte, n)
				got, err := s.port.Read(buf)
				if err == io.EOF {
					got = 0
				} else if err != nil {
					p.rt.Throw(p.rt.ExceptionFromError(err))
				}
				return p.rt.ToValue(p.rt.VM().NewArrayBuffer(buf[:got]))
			},
		},
		{
			Name: "memoryPortWrite",
			Doc: "Write bytes to the port at its current offset.\n\n" +
				"The data may be an ArrayBuffer or a string of byte values.  Returns the " +
				"number of bytes written.  Writes past the window end raise an out-of-range " +
				"exception; an unwritable address raises a memory-error exception.",
			Fn: func(call goja.FunctionCall) goja.Value {
				s := p.openMemPortArg(call.Argument(0), 1, "memoryPortWrite")
				data := call.Argument(1)
				var bs []byte
				switch vv := data.Export().(type) {
				case goja.ArrayBuffer:
					bs = vv.Bytes()
				case string:
					bs = []byte(vv)
				default:
					p.rt.Throw(p.rt.NewTypeError("memoryPortWrite", 2, data, "ArrayBuffer or string"))
				}
				n, err := s.port.Write(bs)
				if err != nil {
					var me *engine.MemoryError
					if errors.As(err, &me) {
						p.rt.Throw(p.rt.ExceptionFromError(err))
					}
					p.rt.Throw(p.rt.NewOutOfRangeError("memoryPortWrite", 2,
						call.Argument(1), "Write exceeds window"))
				}
				return p.rt.ToValue(n)
			},
		},
		{
			Name: "memoryPortClose",
			Doc:  "Close the port.  Closing twice is fine; any other use of a closed port raises an exception.",
			Fn: func(call goja.FunctionCall) goja.Value {
				s := p.memPortArg(call.Argument(0), 1, "memoryPortClose")
				s.port.Close()
				return goja.Undefined()
			},
		},
	}
}
