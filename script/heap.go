package script

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/helixlang/bridge/errors"
)

const (
	heapPageSize = 65536
	// heapBase keeps address 0 unused so that 0 can mean "no cell".
	heapBase = 8
)

// heapModule is a minimal core wasm module whose only job is to own a
// growable linear memory, exported as "memory".
var heapModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version 1
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: one memory, min 1 page
	0x07, 0x0a, 0x01, // export section: one export
	0x06, 'm', 'e', 'm', 'o', 'r', 'y',
	0x02, 0x00, // memory index 0
}

// arena is the engine heap: a bump allocator over wazero linear memory.
// Cells allocated here are engine-owned; Go's GC never sees them.
type arena struct {
	rt  wazero.Runtime
	mod api.Module
	mem api.Memory
	brk uint32
}

func newArena(ctx context.Context, maxPages uint32) (*arena, error) {
	cfg := wazero.NewRuntimeConfig()
	if maxPages > 0 {
		cfg = cfg.WithMemoryLimitPages(maxPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, cfg)

	mod, err := rt.Instantiate(ctx, heapModule)
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseHeap, errors.KindAllocation, err, "instantiate heap module")
	}
	mem := mod.ExportedMemory("memory")
	if mem == nil {
		rt.Close(ctx)
		return nil, errors.BadValue(errors.PhaseHeap, "heap module exports no memory")
	}
	return &arena{rt: rt, mod: mod, mem: mem, brk: heapBase}, nil
}

func (a *arena) close(ctx context.Context) error {
	return a.rt.Close(ctx)
}

// Alloc reserves size bytes at the given power-of-two alignment, growing
// the underlying memory as needed. Cells are never freed individually; the
// whole heap goes away with the Context.
func (a *arena) Alloc(size, align uint32) (uint32, error) {
	if align == 0 || align&(align-1) != 0 {
		return 0, errors.AllocationFailed(size, align)
	}
	off := (a.brk + align - 1) &^ (align - 1)
	end := off + size
	if end < off {
		return 0, errors.AllocationFailed(size, align)
	}
	if end > a.mem.Size() {
		delta := (end - a.mem.Size() + heapPageSize - 1) / heapPageSize
		if _, ok := a.mem.Grow(delta); !ok {
			return 0, errors.AllocationFailed(size, align)
		}
		Logger().Debug("heap grown",
			zap.Uint32("pages", delta),
			zap.Uint32("size", a.mem.Size()))
	}
	a.brk = end
	return off, nil
}

func (a *arena) Read(off, length uint32) ([]byte, error) {
	b, ok := a.mem.Read(off, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseHeap, off, length, a.mem.Size())
	}
	out := make([]byte, length)
	copy(out, b)
	return out, nil
}

func (a *arena) Write(off uint32, data []byte) error {
	if !a.mem.Write(off, data) {
		return errors.OutOfBounds(errors.PhaseHeap, off, uint32(len(data)), a.mem.Size())
	}
	return nil
}

func (a *arena) ReadU32(off uint32) (uint32, error) {
	v, ok := a.mem.ReadUint32Le(off)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseHeap, off, 4, a.mem.Size())
	}
	return v, nil
}

func (a *arena) ReadU64(off uint32) (uint64, error) {
	v, ok := a.mem.ReadUint64Le(off)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseHeap, off, 8, a.mem.Size())
	}
	return v, nil
}

func (a *arena) WriteU32(off uint32, v uint32) error {
	if !a.mem.WriteUint32Le(off, v) {
		return errors.OutOfBounds(errors.PhaseHeap, off, 4, a.mem.Size())
	}
	return nil
}

func (a *arena) WriteU64(off uint32, v uint64) error {
	if !a.mem.WriteUint64Le(off, v) {
		return errors.OutOfBounds(errors.PhaseHeap, off, 8, a.mem.Size())
	}
	return nil
}

func (a *arena) Size() uint32 {
	return a.mem.Size()
}
