package winsys

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/imagelayout/internal/utils"
	"github.com/vkngwrapper/imagelayout/memutils"
	"golang.org/x/exp/slog"
)

var (
	// ErrAddressSpaceExhausted is returned when a Simulated winsys has no virtual address range
	// left that can hold a buffer
	ErrAddressSpaceExhausted = errors.New("gpu virtual address space exhausted")
	// ErrUnknownBuffer is returned when destroying a buffer the winsys did not create, or has
	// already destroyed
	ErrUnknownBuffer = errors.New("unknown buffer")
)

const (
	defaultBaseAddress      uint64 = 1 << 32
	defaultAddressSpaceSize uint64 = 1 << 40
	minBufferAlignment      uint64 = 4096
)

// SimulatedOptions configure a Simulated winsys
type SimulatedOptions struct {
	// BaseAddress is the lowest address handed out. 4 GiB if zero.
	BaseAddress uint64
	// AddressSpaceSize is the number of bytes of virtual address space above BaseAddress that
	// may be handed out. 1 TiB if zero.
	AddressSpaceSize uint64
	// ExternallySynchronized skips locking the buffer registry
	ExternallySynchronized bool
}

type simulatedBuffer struct {
	handle  uint64
	address uint64
	size    uint64
	flags   BufferFlags
}

func (b *simulatedBuffer) Handle() uint64     { return b.handle }
func (b *simulatedBuffer) Address() uint64    { return b.address }
func (b *simulatedBuffer) Size() uint64       { return b.size }
func (b *simulatedBuffer) Flags() BufferFlags { return b.flags }

// Simulated is an in-process Winsys. It hands out GPU virtual addresses from a bump allocator
// and never reuses a range, which makes stale addresses easy to spot in tests.
type Simulated struct {
	logger *slog.Logger

	baseAddress uint64
	limit       uint64

	nextOffset atomic.Uint64
	nextHandle atomic.Uint64

	mutex   *utils.OptionalMutex
	buffers *swiss.Map[uint64, *simulatedBuffer]
}

var _ Winsys = &Simulated{}

func NewSimulated(logger *slog.Logger, options SimulatedOptions) *Simulated {
	if options.BaseAddress == 0 {
		options.BaseAddress = defaultBaseAddress
	}
	if options.AddressSpaceSize == 0 {
		options.AddressSpaceSize = defaultAddressSpaceSize
	}

	return &Simulated{
		logger:      logger,
		baseAddress: options.BaseAddress,
		limit:       options.AddressSpaceSize,
		mutex:       utils.NewOptionalMutex(!options.ExternallySynchronized),
		buffers:     swiss.NewMap[uint64, *simulatedBuffer](42),
	}
}

func (s *Simulated) reserve(size uint64, alignment uint64) (uint64, error) {
	for {
		current := s.nextOffset.Load()
		start := memutils.AlignUp(s.baseAddress+current, alignment) - s.baseAddress
		end, err := memutils.CheckedAdd(start, size)
		if err != nil || start < current || end > s.limit {
			return 0, errors.Wrapf(ErrAddressSpaceExhausted, "cannot reserve %d bytes aligned to %d", size, alignment)
		}

		if s.nextOffset.CompareAndSwap(current, end) {
			return s.baseAddress + start, nil
		}
	}
}

// CreateBuffer reserves size bytes of virtual address space. The range starts at a multiple of
// alignment, which must be a power of two, and is never smaller than a page.
func (s *Simulated) CreateBuffer(size uint64, alignment uint64, flags BufferFlags) (Buffer, error) {
	s.logger.Debug("Simulated::CreateBuffer",
		slog.Uint64("Size", size),
		slog.Uint64("Alignment", alignment),
		slog.String("Flags", flags.String()),
	)

	if size == 0 {
		return nil, errors.New("cannot create an empty buffer")
	}
	if alignment == 0 {
		alignment = 1
	}
	err := memutils.CheckPow2(alignment, "alignment")
	if err != nil {
		return nil, err
	}
	alignment = memutils.Max(alignment, minBufferAlignment)

	address, err := s.reserve(memutils.AlignUp(size, minBufferAlignment), alignment)
	if err != nil {
		return nil, err
	}

	buffer := &simulatedBuffer{
		handle:  s.nextHandle.Add(1),
		address: address,
		size:    size,
		flags:   flags,
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.buffers.Put(buffer.handle, buffer)
	return buffer, nil
}

// DestroyBuffer releases a buffer created by this winsys. Its address range is not reused.
func (s *Simulated) DestroyBuffer(buffer Buffer) error {
	if buffer == nil {
		return errors.New("attempted to destroy a nil buffer")
	}

	s.logger.Debug("Simulated::DestroyBuffer",
		slog.Uint64("Handle", buffer.Handle()),
		slog.Uint64("Address", buffer.Address()),
	)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.buffers.Has(buffer.Handle()) {
		return errors.Wrapf(ErrUnknownBuffer, "handle %d", buffer.Handle())
	}

	s.buffers.Delete(buffer.Handle())
	return nil
}

// BufferCount returns the number of live buffers
func (s *Simulated) BufferCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.buffers.Count()
}

// Lookup returns the live buffer with a handle
func (s *Simulated) Lookup(handle uint64) (Buffer, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	buffer, ok := s.buffers.Get(handle)
	if !ok {
		return nil, false
	}
	return buffer, true
}

// ReservedBytes returns how much of the address space has been handed out, including alignment
// padding and the ranges of destroyed buffers
func (s *Simulated) ReservedBytes() uint64 {
	return s.nextOffset.Load()
}
