package winsys

//go:generate mockgen -source winsys.go -destination ./mocks/winsys.go -package mock_winsys

import (
	"github.com/vkngwrapper/core/v2/common"
)

// BufferFlags describe the kind of buffer object requested from the window system
type BufferFlags int32

var bufferFlagsMapping = common.NewFlagStringMapping[BufferFlags]()

func (f BufferFlags) Register(str string) {
	bufferFlagsMapping.Register(f, str)
}
func (f BufferFlags) String() string {
	return bufferFlagsMapping.FlagsToString(f)
}

const (
	// BufferVirtual reserves a GPU virtual address range with no backing pages. Sparse images
	// map memory into the range later.
	BufferVirtual BufferFlags = 1 << iota
	// BufferNoCPUAccess means the buffer is never mapped by the host
	BufferNoCPUAccess
)

func init() {
	BufferVirtual.Register("BufferVirtual")
	BufferNoCPUAccess.Register("BufferNoCPUAccess")
}

// Buffer is a buffer object owned by the window system
type Buffer interface {
	// Handle identifies the buffer to the window system
	Handle() uint64
	// Address is the GPU virtual address the buffer starts at
	Address() uint64
	Size() uint64
	Flags() BufferFlags
}

// Winsys is the part of the kernel driver interface the planner needs: reserving and releasing
// buffer objects. Implementations must be safe for concurrent use.
type Winsys interface {
	CreateBuffer(size uint64, alignment uint64, flags BufferFlags) (Buffer, error)
	DestroyBuffer(buffer Buffer) error
}
