package planner

// ObjectKind is the kind of object whose bookkeeping a host memory callback is told about
type ObjectKind int

const (
	ObjectImage ObjectKind = iota
	ObjectImageView
)

var objectKindMapping = map[ObjectKind]string{
	ObjectImage:     "Image",
	ObjectImageView: "ImageView",
}

func (k ObjectKind) String() string {
	return objectKindMapping[k]
}

// AllocateHostMemoryCallback is called before the device keeps the bookkeeping of a new object.
// Returning false refuses the allocation.
type AllocateHostMemoryCallback func(
	device *Device,
	kind ObjectKind,
	size int,
	userData interface{},
) bool

// FreeHostMemoryCallback is called once the bookkeeping of an object has been released
type FreeHostMemoryCallback func(
	device *Device,
	kind ObjectKind,
	size int,
	userData interface{},
)

type HostMemoryCallbacks struct {
	Allocate AllocateHostMemoryCallback
	Free     FreeHostMemoryCallback
	UserData interface{}
}

type hostMemoryCallbacks struct {
	Callbacks *HostMemoryCallbacks
	Device    *Device
}

func (c *hostMemoryCallbacks) Allocate(kind ObjectKind, size int) bool {
	if c.Callbacks != nil && c.Callbacks.Allocate != nil {
		return c.Callbacks.Allocate(c.Device, kind, size, c.Callbacks.UserData)
	}

	return true
}

func (c *hostMemoryCallbacks) Free(kind ObjectKind, size int) {
	if c.Callbacks != nil && c.Callbacks.Free != nil {
		c.Callbacks.Free(c.Device, kind, size, c.Callbacks.UserData)
	}
}
