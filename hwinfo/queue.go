package hwinfo

// QueueFamily identifies a kind of hardware queue that may own an image
type QueueFamily int

const (
	QueueGeneral QueueFamily = iota
	QueueCompute
	QueueTransfer
	QueueVideoDecode
	QueueVideoEncode
	// MaxQueueFamilies is the number of real queue families
	MaxQueueFamilies
)

const (
	// QueueForeign stands for any queue outside this device: another device, another API, or
	// the display engine
	QueueForeign QueueFamily = MaxQueueFamilies + iota
	// QueueIgnored means an ownership transfer does not change the owning queue
	QueueIgnored
)

var queueFamilyMapping = map[QueueFamily]string{
	QueueGeneral:     "General",
	QueueCompute:     "Compute",
	QueueTransfer:    "Transfer",
	QueueVideoDecode: "VideoDecode",
	QueueVideoEncode: "VideoEncode",
	QueueForeign:     "Foreign",
	QueueIgnored:     "Ignored",
}

func (q QueueFamily) String() string {
	return queueFamilyMapping[q]
}

// QueueMask is a set of queue families, one bit per family
type QueueMask uint32

// AllQueues contains every real queue family
const AllQueues QueueMask = (1 << MaxQueueFamilies) - 1

// QueueMaskOf returns the mask containing only family
func QueueMaskOf(family QueueFamily) QueueMask {
	return QueueMask(1) << family
}

// Has returns true if family is in the mask
func (m QueueMask) Has(family QueueFamily) bool {
	return m&QueueMaskOf(family) != 0
}

// Only returns true if the mask contains family and no other queue family
func (m QueueMask) Only(family QueueFamily) bool {
	return m == QueueMaskOf(family)
}
