package planner

import (
	"sync/atomic"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/internal/utils"
	"github.com/vkngwrapper/imagelayout/layout"
	"github.com/vkngwrapper/imagelayout/projection"
	"github.com/vkngwrapper/imagelayout/surface"
	"github.com/vkngwrapper/imagelayout/winsys"
	"golang.org/x/exp/slog"
)

var (
	// ErrUnknownImage is returned for image handles the device did not create or has destroyed
	ErrUnknownImage = errors.New("unknown image")
	// ErrUnknownImageView is returned for view handles the device did not create or has destroyed
	ErrUnknownImageView = errors.New("unknown image view")
)

// ImageHandle identifies an image created by a Device. The zero handle is never valid.
type ImageHandle uint64

// ImageViewHandle identifies an image view created by a Device. The zero handle is never valid.
type ImageViewHandle uint64

type deviceImage struct {
	image     *layout.Image
	buffer    winsys.Buffer
	viewCount int
	footprint int
}

type deviceView struct {
	image     ImageHandle
	view      *projection.ImageView
	footprint int
}

// Device plans the layout of images for one GPU and keeps track of the images and views it has
// created
type Device struct {
	logger      *slog.Logger
	info        hwinfo.Info
	createFlags CreateFlags

	builder   *layout.Builder
	projector *projection.Projector
	winsys    winsys.Winsys
	callbacks hostMemoryCallbacks

	surfIndex  atomic.Uint32
	nextHandle atomic.Uint64

	mutex  utils.OptionalRWMutex
	images *swiss.Map[ImageHandle, *deviceImage]
	views  *swiss.Map[ImageViewHandle, *deviceView]
}

// Info returns the hardware description the device plans for, including any debug flags added
// at creation
func (d *Device) Info() hwinfo.Info {
	return d.info
}

// Projector returns the projector that answers layout questions for the device's images
func (d *Device) Projector() *projection.Projector {
	return d.projector
}

func imageFootprint(img *layout.Image) int {
	return int(unsafe.Sizeof(deviceImage{})) + int(unsafe.Sizeof(layout.Image{})) +
		len(img.Planes)*int(unsafe.Sizeof(layout.PlaneLayout{})) +
		len(img.AuxRegions)*int(unsafe.Sizeof(layout.AuxiliaryRegion{}))
}

func viewFootprint(view *projection.ImageView) int {
	return int(unsafe.Sizeof(deviceView{})) + int(unsafe.Sizeof(projection.ImageView{})) +
		len(view.Descriptors)*int(unsafe.Sizeof(projection.PlaneDescriptor{}))
}

// CreateImage computes the layout of an image. Sparse images also reserve their virtual address
// range from the window system, and are bound to it for their whole lifetime.
func (d *Device) CreateImage(desc *layout.ImageDescriptor) (ImageHandle, common.VkResult, error) {
	if desc == nil {
		return 0, core1_0.VKErrorUnknown, errors.New("attempted to create an image from a nil descriptor")
	}

	d.logger.Debug("Device::CreateImage",
		slog.Int("Format", int(desc.Format)),
		slog.Int("Width", desc.Width()),
		slog.Int("Height", desc.Height()),
		slog.Int("Depth", desc.Depth()),
		slog.Int("MipLevels", desc.MipLevels),
		slog.Int("ArrayLayers", desc.ArrayLayers),
		slog.Int("Samples", desc.SampleCount()),
	)

	img, err := d.builder.Build(desc)
	if err != nil {
		return 0, layout.Result(err), err
	}

	entry := &deviceImage{
		image:     img,
		footprint: imageFootprint(img),
	}
	if !d.callbacks.Allocate(ObjectImage, entry.footprint) {
		err = errors.Wrap(layout.ErrOutOfHostMemory, "host memory callback refused image bookkeeping")
		return 0, layout.Result(err), err
	}

	if desc.HasFlag(core1_0.ImageCreateSparseBinding) {
		err = d.reserveSparseRange(entry)
		if err != nil {
			d.callbacks.Free(ObjectImage, entry.footprint)
			return 0, layout.Result(err), err
		}
	}

	if d.info.DebugFlags&hwinfo.DebugImages != 0 {
		d.logger.Debug("Device::CreateImage", slog.String("Layout", img.String()))
	}

	handle := ImageHandle(d.nextHandle.Add(1))

	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.images.Put(handle, entry)
	return handle, core1_0.VKSuccess, nil
}

func (d *Device) reserveSparseRange(entry *deviceImage) error {
	img := entry.image

	buffer, err := d.winsys.CreateBuffer(img.Size, img.Alignment, winsys.BufferVirtual)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "could not reserve the address range of a sparse image"), layout.ErrDeviceAllocationFailure)
	}

	err = img.Bind(0, layout.MemoryBinding{
		Memory:  buffer.Handle(),
		Address: buffer.Address(),
	})
	if err != nil {
		destroyErr := d.winsys.DestroyBuffer(buffer)
		if destroyErr != nil {
			d.logger.Error("Device::CreateImage failed to release a sparse range", slog.Any("error", destroyErr))
		}
		return errors.Mark(err, layout.ErrDeviceAllocationFailure)
	}

	entry.buffer = buffer
	return nil
}

func (d *Device) lookupImage(handle ImageHandle) (*deviceImage, error) {
	entry, ok := d.images.Get(handle)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownImage, "handle %d", handle)
	}
	return entry, nil
}

// Image returns the computed layout of an image. The layout is shared with the device: bind
// memory through BindImageMemory, which rejects sparse images and unknown handles, rather than
// through Image.Bind.
func (d *Device) Image(handle ImageHandle) (*layout.Image, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	entry, err := d.lookupImage(handle)
	if err != nil {
		return nil, err
	}
	return entry.image, nil
}

// DestroyImage releases an image and, for sparse images, its address range. Every view of the
// image must have been destroyed first.
func (d *Device) DestroyImage(handle ImageHandle) error {
	d.logger.Debug("Device::DestroyImage", slog.Uint64("Image", uint64(handle)))

	d.mutex.Lock()
	entry, err := d.lookupImage(handle)
	if err != nil {
		d.mutex.Unlock()
		return err
	}
	if entry.viewCount > 0 {
		d.mutex.Unlock()
		return errors.Newf("image %d still has %d views", handle, entry.viewCount)
	}
	d.images.Delete(handle)
	d.mutex.Unlock()

	return d.releaseImage(entry)
}

func (d *Device) releaseImage(entry *deviceImage) error {
	defer d.callbacks.Free(ObjectImage, entry.footprint)

	if entry.buffer == nil {
		return nil
	}

	err := d.winsys.DestroyBuffer(entry.buffer)
	if err != nil {
		return errors.Wrap(err, "could not release the address range of a sparse image")
	}
	return nil
}

// BindImageMemory records the memory a binding of an image is bound to. Sparse images are bound
// to their reserved range when they are created and cannot be bound again.
func (d *Device) BindImageMemory(handle ImageHandle, binding int, memory layout.MemoryBinding) (common.VkResult, error) {
	d.logger.Debug("Device::BindImageMemory",
		slog.Uint64("Image", uint64(handle)),
		slog.Int("Binding", binding),
		slog.Uint64("Offset", memory.Offset),
		slog.Uint64("Address", memory.Address),
	)

	d.mutex.Lock()
	defer d.mutex.Unlock()

	entry, err := d.lookupImage(handle)
	if err != nil {
		return core1_0.VKErrorUnknown, err
	}

	if entry.buffer != nil {
		return core1_0.VKErrorUnknown, errors.Newf("image %d is sparse and cannot be bound to memory", handle)
	}

	err = entry.image.Bind(binding, memory)
	if err != nil {
		return core1_0.VKErrorUnknown, err
	}
	return core1_0.VKSuccess, nil
}

// GetImageMemoryRequirements returns the size and alignment of the memory an aspect of an image
// must be bound to. Only disjoint images distinguish between aspects.
func (d *Device) GetImageMemoryRequirements(handle ImageHandle, aspect core1_0.ImageAspectFlags) (core1_0.MemoryRequirements, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	entry, err := d.lookupImage(handle)
	if err != nil {
		return core1_0.MemoryRequirements{}, err
	}

	size, alignment, err := entry.image.MemoryRequirements(aspect)
	if err != nil {
		return core1_0.MemoryRequirements{}, err
	}

	return core1_0.MemoryRequirements{
		Size:           int(size),
		Alignment:      int(alignment),
		MemoryTypeBits: ^uint32(0),
	}, nil
}

// GetImageSubresourceLayout returns where one level and layer of an aspect of an image lives
// within its binding
func (d *Device) GetImageSubresourceLayout(handle ImageHandle, aspect core1_0.ImageAspectFlags, level int, layer int) (layout.SubresourceLayout, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	entry, err := d.lookupImage(handle)
	if err != nil {
		return layout.SubresourceLayout{}, err
	}

	return entry.image.SubresourceLayout(d.builder.Calculator(), aspect, level, layer)
}

// ExportImageMetadata produces the opaque metadata another process needs to import the image
// with the same layout
func (d *Device) ExportImageMetadata(handle ImageHandle) (*surface.BOMetadata, common.VkResult, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	entry, err := d.lookupImage(handle)
	if err != nil {
		return nil, core1_0.VKErrorUnknown, err
	}

	md, err := d.builder.Rules().Metadata(entry.image, d.builder.Calculator())
	if err != nil {
		return nil, layout.Result(err), err
	}
	return md, core1_0.VKSuccess, nil
}

// ProjectLayout answers every layout question about an image in a state
func (d *Device) ProjectLayout(handle ImageHandle, state projection.State) (projection.Projection, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	entry, err := d.lookupImage(handle)
	if err != nil {
		return projection.Projection{}, err
	}

	return d.projector.Project(entry.image, state), nil
}

// QueueFamilyMask returns the queue families that may access an image after an ownership
// transfer to family, recorded on a command buffer of the current family
func (d *Device) QueueFamilyMask(handle ImageHandle, family hwinfo.QueueFamily, current hwinfo.QueueFamily) (hwinfo.QueueMask, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	entry, err := d.lookupImage(handle)
	if err != nil {
		return 0, err
	}

	return projection.QueueFamilyMask(entry.image, family, current), nil
}

// CreateImageView builds the descriptors of a view of an image
func (d *Device) CreateImageView(handle ImageHandle, request projection.ViewRequest) (ImageViewHandle, common.VkResult, error) {
	d.logger.Debug("Device::CreateImageView",
		slog.Uint64("Image", uint64(handle)),
		slog.Int("Format", int(request.Format)),
		slog.Int("BaseLevel", request.BaseLevel),
		slog.Int("BaseLayer", request.BaseLayer),
	)

	d.mutex.Lock()
	defer d.mutex.Unlock()

	entry, err := d.lookupImage(handle)
	if err != nil {
		return 0, core1_0.VKErrorUnknown, err
	}

	view, err := d.projector.CreateView(entry.image, request)
	if err != nil {
		return 0, layout.Result(err), err
	}

	viewEntry := &deviceView{
		image:     handle,
		view:      view,
		footprint: viewFootprint(view),
	}
	if !d.callbacks.Allocate(ObjectImageView, viewEntry.footprint) {
		err = errors.Wrap(layout.ErrOutOfHostMemory, "host memory callback refused view bookkeeping")
		return 0, layout.Result(err), err
	}

	viewHandle := ImageViewHandle(d.nextHandle.Add(1))
	d.views.Put(viewHandle, viewEntry)
	entry.viewCount++

	return viewHandle, core1_0.VKSuccess, nil
}

// ImageView returns the descriptors of a view
func (d *Device) ImageView(handle ImageViewHandle) (*projection.ImageView, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	entry, ok := d.views.Get(handle)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownImageView, "handle %d", handle)
	}
	return entry.view, nil
}

func (d *Device) DestroyImageView(handle ImageViewHandle) error {
	d.logger.Debug("Device::DestroyImageView", slog.Uint64("ImageView", uint64(handle)))

	d.mutex.Lock()
	defer d.mutex.Unlock()

	entry, ok := d.views.Get(handle)
	if !ok {
		return errors.Wrapf(ErrUnknownImageView, "handle %d", handle)
	}

	d.views.Delete(handle)
	image, ok := d.images.Get(entry.image)
	if ok {
		image.viewCount--
	}

	d.callbacks.Free(ObjectImageView, entry.footprint)
	return nil
}

// Destroy releases every image and view the application leaked. The device must not be used
// afterwards.
func (d *Device) Destroy() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.views.Count() > 0 || d.images.Count() > 0 {
		d.logger.Warn("Device::Destroy with live objects",
			slog.Int("Images", d.images.Count()),
			slog.Int("ImageViews", d.views.Count()),
		)
	}

	d.views.Iter(func(handle ImageViewHandle, entry *deviceView) bool {
		d.callbacks.Free(ObjectImageView, entry.footprint)
		return false
	})
	d.views.Clear()

	var err error
	d.images.Iter(func(handle ImageHandle, entry *deviceImage) bool {
		releaseErr := d.releaseImage(entry)
		if releaseErr != nil {
			err = errors.CombineErrors(err, releaseErr)
		}
		return false
	})
	d.images.Clear()

	return err
}
