package hwinfo

import (
	"github.com/cockroachdb/errors"
)

// VendorIDATI is the PCI vendor id stamped into exported image metadata
const VendorIDATI uint32 = 0x1002

// Info describes the device an image is planned for. The generation selects a capability table
// entry; the remaining fields describe chip and driver configuration that the table cannot.
type Info struct {
	Generation Generation
	Family     Family
	// PCIID is the PCI device id of the chip
	PCIID uint32

	// RBPlusAllowed is true when the render backends can use RB+ for small formats
	RBPlusAllowed bool
	// DCCMSAAAllowed enables DCC on multisampled images on generations where it is gated
	DCCMSAAAllowed bool
	// ImageFloat32Atomics is true when shaders can issue float atomics on 32-bit float images
	ImageFloat32Atomics bool
	// ImageInt64Atomics is true when shaders can issue atomics on 64-bit integer images
	ImageInt64Atomics bool
	// TCCRBNonCoherent is true when the texture cache and render backends are not coherent for
	// metadata that is not aligned to the pipe layout
	TCCRBNonCoherent bool
	// AttachmentVRSEnabled is true when depth surfaces may carry variable-rate shading data in HTILE
	AttachmentVRSEnabled bool
	// EmulateETC2 is true when ETC2/EAC formats are stored with an extra decompressed plane
	EmulateETC2 bool
	// NoTCCompatHTileInGeneral keeps texture-compatible HTILE decompressed in the general layout,
	// for applications that sample depth they are rendering to
	NoTCCompatHTileInGeneral bool

	// PipesLog2 is log2 of the number of memory pipes, used to classify pipe-misaligned metadata
	PipesLog2 int
	// MaxCompressedFragsLog2 is log2 of the number of FMASK fragments the colour block can hold
	MaxCompressedFragsLog2 int

	DebugFlags DebugFlags
}

// NewInfo returns a device description for a generation, with chip options set the way the
// generation usually ships them
func NewInfo(generation Generation) Info {
	return Info{
		Generation:             generation,
		Family:                 FamilyGeneric,
		PCIID:                  defaultPCIIDs[generation],
		RBPlusAllowed:          generation >= GFX10_3,
		DCCMSAAAllowed:         generation >= GFX10,
		ImageFloat32Atomics:    generation >= GFX7,
		ImageInt64Atomics:      generation >= GFX9,
		EmulateETC2:            generation >= GFX10,
		PipesLog2:              3,
		MaxCompressedFragsLog2: 2,
	}
}

var defaultPCIIDs = map[Generation]uint32{
	GFX6:    0x6798,
	GFX7:    0x67b0,
	GFX8:    0x67df,
	GFX9:    0x687f,
	GFX10:   0x731f,
	GFX10_3: 0x73bf,
	GFX11:   0x744c,
}

// Capabilities returns the capability table entry for the device's generation
func (i *Info) Capabilities() Capabilities {
	caps, _ := CapabilitiesFor(i.Generation)
	return caps
}

// UseFMask returns true if multisampled colour images get FMASK metadata on this device
func (i *Info) UseFMask() bool {
	return i.Capabilities().MultisampleAux && i.DebugFlags&DebugNoFMask == 0
}

// Validate returns an error if the description does not correspond to a known device
func (i *Info) Validate() error {
	if _, ok := CapabilitiesFor(i.Generation); !ok {
		return errors.Newf("unknown hardware generation %d", int(i.Generation))
	}

	if i.Family == FamilyStoney && i.Generation != GFX8 {
		return errors.Newf("family %s is a GFX8 chip, but generation is %s", i.Family, i.Generation)
	}

	return nil
}
