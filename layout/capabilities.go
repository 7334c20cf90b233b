package layout

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
)

// Capabilities is the set of compression features actually enabled on one plane
type Capabilities int32

var capabilitiesMapping = common.NewFlagStringMapping[Capabilities]()

func (c Capabilities) Register(str string) {
	capabilitiesMapping.Register(c, str)
}
func (c Capabilities) String() string {
	return capabilitiesMapping.FlagsToString(c)
}

const (
	// CapabilityFastClearAux means the plane has CMASK or HTILE backing fast clears
	CapabilityFastClearAux Capabilities = 1 << iota
	// CapabilityLosslessCompression means the plane carries DCC
	CapabilityLosslessCompression
	// CapabilityHierarchicalDepth means the plane carries HTILE
	CapabilityHierarchicalDepth
	// CapabilityMultisampleAux means the plane carries FMASK
	CapabilityMultisampleAux
	// CapabilityCompressionShaderReadable means shaders can sample the plane without
	// decompressing it first
	CapabilityCompressionShaderReadable
	// CapabilityTCCompatible means the texture unit reads the plane's HTILE or CMASK directly
	CapabilityTCCompatible
	// CapabilityPredication means DCC decompression is predicated on stored compression state
	CapabilityPredication
	// CapabilityStoreCompatible means shader image stores keep DCC compressed
	CapabilityStoreCompatible
	// CapabilitySingleValueClear means fast clears write a single clear value into DCC and need no
	// eliminate pass
	CapabilitySingleValueClear
)

func init() {
	CapabilityFastClearAux.Register("FastClearAux")
	CapabilityLosslessCompression.Register("LosslessCompression")
	CapabilityHierarchicalDepth.Register("HierarchicalDepth")
	CapabilityMultisampleAux.Register("MultisampleAux")
	CapabilityCompressionShaderReadable.Register("CompressionShaderReadable")
	CapabilityTCCompatible.Register("TCCompatible")
	CapabilityPredication.Register("Predication")
	CapabilityStoreCompatible.Register("StoreCompatible")
	CapabilitySingleValueClear.Register("SingleValueClear")
}

// Has returns true if every capability in other is present
func (c Capabilities) Has(other Capabilities) bool {
	return c&other == other
}

var capabilityPrerequisites = []struct {
	capability Capabilities
	requires   Capabilities
}{
	{CapabilityStoreCompatible, CapabilityLosslessCompression},
	{CapabilitySingleValueClear, CapabilityLosslessCompression},
	{CapabilityPredication, CapabilityLosslessCompression},
	{CapabilityCompressionShaderReadable, CapabilityLosslessCompression | CapabilityHierarchicalDepth | CapabilityMultisampleAux},
	{CapabilityTCCompatible, CapabilityCompressionShaderReadable},
}

// Validate checks that every enabled capability has its prerequisite enabled
func (c Capabilities) Validate() error {
	for _, rule := range capabilityPrerequisites {
		if c&rule.capability != 0 && c&rule.requires == 0 {
			return errors.AssertionFailedf("capability %s is enabled without %s", rule.capability, rule.requires)
		}
	}

	return nil
}
