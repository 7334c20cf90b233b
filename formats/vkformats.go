package formats

import "github.com/vkngwrapper/core/v2/core1_0"

// Format values that are not in the core 1.0 format list, or that this package names by their
// numeric value to stay independent of binding naming.
const (
	FormatR8G8B8A8SRGB           core1_0.Format = 43
	FormatR8G8B8A8UInt           core1_0.Format = 41
	FormatR8G8B8A8SInt           core1_0.Format = 42
	FormatR8G8B8A8SNorm          core1_0.Format = 38
	FormatR16SFloat              core1_0.Format = 76
	FormatR32G32UInt             core1_0.Format = 101
	FormatR64SInt                core1_0.Format = 111
	FormatX8D24UNormPack32       core1_0.Format = 125
	FormatD16UNormS8UInt         core1_0.Format = 128
	FormatBC1RGBAUNormBlock      core1_0.Format = 133
	FormatBC3UNormBlock          core1_0.Format = 137
	FormatBC7UNormBlock          core1_0.Format = 145
	FormatETC2R8G8B8UNormBlock   core1_0.Format = 147
	FormatETC2R8G8B8A8UNormBlock core1_0.Format = 151
	FormatEACR11UNormBlock       core1_0.Format = 153

	FormatG8B8G8R8422UNorm     core1_0.Format = 1000156000
	FormatG8B8R83Plane420UNorm core1_0.Format = 1000156002
	FormatG8B8R82Plane420UNorm core1_0.Format = 1000156003
)
