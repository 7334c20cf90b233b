package hwinfo

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
)

// DebugFlags change which metadata the planner is willing to allocate, for driver debugging
type DebugFlags int32

var debugFlagsMapping = common.NewFlagStringMapping[DebugFlags]()

func (f DebugFlags) Register(str string) {
	debugFlagsMapping.Register(f, str)
}
func (f DebugFlags) String() string {
	return debugFlagsMapping.FlagsToString(f)
}

const (
	// DebugNoDCC disables lossless colour compression
	DebugNoDCC DebugFlags = 1 << iota
	// DebugNoHiZ disables hierarchical depth metadata
	DebugNoHiZ
	// DebugNoFastClears disables every form of fast clear
	DebugNoFastClears
	// DebugForceCompress allocates metadata even where heuristics would skip it
	DebugForceCompress
	// DebugNoTCCompatCMask disables texture-compatible CMASK
	DebugNoTCCompatCMask
	// DebugNoDisplayDCC disables DCC on scanout images
	DebugNoDisplayDCC
	// DebugNoFMask disables FMASK on multisampled colour images
	DebugNoFMask
	// DebugImages logs the complete layout of every image that is created
	DebugImages
)

var debugFlagNames = map[string]DebugFlags{
	"nodcc":           DebugNoDCC,
	"nohiz":           DebugNoHiZ,
	"nofastclears":    DebugNoFastClears,
	"forcecompress":   DebugForceCompress,
	"notccompatcmask": DebugNoTCCompatCMask,
	"nodisplaydcc":    DebugNoDisplayDCC,
	"nofmask":         DebugNoFMask,
	"img":             DebugImages,
}

func init() {
	DebugNoDCC.Register("NoDCC")
	DebugNoHiZ.Register("NoHiZ")
	DebugNoFastClears.Register("NoFastClears")
	DebugForceCompress.Register("ForceCompress")
	DebugNoTCCompatCMask.Register("NoTCCompatCMask")
	DebugNoDisplayDCC.Register("NoDisplayDCC")
	DebugNoFMask.Register("NoFMask")
	DebugImages.Register("Images")
}

// ParseDebugFlags parses a comma-separated list of debug option names, such as
// "nodcc,forcecompress". Names are not case-sensitive and empty entries are ignored.
func ParseDebugFlags(options string) (DebugFlags, error) {
	var flags DebugFlags

	for _, option := range strings.Split(options, ",") {
		option = strings.ToLower(strings.TrimSpace(option))
		if option == "" {
			continue
		}

		flag, ok := debugFlagNames[option]
		if !ok {
			return 0, errors.Newf("unknown debug option %q", option)
		}
		flags |= flag
	}

	return flags, nil
}
