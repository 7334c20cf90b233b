package layout_test

import (
	"fmt"
	"io"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/layout"
	"github.com/vkngwrapper/imagelayout/surface"
	mock_surface "github.com/vkngwrapper/imagelayout/surface/mocks"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slog"
)

func mockBuilder(calc surface.Calculator) *layout.Builder {
	return layout.NewBuilder(slog.New(slog.NewTextHandler(io.Discard)), hwinfo.NewInfo(hwinfo.GFX10_3), calc, &atomic.Uint32{}, layout.ImportPolicy{})
}

func TestBuildCalculatorInitFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	calc := mock_surface.NewMockCalculator(ctrl)

	calc.EXPECT().Init(gomock.Any(), gomock.Any()).Return(errors.New("no swizzle mode fits"))

	_, err := mockBuilder(calc).Build(colorTarget(512, 512))
	require.Error(t, err)
	require.True(t, errors.Is(err, layout.ErrInvalidDescriptor))
	require.Contains(t, fmt.Sprintf("%+v", err), "no swizzle mode fits")
}

func TestBuildCalculatorRejectsPlacement(t *testing.T) {
	ctrl := gomock.NewController(t)
	calc := mock_surface.NewMockCalculator(ctrl)
	addrlib := surface.NewAddrCalculator(hwinfo.NewInfo(hwinfo.GFX10_3))

	calc.EXPECT().Init(gomock.Any(), gomock.Any()).DoAndReturn(addrlib.Init)
	calc.EXPECT().Supports(gomock.Any(), surface.QueryDCCImageStores).DoAndReturn(addrlib.Supports).AnyTimes()
	calc.EXPECT().ZeroDCCFields(gomock.Any()).Do(addrlib.ZeroDCCFields).AnyTimes()
	calc.EXPECT().OverrideOffsetStride(gomock.Any(), 1, 1, uint64(0), 0).Return(false)

	_, err := mockBuilder(calc).Build(colorTarget(256, 256))
	require.Error(t, err)
	require.True(t, errors.Is(err, layout.ErrInvalidPlaneLayout))
}

func TestBuildDropsLateDCC(t *testing.T) {
	ctrl := gomock.NewController(t)
	calc := mock_surface.NewMockCalculator(ctrl)
	addrlib := surface.NewAddrCalculator(hwinfo.NewInfo(hwinfo.GFX10_3))

	desc := colorTarget(1024, 1024)
	desc.SharingMode = core1_0.SharingModeConcurrent
	desc.QueueFamilies = []hwinfo.QueueFamily{hwinfo.QueueGeneral, hwinfo.QueueCompute}

	// Concurrent images keep DCC only if image stores keep it compressed
	gomock.InOrder(
		calc.EXPECT().Init(gomock.Any(), gomock.Any()).DoAndReturn(addrlib.Init),
		calc.EXPECT().Supports(gomock.Any(), surface.QueryDCCImageStores).Return(false),
		calc.EXPECT().ZeroDCCFields(gomock.Any()).Do(addrlib.ZeroDCCFields),
		calc.EXPECT().Supports(gomock.Any(), surface.QueryDCCImageStores).Return(false),
		calc.EXPECT().OverrideOffsetStride(gomock.Any(), 1, 1, uint64(0), 0).DoAndReturn(addrlib.OverrideOffsetStride),
	)

	img, err := mockBuilder(calc).Build(desc)
	require.NoError(t, err)
	require.False(t, img.HasDCC(0))
	require.False(t, img.HasCMask())
	require.Zero(t, img.Plane(0).Capabilities)
}
