package planner_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/planner"
	"github.com/vkngwrapper/imagelayout/projection"
)

func TestCalculateStatistics(t *testing.T) {
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})

	stats := device.CalculateStatistics()
	require.Zero(t, stats.ImageCount)
	require.Zero(t, stats.Footprint.BindingBytes)

	large := createImage(t, device, colorTarget(512, 512))
	createImage(t, device, colorTarget(256, 256))
	_, _, err := device.CreateImageView(large, projection.ViewRequest{
		Type:   core1_0.ImageViewType2D,
		Aspect: core1_0.ImageAspectColor,
	})
	require.NoError(t, err)

	stats = device.CalculateStatistics()
	require.Equal(t, 2, stats.ImageCount)
	require.Equal(t, 1, stats.ImageViewCount)
	require.Zero(t, stats.SparseImageCount)
	require.Equal(t, 2, stats.Footprint.BindingCount)
	require.Equal(t, uint64(1114112+262144), stats.Footprint.BindingBytes)
	require.LessOrEqual(t, stats.Footprint.RegionBytes, stats.Footprint.BindingBytes)
	require.Equal(t, stats.Footprint.BindingBytes-stats.Footprint.RegionBytes, stats.Footprint.PaddingBytes())
}

func TestBuildStatsString(t *testing.T) {
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{DebugFlags: hwinfo.DebugNoFMask})
	createImage(t, device, colorTarget(512, 512))
	createImage(t, device, image2D(core1_0.FormatD32SignedFloat, 256, 256, core1_0.ImageUsageDepthStencilAttachment))

	summary := device.BuildStatsString(false)
	require.True(t, json.Valid([]byte(summary)))
	require.Contains(t, summary, `"ImageCount":2`)
	require.Contains(t, summary, `"BindingCount":2`)
	require.Contains(t, summary, `"DebugFlags":"NoFMask"`)
	require.NotContains(t, summary, `"Images"`)

	detailed := device.BuildStatsString(true)
	require.True(t, json.Valid([]byte(detailed)))
	require.Contains(t, detailed, `"Images":{"1":{"ViewCount":0`)
	require.Contains(t, detailed, `"Planes":[{`)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(detailed), &parsed))
	images := parsed["Images"].(map[string]interface{})
	require.Len(t, images, 2)
}
