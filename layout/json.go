package layout

import (
	"strconv"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// PrintDetailedMap populates a json object with the image's parameters and every region of
// every binding
func (i *Image) PrintDetailedMap(json jwriter.ObjectState) {
	json.Name("Format").Int(int(i.Descriptor.Format))
	json.Name("Width").Int(i.Width)
	json.Name("Height").Int(i.Height)
	json.Name("Size").Int(int(i.Size))
	json.Name("Alignment").Int(int(i.Alignment))
	json.Maybe("Disjoint", i.Disjoint).Bool(true)
	json.Maybe("L2Coherent", i.L2Coherent).Bool(true)
	json.Maybe("TCCompatibleCMask", i.TCCompatibleCMask).Bool(true)
	json.Maybe("CompToSingle", i.SupportsCompToSingle).Bool(true)

	planesArray := json.Name("Planes").Array()
	for index := range i.Planes {
		plane := &i.Planes[index]

		planeObj := planesArray.Object()
		planeObj.Name("Format").Int(int(plane.Format))
		planeObj.Name("Binding").Int(plane.Binding)
		planeObj.Name("Offset").Int(int(plane.Offset))
		planeObj.Name("Size").Int(int(plane.Size))
		planeObj.Name("Alignment").Int(int(plane.Alignment))
		planeObj.Name("Capabilities").String(plane.Capabilities.String())
		planeObj.End()
	}
	planesArray.End()

	bindingsObj := json.Name("Bindings").Object()
	for index, binding := range i.bindings {
		bindingObj := bindingsObj.Name(strconv.Itoa(index)).Object()
		_, bound := i.Bound(index)
		bindingObj.Name("Bound").Bool(bound)
		binding.PrintDetailedMap(bindingObj, regionName)
		bindingObj.End()
	}
	bindingsObj.End()
}

// String returns the detailed map of the image as a JSON document
func (i *Image) String() string {
	writer := jwriter.NewWriter()
	obj := writer.Object()
	i.PrintDetailedMap(obj)
	obj.End()

	return string(writer.Bytes())
}
