package correlator

import "hash/fnv"

// Palette is fixed so a source keeps its color however many others are shown.
var Palette = [...]string{
	"#FFD54F", // amber
	"#81C784", // green
	"#64B5F6", // blue
	"#F06292", // pink
	"#BA68C8", // purple
	"#4DD0E1", // cyan
	"#FF8A65", // orange
	"#A1887F", // brown
}

// ColorFor depends on the source id alone.
func ColorFor(sourceId string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sourceId))
	return Palette[h.Sum32()%uint32(len(Palette))]
}
