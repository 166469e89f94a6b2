package shape

// Palette is the fixed set of stroke colours offered to respondents, one slot
// per shape. The first colour appears twice so that all eight slots are
// available; colour selection works per slot, not per distinct colour.
var Palette = []string{
	"#FFC6BC",
	"#FEDEA2",
	"#FFF9B8",
	"#D3DBB2",
	"#A7D3D2",
	"#EFE3F3",
	"#C4D0F5",
	"#FFC6BC",
}

// PickColor returns the first palette slot not taken by a colour in used.
//
// A colour listed n times in used occupies its first n slots, so duplicates in
// the palette still behave as separate slots and a colour becomes available
// again as soon as the shape carrying it is deleted. When every slot is taken
// the palette wraps around by count.
func PickColor(palette []string, used []string) string {
	if len(palette) == 0 {
		return ""
	}

	taken := make(map[string]int, len(used))
	for _, c := range used {
		taken[c]++
	}
	for _, c := range palette {
		if taken[c] > 0 {
			taken[c]--
			continue
		}
		return c
	}
	return palette[len(used)%len(palette)]
}
