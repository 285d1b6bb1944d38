package pixelcanvas

// Kind identifies which submission entry point a payload is for.
type Kind int

const (
	// KindAreas is a rectangle payload
	KindAreas Kind = iota + 1
	// KindRLE is a run data and palette payload pair
	KindRLE
)

func (k Kind) String() string {
	switch k {
	case KindAreas:
		return "areas"
	case KindRLE:
		return "rle"
	default:
		return "unknown"
	}
}
