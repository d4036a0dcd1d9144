package carousel

// CurveID names one of the curves sampled during a refresh.
type CurveID int

const (
	CurveX CurveID = iota
	CurveY
	CurveScale
	CurveDepth
)

func (c CurveID) String() string {
	switch c {
	case CurveX:
		return "x"
	case CurveY:
		return "y"
	case CurveScale:
		return "scale"
	case CurveDepth:
		return "depth"
	default:
		return "unknown"
	}
}

// Transform is the per-frame placement pushed to the host for one slot.
type Transform struct {
	X     float64
	Y     float64
	Scale float64
	Depth int
}

// Host owns the visual objects backing each slot. The view never creates or
// frees them itself.
type Host[H comparable] interface {
	Acquire() (H, error)
	Release(h H)
	ProvideData(h H, dataIndex int)
	Selected(h H, selected bool)
	ApplyTransform(h H, t Transform)
	// Bounds reports the drawable area the slots are laid out in.
	Bounds() (width, height float64)
	// PreferredWidth is the unscaled width of the content in h.
	PreferredWidth(h H) float64
}

// SettleNotifier is implemented by hosts that want to know when the view has
// come to rest on a slot.
type SettleNotifier interface {
	Settled(centerIndex int)
}

// Curves samples the animation curves.
type Curves interface {
	Evaluate(id CurveID, t float64) float64
}

// CurvesFunc adapts a plain function to Curves.
type CurvesFunc func(id CurveID, t float64) float64

func (f CurvesFunc) Evaluate(id CurveID, t float64) float64 { return f(id, t) }
