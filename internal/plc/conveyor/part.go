package conveyor

import "fmt"

type Color int

const (
	Red Color = iota
	Blue
	Green
)

type Shape int

const (
	Circle Shape = iota
	Square
	Triangle
)

type Size int

const (
	Small Size = iota
	Medium
	Large
)

var (
	colorNames = [3]string{"red", "blue", "green"}
	shapeNames = [3]string{"circle", "square", "triangle"}
	sizeNames  = [3]string{"small", "medium", "large"}

	// ColorHex are the belt and part colors used by the HMI.
	ColorHex = [3]string{"#ef4444", "#3b82f6", "#10b981"}
)

func (c Color) String() string { return colorNames[c] }
func (s Shape) String() string { return shapeNames[s] }
func (s Size) String() string  { return sizeNames[s] }

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s Size) MarshalText() ([]byte, error)  { return []byte(s.String()), nil }

// Radius is the drawn part radius for a size.
func (s Size) Radius() float64 {
	switch s {
	case Small:
		return 10
	case Large:
		return 20
	default:
		return 15
	}
}

// Bins is the number of terminal bins, one per color/shape/size combination.
const Bins = 27

// BinIndex maps an attribute triple to its terminal bin.
func BinIndex(c Color, s Shape, z Size) int {
	return int(c)*9 + int(s)*3 + int(z)
}

// BinAttributes is the inverse of BinIndex.
func BinAttributes(bin int) (Color, Shape, Size) {
	return Color(bin / 9), Shape(bin / 3 % 3), Size(bin % 3)
}

// BinLabel names a bin the way the end-of-lane tags do, e.g. "Red Circle Sm".
func BinLabel(bin int) string {
	c, s, z := BinAttributes(bin)
	short := [3]string{"Sm", "Med", "Lg"}
	return fmt.Sprintf("%s %s %s", title(c.String()), title(s.String()), short[z])
}

func title(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// Phase is the belt section a part is on.
type Phase int

const (
	MainBelt Phase = iota
	ColorBranch
	ShapeBranch
	SizeBranch
)

// Part is one item travelling the sorter.
type Part struct {
	ID       int     `json:"id"`
	Color    Color   `json:"color"`
	Shape    Shape   `json:"shape"`
	Size     Size    `json:"size"`
	Phase    Phase   `json:"phase"`
	Progress float64 `json:"progress"`
}

// Bin is the terminal bin this part will end up in.
func (p Part) Bin() int { return BinIndex(p.Color, p.Shape, p.Size) }
