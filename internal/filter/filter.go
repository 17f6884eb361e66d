package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DMarby/bandfilter/internal/pixel"
)

// Kind is the filter to apply
type Kind int

const (
	// Grayscale converts pixels to their luma
	Grayscale Kind = iota
	// ChannelShift adds a signed amount to each channel
	ChannelShift
	// BoxBlur averages each pixel over a square neighborhood
	BoxBlur
	// HolePunch tints the image and punches circular black holes into it
	HolePunch
)

// DefaultKernelSize is the box blur neighborhood used when none is given
const DefaultKernelSize = 3

// MaxKernelSize is the largest box blur neighborhood accepted, bounding the work per pixel
const MaxKernelSize = 101

// cheeseTint is the shift applied after grayscale by the hole punch filter
var cheeseTint = Shift{R: 150, G: 150, B: 0}

// Errors
var (
	ErrUnknownFilter = errors.New("unknown filter")
	ErrInvalidKernel = errors.New("invalid kernel size")
)

var kindNames = map[Kind]string{
	Grayscale:    "grayscale",
	ChannelShift: "shift",
	BoxBlur:      "blur",
	HolePunch:    "cheese",
}

var kindAliases = map[string]Kind{
	"grayscale":  Grayscale,
	"greyscale":  Grayscale,
	"bw":         Grayscale,
	"g":          Grayscale,
	"shift":      ChannelShift,
	"colorshift": ChannelShift,
	"s":          ChannelShift,
	"blur":       BoxBlur,
	"boxblur":    BoxBlur,
	"b":          BoxBlur,
	"cheese":     HolePunch,
	"holepunch":  HolePunch,
	"c":          HolePunch,
}

// ParseKind returns the filter kind for a name or one of its aliases
func ParseKind(name string) (Kind, error) {
	kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}

	return kind, nil
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Shift is a signed per-channel adjustment
type Shift struct {
	R int
	G int
	B int
}

// Params selects a filter and its arguments
type Params struct {
	Kind       Kind
	Shift      Shift // ChannelShift only
	KernelSize int   // BoxBlur only, odd; 0 means DefaultKernelSize
	Seed       int64 // HolePunch only
}

// Kernel returns the effective box blur kernel size
func (p Params) Kernel() int {
	if p.KernelSize == 0 {
		return DefaultKernelSize
	}

	return p.KernelSize
}

// Validate checks the parameters for the selected kind
func (p Params) Validate() error {
	if _, ok := kindNames[p.Kind]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFilter, p.Kind)
	}

	if p.Kind == BoxBlur {
		if k := p.Kernel(); k < 1 || k%2 == 0 || k > MaxKernelSize {
			return fmt.Errorf("%w: %d, must be odd and between 1 and %d", ErrInvalidKernel, k, MaxKernelSize)
		}
	}

	return nil
}

// Pixel computes the filtered value of the pixel at (row, col), reading only from src.
// For HolePunch this is the tint step; holes are punched into the assembled output afterwards.
func (p Params) Pixel(src *pixel.Grid, row, col int) pixel.Pixel {
	switch p.Kind {
	case Grayscale:
		return GrayscalePixel(src.At(row, col))
	case ChannelShift:
		return ShiftPixel(src.At(row, col), p.Shift)
	case BoxBlur:
		return BlurPixel(src, row, col, p.Kernel())
	case HolePunch:
		return ShiftPixel(GrayscalePixel(src.At(row, col)), cheeseTint)
	default:
		return src.At(row, col)
	}
}
