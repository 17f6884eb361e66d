package params

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/DMarby/bandfilter/internal/band"
	"github.com/DMarby/bandfilter/internal/database"
	"github.com/DMarby/bandfilter/internal/filter"
	"github.com/gorilla/mux"
	"github.com/twmb/murmur3"
)

// Errors
var (
	ErrInvalidFilter        = fmt.Errorf("Invalid filter")
	ErrInvalidShift         = fmt.Errorf("Invalid channel shift")
	ErrInvalidKernel        = fmt.Errorf("Invalid kernel size")
	ErrInvalidWorkers       = fmt.Errorf("Invalid worker count")
	ErrInvalidFileExtension = fmt.Errorf("Invalid file extension")
)

const defaultExtension = ".bmp"

// Params contains all the parameters for a request
type Params struct {
	Filter     filter.Kind
	Shift      filter.Shift
	KernelSize int
	Workers    int    // 0 when not given
	Seed       string // raw seed, empty when not given
	Extension  string
}

// GetParams parses and returns all the path and query parameters
func GetParams(r *http.Request) (*Params, error) {
	vars := mux.Vars(r)

	kind, err := filter.ParseKind(vars["filter"])
	if err != nil {
		return nil, ErrInvalidFilter
	}

	extension, err := getFileExtension(vars["extension"])
	if err != nil {
		return nil, err
	}

	query := r.URL.Query()
	params := &Params{
		Filter:     kind,
		KernelSize: filter.DefaultKernelSize,
		Seed:       query.Get("seed"),
		Extension:  extension,
	}

	if params.Shift, err = getShift(query); err != nil {
		return nil, err
	}

	if kernel, ok, err := intQueryParam(query, "kernel"); err != nil {
		return nil, ErrInvalidKernel
	} else if ok {
		params.KernelSize = kernel
	}

	if workers, ok, err := intQueryParam(query, "workers"); err != nil || (ok && workers < 1) {
		return nil, ErrInvalidWorkers
	} else if ok {
		params.Workers = workers
	}

	return params, nil
}

// getFileExtension validates the optional extension path param
func getFileExtension(val string) (string, error) {
	val = strings.ToLower(val)
	if val == "" {
		return defaultExtension, nil
	}

	// We only serve bmp images
	if val != defaultExtension {
		return "", ErrInvalidFileExtension
	}

	return val, nil
}

func getShift(query url.Values) (shift filter.Shift, err error) {
	channels := []struct {
		name  string
		value *int
	}{
		{"r", &shift.R},
		{"g", &shift.G},
		{"b", &shift.B},
	}

	for _, channel := range channels {
		val, ok, err := intQueryParam(query, channel.name)
		if err != nil {
			return filter.Shift{}, ErrInvalidShift
		}

		if ok {
			*channel.value = val
		}
	}

	return shift, nil
}

// intQueryParam returns the integer value of a query param, and whether it was present
func intQueryParam(query url.Values, name string) (int, bool, error) {
	if _, ok := query[name]; !ok {
		return 0, false, nil
	}

	val, err := strconv.Atoi(query.Get(name))
	if err != nil {
		return 0, true, err
	}

	return val, true, nil
}

// WorkerCount returns the requested worker count, or fallback if none was requested
func (p *Params) WorkerCount(fallback int) int {
	if p.Workers > 0 {
		return p.Workers
	}

	return fallback
}

// FilterParams returns the filter parameters for an image, seeding the hole punch filter
// from the seed param or, without one, from the image id so responses stay cacheable
func (p *Params) FilterParams(imageID string) filter.Params {
	seed := p.Seed
	if seed == "" {
		seed = imageID
	}

	return filter.Params{
		Kind:       p.Filter,
		Shift:      p.Shift,
		KernelSize: p.KernelSize,
		Seed:       int64(murmur3.StringSum64(seed)),
	}
}

// Query returns the query params that reproduce p, leaving out defaults
func (p *Params) Query() url.Values {
	query := url.Values{}

	shifts := []struct {
		name  string
		value int
	}{
		{"r", p.Shift.R},
		{"g", p.Shift.G},
		{"b", p.Shift.B},
	}
	for _, shift := range shifts {
		if shift.value != 0 {
			query.Set(shift.name, strconv.Itoa(shift.value))
		}
	}

	if p.KernelSize != filter.DefaultKernelSize {
		query.Set("kernel", strconv.Itoa(p.KernelSize))
	}

	if p.Workers > 0 {
		query.Set("workers", strconv.Itoa(p.Workers))
	}

	if p.Seed != "" {
		query.Set("seed", p.Seed)
	}

	return query
}

// Validate checks the parameters against the image they are applied to
func (p *Params) Validate(image *database.Image, workers int) error {
	if err := p.FilterParams(image.ID).Validate(); err != nil {
		if errors.Is(err, filter.ErrInvalidKernel) {
			return ErrInvalidKernel
		}

		return err
	}

	if _, err := band.Partition(image.Width, workers); err != nil {
		return fmt.Errorf("%w: %d workers for an image %d pixels wide", ErrInvalidWorkers, workers, image.Width)
	}

	return nil
}
