package imageapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/DMarby/bandfilter/internal/band"
	"github.com/DMarby/bandfilter/internal/bmp"
	"github.com/DMarby/bandfilter/internal/database"
	"github.com/DMarby/bandfilter/internal/filter"
	"github.com/DMarby/bandfilter/internal/handler"
	"github.com/DMarby/bandfilter/internal/image"
	"github.com/DMarby/bandfilter/internal/params"
	"github.com/gorilla/mux"
)

const imageIDHeader = "Bandfilter-ID"

var invalidParametersError = handler.BadRequest("Invalid parameters")

func (a *API) imageHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	// Only serve URLs signed by us
	valid, err := params.ValidateHMAC(a.HMAC, r)
	if err != nil {
		a.logError(r, "error validating hmac", err)
		return handler.InternalServerError()
	}

	if !valid {
		return invalidParametersError
	}

	// Get the path and query parameters
	p, err := params.GetParams(r)
	if err != nil {
		return handler.BadRequest(err.Error())
	}

	// Get the image from the database
	imageID := mux.Vars(r)["id"]
	databaseImage, handlerErr := a.getImage(r, imageID)
	if handlerErr != nil {
		return handlerErr
	}

	// Validate the parameters against the image before fetching any pixels
	workers := p.WorkerCount(a.Workers)
	if err := p.Validate(databaseImage, workers); err != nil {
		return handler.BadRequest(err.Error())
	}

	// Build the image task
	filterParams := p.FilterParams(databaseImage.ID)
	task := image.NewTask(databaseImage.ID, filterParams.Kind, workers).
		Shift(filterParams.Shift).
		Kernel(filterParams.KernelSize).
		Seed(filterParams.Seed)

	// Process the image
	processedImage, err := a.ImageProcessor.ProcessImage(r.Context(), task)
	if err != nil {
		// The stored image is narrower than the catalog says
		if errors.Is(err, band.ErrInvalidPartition) {
			a.Log.Warnw("catalog width doesn't match the source image", handler.LogFields(r,
				"image-id", databaseImage.ID,
				"catalog-width", databaseImage.Width,
				"workers", workers,
				"error", err,
			)...)
			return handler.BadRequest(fmt.Sprintf("%s: %d workers for image %s", params.ErrInvalidWorkers, workers, databaseImage.ID))
		}

		a.logError(r, "error processing image", err)
		return handler.InternalServerError()
	}

	// Set the headers
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"%s\"", buildFilename(databaseImage.ID, p, workers)))
	w.Header().Set("Content-Type", bmp.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=2592000, stale-while-revalidate=60, stale-if-error=43200, immutable") // Cache for a month
	w.Header().Set(imageIDHeader, databaseImage.ID)

	// Return the image
	w.Write(processedImage)

	return nil
}

func (a *API) getImage(r *http.Request, imageID string) (*database.Image, *handler.Error) {
	databaseImage, err := a.Database.Get(r.Context(), imageID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &handler.Error{Message: err.Error(), Code: http.StatusNotFound}
		}

		a.logError(r, "error getting image from database", err)
		return nil, handler.InternalServerError()
	}

	return databaseImage, nil
}

func buildFilename(imageID string, p *params.Params, workers int) string {
	filename := fmt.Sprintf("%s-%s", imageID, p.Filter)

	switch p.Filter {
	case filter.ChannelShift:
		filename += fmt.Sprintf("-r%d_g%d_b%d", p.Shift.R, p.Shift.G, p.Shift.B)
	case filter.BoxBlur:
		filename += fmt.Sprintf("-k%d", p.KernelSize)
	case filter.HolePunch:
		if p.Seed != "" {
			filename += "-seed"
		}
	}

	filename += fmt.Sprintf("-w%d", workers)
	filename += p.Extension

	return filename
}
